package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/celestiaorg/pamdiscover/internal/services"
)

func init() {
	discoverStartCmd.Flags().StringP("gateway", "g", "", "Gateway name or UID")
	discoverStartCmd.Flags().StringP("resource", "r", "", "UID of the resource record. Set to discover a single resource.")
	discoverStartCmd.Flags().Bool("reset-all", false, "Clear existing jobs and the ignore list first")
	_ = discoverStartCmd.MarkFlagRequired("gateway")
}

var discoverStartCmd = &cobra.Command{
	Use:   "discover-start",
	Short: "Start a discovery job on a gateway",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, ok := requireSession()
		if !ok {
			return nil
		}

		gateway, _ := cmd.Flags().GetString("gateway")
		resource, _ := cmd.Flags().GetString("resource")
		resetAll, _ := cmd.Flags().GetBool("reset-all")

		opts := services.StartOptions{Gateway: gateway, ResetAll: resetAll}
		if resource != "" {
			opts.ResourceUID = &resource
		}

		res, err := s.Discovery.Start(commandContext(cmd), opts)
		if err != nil {
			if res != nil {
				printFailure(cmd, "Discovery job %s was saved but could not be sent to gateway %s: %v",
					res.Job.JobID, res.Info.Gateway.ControllerName, err)
				return nil
			}
			printFailure(cmd, "Could not start discovery on gateway %s: %v", gateway, err)
			return nil
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Discovery job %s queued on gateway %s (%s)\n",
			res.Job.JobID, res.Info.Gateway.ControllerName, res.Info.GatewayUID())
		if !res.Connected {
			_, _ = fmt.Fprintln(out, color.YellowString("The gateway is not connected. The job starts once it connects."))
		}
		return nil
	},
}

// GetDiscoverStartCmd returns the discover-start command
func GetDiscoverStartCmd() *cobra.Command {
	return discoverStartCmd
}
