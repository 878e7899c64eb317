package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	discoverGetCmd.Flags().StringP("job-id", "j", "", "Discovery job ID")
	_ = discoverGetCmd.MarkFlagRequired("job-id")
}

var discoverGetCmd = &cobra.Command{
	Use:   "discover-get",
	Short: "Fetch and decrypt the result of a discovery job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, ok := requireSession()
		if !ok {
			return nil
		}

		jobID, _ := cmd.Flags().GetString("job-id")
		got, err := s.Discovery.Get(commandContext(cmd), jobID)
		if err != nil {
			printFailure(cmd, "Could not get discovery job %s: %v", jobID, err)
			return nil
		}
		return printJSON(cmd.OutOrStdout(), got.Result)
	},
}

// GetDiscoverGetCmd returns the discover-get command
func GetDiscoverGetCmd() *cobra.Command {
	return discoverGetCmd
}
