package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/pamdiscover/internal/services"
)

func init() {
	discoverStatusCmd.Flags().StringP("gateway", "g", "", "Only show jobs of this gateway name or UID")
	discoverStatusCmd.Flags().StringP("resource", "r", "", "Only show jobs of this resource UID")
	discoverStatusCmd.Flags().String("json", "", "Save the status to a JSON file instead of printing a table")
}

var discoverStatusCmd = &cobra.Command{
	Use:   "discover-status",
	Short: "Show the status of discovery jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, ok := requireSession()
		if !ok {
			return nil
		}

		gateway, _ := cmd.Flags().GetString("gateway")
		resource, _ := cmd.Flags().GetString("resource")
		jsonFile, _ := cmd.Flags().GetString("json")

		reports, err := s.Discovery.Status(commandContext(cmd), services.StatusOptions{
			Gateway:     gateway,
			ResourceUID: resource,
		})
		if err != nil {
			printFailure(cmd, "Could not get discovery status: %v", err)
			return nil
		}

		if jsonFile != "" {
			data, err := json.MarshalIndent(reports, "", "    ")
			if err != nil {
				return fmt.Errorf("error formatting status: %w", err)
			}
			if err := os.WriteFile(jsonFile, data, 0o600); err != nil {
				printFailure(cmd, "Could not write %s: %v", jsonFile, err)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %d jobs to %s\n", len(reports), jsonFile)
			return nil
		}

		if len(reports) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No discovery jobs found.")
			return nil
		}
		renderJobTable(cmd.OutOrStdout(), reports, time.Now())
		return nil
	},
}

// GetDiscoverStatusCmd returns the discover-status command
func GetDiscoverStatusCmd() *cobra.Command {
	return discoverStatusCmd
}
