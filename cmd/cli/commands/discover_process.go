package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/celestiaorg/pamdiscover/internal/services"
)

func init() {
	discoverProcessCmd.Flags().StringP("job-id", "j", "", "Discovery job ID")
	discoverProcessCmd.Flags().String("shared-folder", "", "Shared folder or subfolder UID to place records in")
	discoverProcessCmd.Flags().Bool("non-interactive", false, "Add every object that is not ignored and has no record yet")
	_ = discoverProcessCmd.MarkFlagRequired("job-id")
}

var discoverProcessCmd = &cobra.Command{
	Use:   "discover-process",
	Short: "Turn the result of a discovery job into records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, ok := requireSession()
		if !ok {
			return nil
		}

		jobID, _ := cmd.Flags().GetString("job-id")
		sharedFolder, _ := cmd.Flags().GetString("shared-folder")
		nonInteractive, _ := cmd.Flags().GetBool("non-interactive")

		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && !nonInteractive && !term.IsTerminal(int(f.Fd())) {
			printFailure(cmd, "Interactive processing needs a terminal. Use --non-interactive to add every object.")
			return nil
		}

		summary, err := s.Discovery.Process(commandContext(cmd), services.ProcessOptions{
			JobID:           jobID,
			SharedFolderUID: sharedFolder,
			Walker: services.WalkerOptions{
				In:             in,
				Out:            cmd.OutOrStdout(),
				NonInteractive: nonInteractive,
			},
		})
		if err != nil {
			printFailure(cmd, "Could not process discovery job %s: %v", jobID, err)
			return nil
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Added %s, %d skipped, %d ignored, %d already in the vault, %d failed\n",
			english.Plural(summary.Added, "record", ""),
			summary.Skipped, summary.Ignored, summary.Existing, summary.Failed)
		if summary.RotationFailed > 0 {
			printFailure(cmd, "%s could not be registered for rotation",
				english.Plural(summary.RotationFailed, "added record", ""))
		}
		if summary.Quit {
			_, _ = fmt.Fprintln(out, "Stopped before the end of the result.")
		}
		return nil
	},
}

// GetDiscoverProcessCmd returns the discover-process command
func GetDiscoverProcessCmd() *cobra.Command {
	return discoverProcessCmd
}
