package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/celestiaorg/pamdiscover/internal/services"
	"github.com/celestiaorg/pamdiscover/internal/types"
)

// notAvailable is shown for values a job does not have yet
const notAvailable = "NA"

// printFailure writes a diagnostic to stderr. Commands return nil after it: a failed
// operation does not change the exit code.
func printFailure(cmd *cobra.Command, format string, args ...interface{}) {
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), color.RedString(format, args...))
}

// printJSON pretty prints v
func printJSON(w io.Writer, v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(prettyJSON))
	return err
}

// statusColor picks the colour of a job status
func statusColor(status types.JobStatus) *color.Color {
	switch status {
	case types.JobStatusComplete:
		return color.New(color.FgGreen)
	case types.JobStatusInProgress:
		return color.New(color.FgBlue)
	case types.JobStatusNotFound, types.JobStatusError:
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

// renderJobTable writes one row per job
func renderJobTable(w io.Writer, reports []services.JobReport, now time.Time) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Gateway Name", "Gateway UID", "Job ID", "Status", "Resource UID", "Added", "Started", "Completed", "Duration"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetCenterSeparator(" ")
	table.SetHeaderLine(true)
	table.SetRowSeparator("=")

	for _, r := range reports {
		resource := notAvailable
		if r.ResourceUID != nil {
			resource = *r.ResourceUID
		}
		duration := r.Duration
		if duration == "" {
			duration = notAvailable
		}
		table.Append([]string{
			r.GatewayName,
			r.GatewayUID,
			r.JobID,
			statusColor(r.Status).Sprint(r.Status.String()),
			resource,
			formatAdded(r.AddedTs, now),
			types.FormatTimestamp(r.StartedTs),
			types.FormatTimestamp(r.CompletedTs),
			duration,
		})
	}
	table.Render()
}

// formatAdded shows when a job was added, absolute and relative to now
func formatAdded(ts *float64, now time.Time) string {
	if ts == nil {
		return notAvailable
	}
	added := time.Unix(0, int64(*ts*float64(time.Second)))
	return fmt.Sprintf("%s (%s)", types.FormatTimestamp(ts), humanize.RelTime(added, now, "ago", "from now"))
}
