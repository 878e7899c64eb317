package services

import (
	"github.com/celestiaorg/pamdiscover/internal/types"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/actions"
)

// MergeResult describes what a status merge did to the ledger
type MergeResult struct {
	// Changed is true when at least one local job was modified
	Changed bool

	// Unknown lists remote jobs the ledger has no entry for. They are reported, never stored,
	// since a job without its token cannot be fetched anyway.
	Unknown []actions.RemoteJobStatus
}

// MergeStatus applies a remote status batch to the ledger. Applying the same batch twice leaves the
// ledger as applying it once did. Local jobs the gateway does not mention are left untouched.
func MergeStatus(store *types.DiscoveryStore, remote []actions.RemoteJobStatus) MergeResult {
	var result MergeResult
	for _, r := range remote {
		job := store.FindJob(r.JobID)
		if job == nil {
			result.Unknown = append(result.Unknown, r)
			continue
		}

		if job.Status != r.Status {
			job.Status = r.Status
			result.Changed = true
		}
		if r.StartTs != nil && !sameTimestamp(job.StartedTs, r.StartTs) {
			ts := *r.StartTs
			job.StartedTs = &ts
			result.Changed = true
		}
		if r.CompleteTs != nil && !sameTimestamp(job.CompletedTs, r.CompleteTs) {
			ts := *r.CompleteTs
			job.CompletedTs = &ts
			result.Changed = true
		}
	}
	return result
}

func sameTimestamp(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// JobReport is one row of a status report. It never carries the job token.
type JobReport struct {
	GatewayName string          `json:"gateway"`
	GatewayUID  string          `json:"gatewayUid"`
	JobID       string          `json:"jobId"`
	Status      types.JobStatus `json:"status"`
	ResourceUID *string         `json:"resourceUid"`
	AddedTs     *float64        `json:"addedTs"`
	StartedTs   *float64        `json:"startedTs"`
	CompletedTs *float64        `json:"completedTs"`
	Duration    string          `json:"duration,omitempty"`

	// Local is false for jobs only the gateway knows about
	Local bool `json:"local"`
}

// reportJobs builds the report rows of one gateway: every ledger job, then the remote-only jobs
func reportJobs(info *types.GatewayInfo, jobs []types.Job, unknown []actions.RemoteJobStatus) []JobReport {
	reports := make([]JobReport, 0, len(jobs)+len(unknown))
	for _, job := range jobs {
		added := job.AddedTs
		report := JobReport{
			GatewayName: info.Gateway.ControllerName,
			GatewayUID:  info.GatewayUID(),
			JobID:       job.JobID,
			Status:      job.Status,
			ResourceUID: job.ResourceUID,
			AddedTs:     &added,
			StartedTs:   job.StartedTs,
			CompletedTs: job.CompletedTs,
			Local:       true,
		}
		if d, ok := job.Duration(); ok {
			report.Duration = types.FormatDuration(d)
		}
		reports = append(reports, report)
	}
	for _, r := range unknown {
		reports = append(reports, JobReport{
			GatewayName: info.Gateway.ControllerName,
			GatewayUID:  info.GatewayUID(),
			JobID:       r.JobID,
			Status:      r.Status,
			StartedTs:   r.StartTs,
			CompletedTs: r.CompleteTs,
		})
	}
	return reports
}
