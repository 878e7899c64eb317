package types

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// JobIDPrefix is prepended to every discovery job id
const JobIDPrefix = "DIS"

// jobIDEntropy is the number of random bytes in a job id. Ids only need to be unique per gateway.
const jobIDEntropy = 8

// JobStatus represents the state of a discovery job as reported by the gateway
type JobStatus int

// Job status constants
const (
	// JobStatusUnknown represents a status string the gateway sent that we do not recognise
	JobStatusUnknown JobStatus = iota
	// JobStatusQueued indicates the job was accepted but has not started
	JobStatusQueued
	// JobStatusInProgress indicates the gateway is running the job
	JobStatusInProgress
	// JobStatusComplete indicates the job has finished and a result can be fetched
	JobStatusComplete
	// JobStatusNotFound indicates the gateway has no record of the job, usually after a restart
	JobStatusNotFound
	// JobStatusError indicates the job failed on the gateway
	JobStatusError
)

var jobStatusNames = []string{
	"UNKNOWN",
	"QUEUED",
	"IN_PROGRESS",
	"COMPLETE",
	"NOT_FOUND",
	"ERROR",
}

// ParseJobStatus converts a status string to a JobStatus.
// Both the underscore and the space separated spellings are accepted ("IN PROGRESS", "NOT FOUND").
func ParseJobStatus(str string) (JobStatus, error) {
	normalized := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(str)), " ", "_")
	for i, status := range jobStatusNames {
		if status == normalized {
			return JobStatus(i), nil
		}
	}
	return JobStatusUnknown, fmt.Errorf("invalid job status: %s", str)
}

func (s JobStatus) String() string {
	if s < 0 || int(s) >= len(jobStatusNames) {
		return jobStatusNames[JobStatusUnknown]
	}
	return jobStatusNames[s]
}

// MarshalJSON implements the json.Marshaler interface for JobStatus
func (s JobStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for JobStatus.
// Unrecognised strings decode to JobStatusUnknown instead of failing the whole document.
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseJobStatus(str)
	if err != nil {
		*s = JobStatusUnknown
		return nil
	}

	*s = status
	return nil
}

// Job is one discovery job in the ledger of a configuration record
type Job struct {
	JobID       string    `json:"jobId"`
	Token       string    `json:"token"`
	ResourceUID *string   `json:"resourceUid"`
	AddedTs     float64   `json:"addedTs"`
	StartedTs   *float64  `json:"startedTs"`
	CompletedTs *float64  `json:"completedTs"`
	Status      JobStatus `json:"status"`
}

// NewJobID returns a fresh job id, "DIS" followed by unpadded url-safe base64 of random bytes
func NewJobID() (string, error) {
	b := make([]byte, jobIDEntropy)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate job id: %w", err)
	}
	return JobIDPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// NewJob creates a queued job. The token must be freshly generated for this job only.
func NewJob(jobID, token string, resourceUID *string, now time.Time) Job {
	return Job{
		JobID:       jobID,
		Token:       token,
		ResourceUID: resourceUID,
		AddedTs:     unixSeconds(now),
		Status:      JobStatusQueued,
	}
}

// Resource returns the resource uid the job is scoped to, or "" when it covers the whole configuration
func (j Job) Resource() string {
	if j.ResourceUID == nil {
		return ""
	}
	return *j.ResourceUID
}

// Added returns the time the job was added to the ledger
func (j Job) Added() time.Time {
	return fromUnixSeconds(j.AddedTs)
}

// Duration returns how long the gateway spent on the job.
// ok is false until both the start and completion timestamps are known.
func (j Job) Duration() (d time.Duration, ok bool) {
	if j.StartedTs == nil || j.CompletedTs == nil {
		return 0, false
	}
	secs := int64(*j.CompletedTs) - int64(*j.StartedTs)
	return time.Duration(secs) * time.Second, true
}

// LogFields returns the job attributes that are safe to log. The token is never included.
func (j Job) LogFields() map[string]interface{} {
	fields := map[string]interface{}{
		"job_id": j.JobID,
		"status": j.Status.String(),
	}
	if j.ResourceUID != nil {
		fields["resource_uid"] = *j.ResourceUID
	}
	return fields
}

// FormatDuration renders a duration as H:MM:SS, the format operators already know from the gateway logs
func FormatDuration(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	out := fmt.Sprintf("%d:%02d:%02d", h, m, s)
	if neg {
		return "-" + out
	}
	return out
}

// FormatTimestamp renders unix seconds in local time, or "NA" when unset
func FormatTimestamp(ts *float64) string {
	if ts == nil {
		return "NA"
	}
	return fromUnixSeconds(*ts).Local().Format("2006-01-02 15:04:05")
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromUnixSeconds(ts float64) time.Time {
	return time.Unix(0, int64(ts*float64(time.Second)))
}
