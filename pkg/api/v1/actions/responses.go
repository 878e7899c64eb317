package actions

import (
	"encoding/json"

	"github.com/celestiaorg/pamdiscover/internal/types"
)

// StatusOK is the status of a successful response
const StatusOK = "OK"

// Response is the router's reply to an envelope
type Response struct {
	// Status is "OK" on success, anything else is a failure
	Status string `json:"status"`

	// Data contains the action result
	Data json.RawMessage `json:"data,omitempty"`

	// Message carries a failure description, when the router provides one
	Message string `json:"message,omitempty"`

	// ConversationID echoes the request's conversation id
	ConversationID string `json:"conversationId,omitempty"`
}

// RemoteJobStatus is one job as the gateway reports it
type RemoteJobStatus struct {
	JobID      string          `json:"jobId"`
	Status     types.JobStatus `json:"status"`
	StartTs    *float64        `json:"startTs,omitempty"`
	CompleteTs *float64        `json:"completeTs,omitempty"`
}

// DiscoverStatusResult is the data of a discover-status response
type DiscoverStatusResult struct {
	JobStatus []RemoteJobStatus `json:"jobStatus"`
}

// DiscoverGetResult is the data of a discover-get response
type DiscoverGetResult struct {
	// Result is the Fernet sealed discovery tree
	Result string `json:"result"`
}

// DiscoverStartResult is the data of a discover-start response
type DiscoverStartResult struct {
	JobID  string `json:"jobId,omitempty"`
	Status string `json:"status,omitempty"`
}
