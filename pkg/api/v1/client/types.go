package client

import (
	"github.com/celestiaorg/pamdiscover/internal/types"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/actions"
)

// ActionRequest is the body relayed by the router to a gateway
type ActionRequest struct {
	MessageType actions.MessageType `json:"messageType"`
	IsStreaming bool                `json:"isStreaming"`
	Action      *actions.Envelope   `json:"action"`
}

// GatewaysResult is the data of a gateway listing
type GatewaysResult struct {
	Gateways []types.Gateway `json:"gateways"`
}

// ConnectedGatewaysResult is the data of a connected gateway listing
type ConnectedGatewaysResult struct {
	ControllerUIDs []string `json:"controllerUids"`
}

// RecordRotationRequest registers a record with the router for rotation tracking
type RecordRotationRequest struct {
	RecordUID        string  `json:"recordUid"`
	Revision         int64   `json:"revision"`
	ConfigurationUID string  `json:"configurationUid"`
	ResourceUID      *string `json:"resourceUid,omitempty"`
	Schedule         string  `json:"schedule"`
}
