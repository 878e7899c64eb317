package actions

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MessageType tells the router how to relay a message to the gateway
type MessageType string

// Router message types
const (
	// MessageTypeGeneral is a plain request/response conversation
	MessageTypeGeneral MessageType = "CMT_GENERAL"
)

// Envelope is one correlated request to a gateway
type Envelope struct {
	// Action is the operation the gateway performs
	Action Action `json:"action"`

	// IsScheduled is fixed by the action kind
	IsScheduled bool `json:"is_scheduled"`

	// Destination is the uid of the gateway that receives the action
	Destination string `json:"gateway_destination,omitempty"`

	// Inputs contains the typed payload of the action
	Inputs Inputs `json:"inputs"`

	// ConversationID correlates this request with its response. It is never reused.
	ConversationID string `json:"conversationId"`
}

// New builds an envelope for a gateway. The action and scheduling are taken from the inputs'
// kind, and inputs that do not match their schema are rejected here rather than at the gateway.
func New(inputs Inputs, destination string) (*Envelope, error) {
	if inputs == nil {
		return nil, fmt.Errorf("%w: inputs are required", ErrInvalidInputs)
	}
	if destination == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInputs, ErrMsgDestinationRequired)
	}
	if err := inputs.Validate(); err != nil {
		return nil, err
	}

	conversationID, err := NewConversationID()
	if err != nil {
		return nil, err
	}

	action := inputs.Action()
	return &Envelope{
		Action:         action,
		IsScheduled:    action.IsScheduled(),
		Destination:    destination,
		Inputs:         inputs,
		ConversationID: conversationID,
	}, nil
}

// NewConversationID returns 16 fresh random bytes, standard base64 encoded
func NewConversationID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate conversation id: %w", err)
	}
	return base64.StdEncoding.EncodeToString(id[:]), nil
}

// UnmarshalJSON decodes an envelope, selecting the inputs type from the action
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw struct {
		Action         Action          `json:"action"`
		IsScheduled    bool            `json:"is_scheduled"`
		Destination    string          `json:"gateway_destination"`
		Inputs         json.RawMessage `json:"inputs"`
		ConversationID string          `json:"conversationId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var inputs Inputs
	switch raw.Action {
	case DiscoverStart:
		var in DiscoverStartInputs
		if err := json.Unmarshal(raw.Inputs, &in); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInputs, err)
		}
		inputs = in
	case DiscoverStatus:
		var in DiscoverStatusInputs
		if err := json.Unmarshal(raw.Inputs, &in); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInputs, err)
		}
		inputs = in
	case DiscoverGet:
		var in DiscoverGetInputs
		if err := json.Unmarshal(raw.Inputs, &in); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInputs, err)
		}
		inputs = in
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInputs, raw.Action)
	}

	*e = Envelope{
		Action:         raw.Action,
		IsScheduled:    raw.IsScheduled,
		Destination:    raw.Destination,
		Inputs:         inputs,
		ConversationID: raw.ConversationID,
	}
	return nil
}
