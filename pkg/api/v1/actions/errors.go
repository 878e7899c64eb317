package actions

import "errors"

// ErrInvalidInputs is returned when an envelope is built from inputs that do not match the action schema
var ErrInvalidInputs = errors.New("invalid action inputs")

// Common error messages
const (
	ErrMsgConfigurationUIDRequired = "configuration uid is required"
	ErrMsgJobIDRequired            = "job id is required"
	ErrMsgJobIDsRequired           = "at least one job id is required"
	ErrMsgDestinationRequired      = "destination gateway is required"
)
