package actions

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata and is safe for concurrent use
var validate = validator.New(validator.WithRequiredStructEnabled())

// Inputs is the typed payload of one action kind. The set of implementations is closed.
type Inputs interface {
	// Action returns the action this payload belongs to
	Action() Action
	// Validate checks the payload against its schema
	Validate() error

	isInputs()
}

// DiscoverStartInputs defines the inputs of a discover-start action
type DiscoverStartInputs struct {
	ConfigurationUID string `json:"configurationUid" validate:"required"`
	JobID            string `json:"jobId" validate:"required"`
}

// Action implements Inputs
func (DiscoverStartInputs) Action() Action { return DiscoverStart }

// Validate validates the inputs of a discover-start action
func (p DiscoverStartInputs) Validate() error {
	if err := validate.Struct(p); err != nil {
		return validationError(err)
	}
	return nil
}

func (DiscoverStartInputs) isInputs() {}

// DiscoverStatusInputs defines the inputs of a discover-status action
type DiscoverStatusInputs struct {
	ConfigurationUID string   `json:"configurationUid" validate:"required"`
	JobIDs           []string `json:"jobIds" validate:"required,dive,required"`
}

// Action implements Inputs
func (DiscoverStatusInputs) Action() Action { return DiscoverStatus }

// Validate validates the inputs of a discover-status action.
// An empty list is allowed: the gateway then reports every job it knows for the configuration.
func (p DiscoverStatusInputs) Validate() error {
	if p.JobIDs == nil {
		return fmt.Errorf("%w: %s", ErrInvalidInputs, ErrMsgJobIDsRequired)
	}
	if err := validate.Struct(p); err != nil {
		return validationError(err)
	}
	return nil
}

func (DiscoverStatusInputs) isInputs() {}

// DiscoverGetInputs defines the inputs of a discover-get action
type DiscoverGetInputs struct {
	ConfigurationUID string `json:"configurationUid" validate:"required"`
	JobID            string `json:"jobId" validate:"required"`
}

// Action implements Inputs
func (DiscoverGetInputs) Action() Action { return DiscoverGet }

// Validate validates the inputs of a discover-get action
func (p DiscoverGetInputs) Validate() error {
	if err := validate.Struct(p); err != nil {
		return validationError(err)
	}
	return nil
}

func (DiscoverGetInputs) isInputs() {}

// validationError converts validator output into messages in the style of the rest of the package
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidInputs, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.StructField() {
		case "ConfigurationUID":
			msgs = append(msgs, ErrMsgConfigurationUIDRequired)
		case "JobID":
			msgs = append(msgs, ErrMsgJobIDRequired)
		case "JobIDs":
			msgs = append(msgs, ErrMsgJobIDsRequired)
		default:
			msgs = append(msgs, strings.ToLower(fe.Error()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInputs, strings.Join(msgs, ", "))
}
