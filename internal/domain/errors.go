package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingText      = errors.New("text is required")
	ErrMissingAction    = errors.New("action is required")
	ErrUnknownAction    = errors.New("unknown action")
	ErrModelUnavailable = errors.New("model unavailable")

	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrUnknownDifficulty   = errors.New("unknown difficulty")
)

// ValidationError rejects a request before the pipeline runs.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err rejects the request's input.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
