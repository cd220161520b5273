package roast

import (
	"errors"
	"fmt"
)

// Sentinel errors for the component boundaries.
var (
	// ErrAuthentication means the remote API rejected the credential. This is
	// fatal to the whole session and must be surfaced to the user immediately.
	ErrAuthentication = errors.New("LLM API authentication failed")

	// ErrEmptyResponse means the model replied with no usable text.
	ErrEmptyResponse = errors.New("model returned an empty response")

	// ErrInvalidInput means the roast text was empty after trimming. It is
	// raised before any remote call.
	ErrInvalidInput = errors.New("roast text must not be empty")
)

// GenerationError wraps a failed generation call, keeping the HTTP status of
// the remote API when one was received.
type GenerationError struct {
	StatusCode int
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("roast generation failed [%d]: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("roast generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
