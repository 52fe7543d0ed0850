package prediction

import "errors"

// ErrInvalidInput is returned when the upload is not declared as an image.
var ErrInvalidInput = errors.New("File must be an image (JPEG, PNG, etc.)")

// ProcessingError wraps any failure after validation: undecodable bytes,
// inference errors, unusable model output.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return "Error processing image: " + e.Err.Error()
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
