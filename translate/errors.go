package translate

import (
	"errors"
	"fmt"
)

// ErrNoUnits is returned by TranslateAll when called with an empty unit list.
var ErrNoUnits = errors.New("no units to translate")

// ErrNoTranslatableUnits is returned by TranslateFile when a document
// contains neither pending units nor existing translations.
var ErrNoTranslatableUnits = errors.New("no translatable strings found")

// ShapeMismatchError reports a backend response whose item count does not
// match the request. The engine reacts by halving the batch size; it never
// retries a shape mismatch at the same size (above size 1).
type ShapeMismatchError struct {
	// Want is the number of items requested.
	Want int
	// Got is the number of items the response split into.
	Got int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Want, e.Got)
}

// BackendError wraps any backend failure that is not a shape mismatch:
// transport errors, non-200 statuses, empty or unparseable responses.
// The engine retries these at the current batch size.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string { return "backend call failed: " + e.Err.Error() }

func (e *BackendError) Unwrap() error { return e.Err }
