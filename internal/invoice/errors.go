package invoice

import "errors"

// ErrInvalidInput is returned when the input is empty or not valid UTF-8 text.
var ErrInvalidInput = errors.New("invalid invoice text")

// ErrNoItemsFound marks an extraction that produced no items. Extract never
// returns it; callers that refuse empty results use it as their error.
var ErrNoItemsFound = errors.New("no items found in invoice")

// ParseError wraps an unexpected failure while extracting. Its message is the
// underlying message, unchanged.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }
