package osr

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedInput is returned when the input ends before a field is complete.
	ErrTruncatedInput = errors.New("osr: truncated input")
	// ErrMalformedString is returned for a string with a bad marker or length prefix.
	ErrMalformedString = errors.New("osr: malformed string")
	// ErrInvalidEncoding is returned for string bytes that are not valid UTF-8.
	ErrInvalidEncoding = errors.New("osr: invalid utf-8")
	// ErrFieldTooLarge is returned by the encoder when a value does not fit its wire width.
	ErrFieldTooLarge = errors.New("osr: field too large")
	// ErrUnknownModName is returned by ParseMods for an unrecognized short name.
	ErrUnknownModName = errors.New("osr: unknown mod name")
	// ErrMalformedTimestamp is returned for dates that cannot be parsed or do not fit in ticks.
	ErrMalformedTimestamp = errors.New("osr: malformed timestamp")
	// ErrMalformedLifeBar is returned by ParseLifeBar.
	ErrMalformedLifeBar = errors.New("osr: malformed life bar")
)

// FieldError records which replay field failed to decode or encode.
type FieldError struct {
	Op    string // "decode" or "encode"
	Field string
	// Offset is the input position where the field starts. Decode only.
	Offset int64
	Err    error
}

func (e *FieldError) Error() string {
	if e.Op == "decode" {
		return fmt.Sprintf("osr: decode %s at byte %d: %v", e.Field, e.Offset, e.Err)
	}
	return fmt.Sprintf("osr: %s %s: %v", e.Op, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
