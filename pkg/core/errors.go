package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrParse marks a document that is not well-formed under its format.
	ErrParse = errors.New("malformed document")
	// ErrRootNotFound is returned when the collection root cannot be enumerated.
	ErrRootNotFound = errors.New("collection root not found")
	// ErrSchemaNotFound is returned when the configured schema file is missing.
	ErrSchemaNotFound = errors.New("schema not found")
	// ErrUnsupportedFormat is returned when no decoder is registered for a file extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// ParseError reports a document that failed to decode.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
