package manifest

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDocument     = errors.New("manifest contains no document")
	ErrMultipleDocuments = errors.New("manifest contains more than one document")
	ErrInvalidUTF8       = errors.New("manifest is not valid UTF-8")
)

// ParseError reports manifest text that is not a single valid YAML document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse manifest: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
