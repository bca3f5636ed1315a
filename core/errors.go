package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		return fmt.Sprintf("%s: %s", err.Fields[0].Field, err.Fields[0].Error)
	}
	return ""
}

// FieldErrors maps each invalid field to its message.
func (err ValidationError) FieldErrors() map[string]string {
	if err.Fields == nil {
		return nil
	}
	flds := make(map[string]string, len(err.Fields))
	for _, fErr := range err.Fields {
		flds[fErr.Field] = fErr.Error
	}
	return flds
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

// corrupted reports a stored blob that could not be decoded.
type corrupted struct {
	key string
	err error
}

func NewCorruptedError(key string, err error) error {
	return &corrupted{key: key, err: err}
}

func (c corrupted) Error() string {
	return fmt.Sprintf("corrupted %q blob: %v", c.key, c.err)
}

func IsCorrupted(err error) bool {
	_, ok := errors.Cause(err).(*corrupted)
	return ok
}
