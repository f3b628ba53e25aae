package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies load failures so callers can render the right message
// and ops can tell bad data from a dead collaborator.
type ErrorKind string

const (
	// ErrKindShape: a raw row did not have the expected field count/types.
	// Fatal for the current load; nothing is persisted.
	ErrKindShape ErrorKind = "shape"
	// ErrKindIntegrity: stored aggregate state is inconsistent with the
	// insert/update decision (e.g. snapshot exists but season row missing).
	ErrKindIntegrity ErrorKind = "integrity"
	// ErrKindIO: the raw source or aggregate store failed. The engine never
	// retries; retry policy belongs to the collaborator.
	ErrKindIO ErrorKind = "io"
)

// LoadError carries enough context (stage, key) for a user-facing message.
type LoadError struct {
	Kind  ErrorKind
	Stage string
	Key   string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s error at %s (key=%s): %v", e.Kind, e.Stage, e.Key, e.Err)
	}
	return fmt.Sprintf("%s error at %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func NewShapeError(stage string, err error) error {
	return &LoadError{Kind: ErrKindShape, Stage: stage, Err: err}
}

func NewIntegrityError(stage string, key string, err error) error {
	return &LoadError{Kind: ErrKindIntegrity, Stage: stage, Key: key, Err: err}
}

func NewIOError(stage string, err error) error {
	return &LoadError{Kind: ErrKindIO, Stage: stage, Err: err}
}

// ErrorKindOf returns the kind of err, or "" when err is not a LoadError.
func ErrorKindOf(err error) ErrorKind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}
