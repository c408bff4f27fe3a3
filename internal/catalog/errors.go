package catalog

import (
	"errors"
	"fmt"
)

// Failure kinds.
const (
	KindNotFound    = "not_found"
	KindUnavailable = "unavailable"
	KindValidation  = "validation"
	KindConflict    = "conflict"
	KindStorage     = "storage"
)

// Failure is the error returned by Service operations. Message is safe to
// show to end users; Err carries the underlying cause.
type Failure struct {
	Op      string
	Slug    string
	Kind    string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return fmt.Sprintf("%s: %v", f.Message, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// ErrorKind classifies the failure for callers that map errors to statuses.
func (f *Failure) ErrorKind() string { return f.Kind }

// ErrorClassifier is implemented by errors that declare a kind.
type ErrorClassifier interface {
	ErrorKind() string
}

// KindOf returns the classification of err, or KindStorage when err carries
// none.
func KindOf(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return KindStorage
}

// UserMessage returns the user-visible message of a Failure, or fallback for
// any other error.
func UserMessage(err error, fallback string) string {
	var failure *Failure
	if errors.As(err, &failure) && failure.Message != "" {
		return failure.Message
	}
	return fallback
}

func fail(op, slug, kind, message string, err error) *Failure {
	return &Failure{Op: op, Slug: slug, Kind: kind, Message: message, Err: err}
}
