package interchange

import (
	"fmt"
	"strings"
)

// DecodeKind classifies decode failures.
type DecodeKind string

const (
	// KindRead means the document bytes could not be obtained.
	KindRead DecodeKind = "read"
	// KindMalformed means the document is not well-formed XML.
	KindMalformed DecodeKind = "malformed"
	// KindStructure means the document is XML but not a recipe document.
	KindStructure DecodeKind = "structure"
	// KindMissingField means a required ingredient field is absent.
	KindMissingField DecodeKind = "missing_field"
	// KindInvalidValue means a quantity did not parse as a number.
	KindInvalidValue DecodeKind = "invalid_value"
)

// DecodeError reports why a document could not become a recipe.
type DecodeError struct {
	Kind   DecodeKind
	Source string
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode recipe")
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	switch e.Kind {
	case KindMissingField:
		fmt.Fprintf(&b, ": missing required field %s", e.Field)
	case KindInvalidValue:
		fmt.Fprintf(&b, ": invalid value for %s", e.Field)
	default:
		fmt.Fprintf(&b, ": %s", e.Kind)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrorKind classifies the failure for callers that map errors to statuses.
func (e *DecodeError) ErrorKind() string { return "decode" }

// EncodeError reports a failure building a document from a recipe.
type EncodeError struct {
	Slug string
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Slug == "" {
		return fmt.Sprintf("encode recipe: %v", e.Err)
	}
	return fmt.Sprintf("encode recipe %s: %v", e.Slug, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ErrorKind classifies the failure for callers that map errors to statuses.
func (e *EncodeError) ErrorKind() string { return "encode" }
