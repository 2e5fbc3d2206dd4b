// Package errors provides the tagged error kinds surfaced by the redline
// comparison engine.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind categorizes a RedlineError per the engine's error-handling design.
type Kind string

const (
	KindInvalidPackage      Kind = "INVALID_PACKAGE"
	KindMissingPart         Kind = "MISSING_PART"
	KindXMLParse            Kind = "XML_PARSE"
	KindXMLWrite            Kind = "XML_WRITE"
	KindInvalidRelationship Kind = "INVALID_RELATIONSHIP"
	KindUnsupportedFeature  Kind = "UNSUPPORTED_FEATURE"
	KindComparisonFailed    Kind = "COMPARISON_FAILED"
	KindIO                  Kind = "IO"
)

// RedlineError is the structured error type returned by every package in
// the engine. Op names the failing operation (e.g. "ooxml.Open"); Context
// carries kind-specific fields such as a part path or document type.
type RedlineError struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
	Context map[string]string
}

func (e *RedlineError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("operation=%s", e.Op))
	}
	if e.Kind != "" {
		parts = append(parts, fmt.Sprintf("kind=%s", e.Kind))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	for _, k := range []string{"part_path", "document_type", "location"} {
		if v, ok := e.Context[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		}
	}
	if e.Err != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Err))
	}
	return strings.Join(parts, " | ")
}

func (e *RedlineError) Unwrap() error { return e.Err }

func (e *RedlineError) Is(target error) bool {
	t, ok := target.(*RedlineError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func new_(kind Kind, op, message string, context map[string]string) error {
	return &RedlineError{Kind: kind, Op: op, Message: message, Context: context}
}

// InvalidPackage reports a malformed ZIP archive or missing package roots.
func InvalidPackage(op, message string) error {
	return new_(KindInvalidPackage, op, message, nil)
}

// MissingPart reports an expected OOXML part that is absent, tagged with
// the part path and document-type context the pipeline needed it for.
func MissingPart(op, partPath, documentType string) error {
	return new_(KindMissingPart, op, fmt.Sprintf("required part %q is missing", partPath),
		map[string]string{"part_path": partPath, "document_type": documentType})
}

// XMLParse reports a parse failure at the given source location.
func XMLParse(op, location, message string) error {
	return new_(KindXMLParse, op, message, map[string]string{"location": location})
}

// XMLWrite reports a serialization failure.
func XMLWrite(op, message string) error {
	return new_(KindXMLWrite, op, message, nil)
}

// InvalidRelationship reports a dangling or malformed relationship.
func InvalidRelationship(op, message string) error {
	return new_(KindInvalidRelationship, op, message, nil)
}

// UnsupportedFeature reports a recognized construct the engine elects not
// to diff.
func UnsupportedFeature(op, feature string) error {
	return new_(KindUnsupportedFeature, op, fmt.Sprintf("%s is not supported", feature), nil)
}

// ComparisonFailed reports the engine aborting mid-alignment.
func ComparisonFailed(op, reason string) error {
	return new_(KindComparisonFailed, op, reason, nil)
}

// IO wraps an underlying byte-source failure.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RedlineError{Kind: KindIO, Op: op, Err: err}
}

// Wrap attaches operation context to an arbitrary error without changing
// its kind classification (used when forwarding an error from a callee
// that already returned a *RedlineError).
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RedlineError); ok {
		if re.Op == "" {
			re.Op = op
			return re
		}
		return &RedlineError{Kind: re.Kind, Op: op, Err: err}
	}
	return &RedlineError{Kind: KindComparisonFailed, Op: op, Err: err}
}

// KindOf extracts the Kind of err if it is (or wraps) a *RedlineError.
func KindOf(err error) (Kind, bool) {
	var re *RedlineError
	if !stderrors.As(err, &re) {
		return "", false
	}
	return re.Kind, true
}
