package xacml

import (
	"fmt"

	"github.com/pombreda/argus-pep-api-c/hessian"
)

// EncodeError reports a required field left unset when marshaling a
// Request or Response, naming the offending field path, e.g.
// "Request.subjects[2].attributes[0].id".
type EncodeError struct {
	FieldPath string
	Message   string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("xacml: encode error at %s: %s", e.FieldPath, e.Message)
}

func missingRequired(fieldPath string) *EncodeError {
	return &EncodeError{FieldPath: fieldPath, Message: "required field is unset"}
}

// DecodeError reports a domain-mapping decode failure: a shape mismatch, a
// missing required field, an out-of-range enum, or depth exceeded,
// always anchored to the field path that triggered it.
type DecodeError struct {
	FieldPath string
	Reason    hessian.DecodeReason
	Message   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("xacml: decode error at %s: %s: %s", e.FieldPath, e.Reason, e.Message)
}

func decodeErr(fieldPath string, reason hessian.DecodeReason, message string) *DecodeError {
	return &DecodeError{FieldPath: fieldPath, Reason: reason, Message: message}
}
