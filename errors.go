package s11n

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural reports a node that does not have the shape an operation
	// requires, e.g. a serialization target that is not empty.
	ErrStructural = errors.New("structural error")
	// ErrTypeRejected reports a value whose type has no proxy or codec.
	ErrTypeRejected = errors.New("type rejected")
	// ErrMalformedNode reports a missing or unparsable child or attribute.
	ErrMalformedNode = errors.New("malformed node")
	// ErrPartialChildFailure reports a child element that failed while a
	// container was being deserialized.
	ErrPartialChildFailure = errors.New("partial child failure")

	ErrAlreadyRegistered = errors.New("already registered")
	// ErrNotFound reports a lookup by key that found nothing, e.g. a store
	// miss.
	ErrNotFound = errors.New("not found")
)

// Error carries the failure kind together with the operation and node that
// produced it. errors.Is matches both the kind and anything in the cause
// chain.
type Error struct {
	Kind error
	Op   string
	Node string
	Err  error
}

func newError(kind error, op, node string, cause error) *Error {
	return &Error{
		Kind: kind,
		Op:   op,
		Node: node,
		Err:  cause,
	}
}

func errorf(kind error, op, node, format string, args ...any) *Error {
	return newError(kind, op, node, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Node != "" {
		msg += " (node=" + e.Node + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}
