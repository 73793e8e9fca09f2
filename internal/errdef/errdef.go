package errdef

import (
	"errors"
	"fmt"
)

func NewBadRequest(format string, a ...any) error {
	return badRequest{fmt.Errorf(format, a...)}
}

type badRequest struct{ error }

func (e badRequest) Unwrap() error { return e.error }

func IsBadRequest(err error) bool {
	var e badRequest
	return errors.As(err, &e)
}

// NewNotFound creates an error representing a resource that could not be found.
func NewNotFound(format string, a ...any) error {
	return notFound{fmt.Errorf(format, a...)}
}

type notFound struct{ error }

func (e notFound) Unwrap() error { return e.error }

// IsNotFound returns true if err is an error representing a resource that could not be found and false otherwise.
func IsNotFound(err error) bool {
	var e notFound
	return errors.As(err, &e)
}

// NewInvalid creates an error representing a request body that failed field validation. Wrap the
// validation error using %w so the field violations can be reported.
func NewInvalid(format string, a ...any) error {
	return invalid{fmt.Errorf(format, a...)}
}

type invalid struct{ error }

func (e invalid) Unwrap() error { return e.error }

// IsInvalid returns true if err is an error representing a request body that failed field
// validation and false otherwise.
func IsInvalid(err error) bool {
	var e invalid
	return errors.As(err, &e)
}

// NewConstraintViolation creates an error representing query or path parameters that failed
// validation. Wrap the validation error using %w so the violations can be reported.
func NewConstraintViolation(format string, a ...any) error {
	return constraintViolation{fmt.Errorf(format, a...)}
}

type constraintViolation struct{ error }

func (e constraintViolation) Unwrap() error { return e.error }

func IsConstraintViolation(err error) bool {
	var e constraintViolation
	return errors.As(err, &e)
}

// NewMalformed creates an error representing a request body that could not be decoded.
func NewMalformed(format string, a ...any) error {
	return malformed{fmt.Errorf(format, a...)}
}

type malformed struct{ error }

func (e malformed) Unwrap() error { return e.error }

func IsMalformed(err error) bool {
	var e malformed
	return errors.As(err, &e)
}

func NewUnsupportedMediaType(format string, a ...any) error {
	return unsupportedMediaType{fmt.Errorf(format, a...)}
}

type unsupportedMediaType struct{ error }

func (e unsupportedMediaType) Unwrap() error { return e.error }

func IsUnsupportedMediaType(err error) bool {
	var e unsupportedMediaType
	return errors.As(err, &e)
}
