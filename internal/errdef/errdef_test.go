package errdef_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/dhis2-sre/im-calendar/internal/errdef"

	"github.com/stretchr/testify/assert"
)

func TestIsBadRequest(t *testing.T) {
	assert.False(t, errdef.IsBadRequest(errors.New("some error")))
	assert.True(t, errdef.IsBadRequest(errdef.NewBadRequest("some error")))
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, errdef.IsNotFound(errors.New("some error")))
	assert.True(t, errdef.IsNotFound(errdef.NewNotFound("some error")))
	assert.True(t, errdef.IsNotFound(fmt.Errorf("wrapped: %w", errdef.NewNotFound("some error"))))
}

func TestIsInvalid(t *testing.T) {
	assert.False(t, errdef.IsInvalid(errors.New("some error")))
	assert.True(t, errdef.IsInvalid(errdef.NewInvalid("some error")))
}

func TestIsConstraintViolation(t *testing.T) {
	assert.False(t, errdef.IsConstraintViolation(errors.New("some error")))
	assert.True(t, errdef.IsConstraintViolation(errdef.NewConstraintViolation("some error")))
}

func TestIsMalformed(t *testing.T) {
	assert.False(t, errdef.IsMalformed(errors.New("some error")))
	assert.True(t, errdef.IsMalformed(errdef.NewMalformed("some error")))
}

func TestIsUnsupportedMediaType(t *testing.T) {
	assert.False(t, errdef.IsUnsupportedMediaType(errors.New("some error")))
	assert.True(t, errdef.IsUnsupportedMediaType(errdef.NewUnsupportedMediaType("some error")))
}

func TestUnwrap(t *testing.T) {
	err := errdef.NewMalformed("failed to decode: %w", io.EOF)

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "failed to decode: EOF", err.Error())
	assert.False(t, errdef.IsNotFound(err))
}
