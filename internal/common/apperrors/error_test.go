package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("TestError", func(t *testing.T) {
		ErrBaseErr := New("base error")
		assert.Equal(t, "base error", ErrBaseErr.Error())
		assert.Equal(t, "msg", ErrBaseErr.New("msg").Error())
		assert.ErrorIs(t, ErrBaseErr, ErrBaseErr)

		ErrFirstLevel := ErrBaseErr.New("first level")
		assert.Equal(t, "first level", ErrFirstLevel.Error())
		assert.ErrorIs(t, ErrFirstLevel, ErrBaseErr)

		ErrAnotherErr := New("another error")
		ErrWrappedErr := ErrFirstLevel.Err(ErrAnotherErr)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, ErrAnotherErr)

		err := errors.New("error")
		ErrWrappedErr = ErrFirstLevel.Err(err)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, err)

		ErrWrappedErr = ErrFirstLevel.MsgErr("msg", err)
		assert.Equal(t, "msg", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, err)
	})

	t.Run("TestStatusCode", func(t *testing.T) {
		ErrBaseErr := New("base error").SetStatusCode(http.StatusInternalServerError)
		assert.Equal(t, http.StatusInternalServerError, ErrBaseErr.StatusCode())

		// derived errors inherit the status code unless overridden
		ErrDerived := ErrBaseErr.New("derived")
		assert.Equal(t, http.StatusInternalServerError, ErrDerived.StatusCode())

		ErrOverridden := ErrBaseErr.New("overridden").SetStatusCode(http.StatusNotFound)
		assert.Equal(t, http.StatusNotFound, ErrOverridden.StatusCode())
	})

	t.Run("TestErrorAll", func(t *testing.T) {
		ErrBaseErr := New("base error")
		wrapped := ErrBaseErr.New("outer").Err(errors.New("inner one"), errors.New("inner two"))

		// wrapped detail stays hidden unless expansion is asked for
		assert.Equal(t, "outer", wrapped.ErrorAll())
		assert.Equal(t, "outer: inner one;inner two", wrapped.SetExpandError(true).ErrorAll())
	})

	t.Run("TestBaseValuesNotMutated", func(t *testing.T) {
		ErrBaseErr := New("base error").SetStatusCode(http.StatusInternalServerError)
		inner := errors.New("inner")

		wrapped := ErrBaseErr.MsgErr("outer", inner)
		assert.ErrorIs(t, wrapped, ErrBaseErr)
		assert.ErrorIs(t, wrapped, inner)

		// the shared base value keeps its message and wraps nothing
		assert.Equal(t, "base error", ErrBaseErr.Error())
		assert.Empty(t, ErrBaseErr.Unwrap())
		assert.NotErrorIs(t, ErrBaseErr, inner)
	})
}
