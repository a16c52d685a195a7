package util

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidPageTypeCarriesTags(t *testing.T) {
	err := InvalidPageType("header", 0x07, 0x01)

	assert.Equal(t, ErrInvalidPageType, err.Code)
	assert.Equal(t, "[invalid-page-type] invalid header page: expected type 0x01, found 0x07", err.Error())

	var pte *PageTypeError
	require.True(t, errors.As(err, &pte))
	assert.Equal(t, uint8(0x07), pte.Found)
	assert.Equal(t, uint8(0x01), pte.Expected)
	assert.Equal(t, "header", pte.Page)
}

func TestHasCodeFollowsWrapping(t *testing.T) {
	inner := Overflow("record slots", 10, 12)
	wrapped := fmt.Errorf("page 3: %w", NewError(ErrCorrupted, "bad page", inner))

	assert.True(t, HasCode(wrapped, ErrCorrupted))
	assert.True(t, HasCode(wrapped, ErrOverflow))
	assert.False(t, HasCode(wrapped, ErrDecode))
	assert.False(t, HasCode(io.EOF, ErrIO))
	assert.Equal(t, ErrCorrupted, CodeOf(wrapped))
	assert.Equal(t, ErrInternal, CodeOf(io.EOF))
	assert.Equal(t, ErrOK, CodeOf(nil))

	var oe *OverflowError
	require.True(t, errors.As(wrapped, &oe))
	assert.Equal(t, 10, oe.Limit)
	assert.Equal(t, 12, oe.Value)
}

func TestTypeErrorMessages(t *testing.T) {
	assert.Equal(t,
		"[unknown-type] unknown type: column PRICE: source MONEY has type code 99",
		UnknownType("PRICE", "MONEY", 99).Error())
	assert.Equal(t,
		"[unknown-type] unknown type: column PRICE: no field definition for source MONEY",
		MissingType("PRICE", "MONEY").Error())
}

func TestDecodeFailureUnwrapsCause(t *testing.T) {
	cause := errors.New("invalid UTF-8")
	err := DecodeFailure("NAME", cause)

	assert.True(t, errors.Is(err, cause))

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "NAME", de.Column)
}

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "overflow", ErrOverflow.String())
	assert.Equal(t, "read-only", ErrReadOnly.String())
	assert.Equal(t, "code-99", ErrorCode(99).String())
}
