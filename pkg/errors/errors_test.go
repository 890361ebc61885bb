package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeValidation(t *testing.T) {
	valid := []string{"database.unreachable", "web.render_failed", "a.b"}
	for _, s := range valid {
		code, err := NewCode(s)
		require.NoError(t, err, "code %q should be valid", s)
		assert.Equal(t, s, code.String())
	}

	invalid := []string{"", "nodot", "Upper.case", "db.", ".name", "db.two.dots"}
	for _, s := range invalid {
		_, err := NewCode(s)
		assert.Error(t, err, "code %q should be rejected", s)
	}
}

func TestCodeParts(t *testing.T) {
	code := MustNewCode("database.query_failed")
	assert.Equal(t, "database", code.Package())
	assert.Equal(t, "query_failed", code.Name())
	assert.True(t, code.IsValid())
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := New(CommonUnavailable, "database unreachable", cause)

	assert.Equal(t, "database unreachable: connection refused", err.Error())
	assert.Equal(t, cause, err.Unwrap())

	bare := New(CommonInternal, "boom", nil)
	assert.Equal(t, "boom", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestAddContext(t *testing.T) {
	err := New(CommonValidation, "bad input", nil).
		AddContext("field", "table").
		AddContext("value", "123abc")

	assert.Equal(t, "table", err.Context["field"])
	assert.Equal(t, "123abc", err.Context["value"])
}

func TestGetCodeAndHasCode(t *testing.T) {
	err := New(CommonTimeout, "deadline exceeded", nil)
	assert.Equal(t, "common.timeout", GetCode(err))
	assert.True(t, HasCode(err, CommonTimeout))
	assert.False(t, HasCode(err, CommonNotFound))

	// Codes survive a layer of fmt wrapping.
	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, "common.timeout", GetCode(wrapped))
	assert.True(t, HasCode(wrapped, CommonTimeout))

	foreign := fmt.Errorf("plain error")
	assert.Equal(t, "common.internal", GetCode(foreign))
	assert.False(t, HasCode(foreign, CommonTimeout))
}

func TestAsError(t *testing.T) {
	assert.Nil(t, AsError(nil))

	internal := New(CommonNotFound, "missing", nil)
	assert.Same(t, internal, AsError(internal))

	foreign := fmt.Errorf("plain error")
	converted := AsError(foreign)
	require.NotNil(t, converted)
	assert.Equal(t, CommonInternal, converted.Code)
	assert.Equal(t, foreign, converted.Cause)
}
