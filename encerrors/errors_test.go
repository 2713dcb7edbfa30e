package encerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorParts(t *testing.T) {
	wrapped := fmt.Errorf("%w: disp8 %d out of range at main.go:12", ErrEEncodingOverflow, 200)

	assert.Equal(t, "EncodingOverflow", GetErrorName(wrapped))
	assert.Equal(t, "E2", GetErrorCode(wrapped))
	assert.Equal(t, "E2_EncodingOverflow", GetErrorCodeWithName(wrapped))
	assert.Contains(t, GetErrorDesc(wrapped), "does not fit")
	assert.True(t, errors.Is(wrapped, ErrEEncodingOverflow))
	assert.Equal(t, ErrEEncodingOverflow, Sentinel(wrapped))
}

func TestErrorCodesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, err := range All {
		code := GetErrorCode(err)
		require.NotEmpty(t, code)
		require.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
	assert.Equal(t, []string{"UnsupportedFeature", "EncodingOverflow"}, GetErrorNames(All[:2]))
}

func TestPlainErrors(t *testing.T) {
	assert.Equal(t, "No Error", GetErrorName(nil))
	assert.Equal(t, "", GetErrorCode(nil))
	plain := errors.New("boom")
	assert.Equal(t, "boom", GetErrorName(plain))
	assert.Equal(t, "", GetErrorCodeWithName(plain))
	assert.Equal(t, "DESC NOT SET", GetErrorDesc(plain))
	assert.Nil(t, Sentinel(plain))
}
