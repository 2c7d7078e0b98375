package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSensitiveKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"password", "hunter22",
		"email", "a@b.c",
		"status", 200,
	})
	assert.Equal(t, []interface{}{"password", "[REDACTED]", "email", "[REDACTED]", "status", 200}, out)
}

func TestSanitizeKVsHashesUserIDs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", "abc"})
	if assert.Len(t, out, 2) {
		s, ok := out[1].(string)
		assert.True(t, ok)
		assert.Contains(t, s, "hash:")
		assert.NotContains(t, s, "abc")
	}
}

func TestSanitizeKVsRedactsJWTLookingValues(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJ1aWQiOiIxMjM0NTY3OCJ9.signature"
	out := sanitizeKVs([]interface{}{"header", jwt})
	assert.Equal(t, "[REDACTED]", out[1])
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"path", "/api", "orphan"})
	assert.Equal(t, []interface{}{"path", "/api", "orphan"}, out)
}
