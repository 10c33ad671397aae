package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_JWTExpiresMin(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://test")
	t.Setenv("JWT_SECRET", "secret")

	t.Setenv("JWT_EXPIRES_MIN", "120")
	assert.Equal(t, 120, Load().JWTExpiresMin)

	// malformed or non-positive values fall back to the default
	t.Setenv("JWT_EXPIRES_MIN", "banana")
	assert.Equal(t, 10080, Load().JWTExpiresMin)

	t.Setenv("JWT_EXPIRES_MIN", "-5")
	assert.Equal(t, 10080, Load().JWTExpiresMin)

	t.Setenv("JWT_EXPIRES_MIN", "")
	assert.Equal(t, 10080, Load().JWTExpiresMin)
}
