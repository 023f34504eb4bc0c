package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	s, err := NewSigner("s3cret", time.Hour, true)
	require.NoError(t, err)

	token, err := s.Sign(Claims{Sub: "u1", Email: "a@b.c", Username: "ann"})
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Sub)
	assert.Equal(t, "ann", claims.Username)
	assert.Equal(t, claims.Iat+3600, claims.Exp)
}

func TestVerifyRejects(t *testing.T) {
	s, err := NewSigner("s3cret", time.Hour, false)
	require.NoError(t, err)
	other, err := NewSigner("different", time.Hour, false)
	require.NoError(t, err)

	token, err := s.Sign(Claims{Sub: "u1"})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = s.Verify("a.b")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestSignerSecretRules(t *testing.T) {
	_, err := NewSigner("", 0, true)
	assert.True(t, errors.Is(err, ErrMissingSecret))

	s, err := NewSigner(" ", 0, false)
	require.NoError(t, err)
	assert.Equal(t, []byte(DevSecret), s.secret)
	assert.Equal(t, DefaultTTL, s.ttl)

	_, err = s.Sign(Claims{})
	assert.Error(t, err)
}
