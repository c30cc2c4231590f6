package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueVerify(t *testing.T) {
	s := NewTokenService("secret", time.Hour)

	tok, err := s.Issue(42, 0)
	require.NoError(t, err)

	claims, err := s.Verify(tok)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	// default ttl applied
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	assert.Equal(t, time.Hour, s.TTL())
}

func TestTokenService_ExplicitTTL(t *testing.T) {
	s := NewTokenService("secret", time.Hour)

	tok, err := s.Issue(7, -time.Minute)
	require.NoError(t, err, "negative ttl falls back to default")
	_, err = s.Verify(tok)
	require.NoError(t, err)

	tok, err = s.Issue(7, 10*time.Minute)
	require.NoError(t, err)
	claims, err := s.Verify(tok)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_VerifyForeignSecret(t *testing.T) {
	a := NewTokenService("a", time.Hour)
	b := NewTokenService("b", time.Hour)

	tok, err := a.Issue(1, 0)
	require.NoError(t, err)

	_, err = b.Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
