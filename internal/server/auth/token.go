// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"strconv"
	"time"
)

// TokenService signs stateless HS256 session tokens. There is no revocation
// list: a token stays valid until it expires.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
}

func NewTokenService(secretKey string, defaultTTL time.Duration) *TokenService {
	return &TokenService{secret: []byte(secretKey), defaultTTL: defaultTTL}
}

// TTL is the lifetime of tokens issued without an explicit ttl.
func (s *TokenService) TTL() time.Duration { return s.defaultTTL }

// Issue signs a token for subjectID. A non-positive ttl uses the default.
func (s *TokenService) Issue(subjectID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	return GenerateToken(strconv.FormatInt(subjectID, 10), s.secret, ttl)
}

// Verify returns the claims of a valid token. The error is always
// common.ErrInvalidToken or common.ErrTokenExpired.
func (s *TokenService) Verify(token string) (*Claims, error) {
	return ParseToken(token, s.secret)
}
