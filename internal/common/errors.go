// Package common defines shared constants and sentinel errors used across
// the server layers of DS Studio. Callers should use errors.Is to match these
// values; services wrap them with a human readable detail, e.g.
//
//	fmt.Errorf("%w: unsupported kind %q", common.ErrorValidation, kind)
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
