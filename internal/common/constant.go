// Package common contains shared constants and sentinel errors used across
// DS Studio components.
package common

// AuthCookieName is the cookie that carries the session access token.
const AuthCookieName = "access_token"

// APIVersion is the path segment every HTTP route is mounted under.
const APIVersion = "v1"
