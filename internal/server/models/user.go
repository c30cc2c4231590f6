// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. HashedPassword never leaves the server.
type User struct {
	ID             int64
	Email          string
	Name           *string
	Surname        *string
	ProfilePicture *string
	HashedPassword string
	CreatedAt      time.Time
}
