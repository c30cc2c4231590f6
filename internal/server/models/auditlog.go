package models

import "time"

// Audit actions written by the services.
const (
	AuditRegister       = "register"
	AuditLogin          = "login"
	AuditPasswordChange = "password_change"
	AuditPictureReplace = "profile_picture_replace"
	AuditAccountDelete  = "account_delete"
)

// AuditLog records a security-relevant event. UserID is nil once the user is gone.
type AuditLog struct {
	ID        int64
	UserID    *int64
	Action    string
	Detail    *string
	CreatedAt time.Time
}
