// Package models holds the persisted entity records shared by
// repositories and services on the server side.
package models

import "time"

// Role is a platform-wide user role. It drives every authorization
// decision together with per-project ownership.
type Role string

const (
	RoleReader    Role = "READER"
	RoleWriter    Role = "WRITER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
