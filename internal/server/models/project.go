package models

import "time"

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Project is a shared fictional universe that submissions are written
// into. Slug is unique and URL-safe, derived from the title at creation.
type Project struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Tags        []string
	Visibility  Visibility
	CreatedAt   time.Time
}

// OwnerRole distinguishes the creating owner from invited collaborators.
// Both grant review and canonization authority.
type OwnerRole string

const (
	OwnerRoleOwner        OwnerRole = "OWNER"
	OwnerRoleCollaborator OwnerRole = "COLLABORATOR"
)

type ProjectOwner struct {
	ProjectID string
	UserID    string
	Role      OwnerRole
}
