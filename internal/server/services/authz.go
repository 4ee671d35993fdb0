// Package services contains server-side business logic: account
// management, project CRUD, the submission lifecycle engine, the
// canonization guard, and attachment upload presigning.
package services

import "github.com/avelkins/canonkeeper/internal/server/models"

// Authorization policy. Pure predicates over the actor, their platform
// role, and their relationship to a project — evaluated fresh on every
// operation, no caching. Every lifecycle operation goes through these;
// the rule set lives here and nowhere else.

// isOwner reports whether user has any owner relation (OWNER or
// COLLABORATOR) to the project whose owner rows are given.
func isOwner(user *models.User, owners []models.ProjectOwner) bool {
	if user == nil {
		return false
	}
	for _, o := range owners {
		if o.UserID == user.ID {
			return true
		}
	}
	return false
}

// isPrivileged reports whether user holds the platform-wide ADMIN role.
func isPrivileged(user *models.User) bool {
	return user != nil && user.Role == models.RoleAdmin
}

// canReview: project owners and admins may record reviews.
func canReview(user *models.User, owners []models.ProjectOwner) bool {
	return isOwner(user, owners) || isPrivileged(user)
}

// canCanonize: canonization authority equals review authority.
func canCanonize(user *models.User, owners []models.ProjectOwner) bool {
	return canReview(user, owners)
}

// canViewPrivateProject: owners and admins only. Callers report a
// private project the user cannot see as NotFound, never Forbidden, to
// avoid leaking its existence.
func canViewPrivateProject(user *models.User, owners []models.ProjectOwner) bool {
	return isOwner(user, owners) || isPrivileged(user)
}

// canViewProject combines visibility with the private-project rule.
// user may be nil (anonymous).
func canViewProject(user *models.User, project *models.Project, owners []models.ProjectOwner) bool {
	if project.Visibility == models.VisibilityPublic {
		return true
	}
	return canViewPrivateProject(user, owners)
}
