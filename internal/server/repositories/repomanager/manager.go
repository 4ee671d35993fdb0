// Package repomanager is the factory tying repositories to a database
// handle (either *sql.DB or an open transaction) and running schema
// migrations at startup.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avelkins/canonkeeper/internal/dbx"
	"github.com/avelkins/canonkeeper/internal/server/repositories/canon"
	"github.com/avelkins/canonkeeper/internal/server/repositories/projects"
	"github.com/avelkins/canonkeeper/internal/server/repositories/refreshtokens"
	"github.com/avelkins/canonkeeper/internal/server/repositories/reviews"
	"github.com/avelkins/canonkeeper/internal/server/repositories/submissions"
	"github.com/avelkins/canonkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Projects(db dbx.DBTX) projects.Repository
	Submissions(db dbx.DBTX) submissions.Repository
	Reviews(db dbx.DBTX) reviews.Repository
	Canon(db dbx.DBTX) canon.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
