package models

import "time"

// CanonEntry marks a submission as part of a project's official
// continuity. At most one entry exists per submission (unique index in
// the store) and it is immutable after creation; its existence is itself
// the evidence the submission is canonical.
type CanonEntry struct {
	ID           string
	ProjectID    string
	SubmissionID string
	AddedByID    string
	Notes        string
	CreatedAt    time.Time
}
