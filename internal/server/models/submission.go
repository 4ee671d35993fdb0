package models

import "time"

// SubmissionStatus is the lifecycle state of a submission. Transitions:
//
//	DRAFT -> SUBMITTED -> UNDER_REVIEW -> APPROVED | DECLINED
//
// UNDER_REVIEW may loop on itself while further reviews come in. Nothing
// ever moves a submission backward out of APPROVED or DECLINED.
type SubmissionStatus string

const (
	StatusDraft       SubmissionStatus = "DRAFT"
	StatusSubmitted   SubmissionStatus = "SUBMITTED"
	StatusUnderReview SubmissionStatus = "UNDER_REVIEW"
	StatusApproved    SubmissionStatus = "APPROVED"
	StatusDeclined    SubmissionStatus = "DECLINED"
)

// Valid reports whether s is one of the five enumerated statuses.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusDeclined:
		return true
	}
	return false
}

// Submission is a story submitted into a project. Owned by its author
// while DRAFT; never deleted once submitted (audit trail).
type Submission struct {
	ID        string
	ProjectID string
	AuthorID  string
	Title     string
	Content   string
	Status    SubmissionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
