package models

import "time"

// ReviewDecision is the outcome a reviewer attaches to a review. A nil
// decision on a Review means feedback without a verdict.
type ReviewDecision string

const (
	DecisionApproved         ReviewDecision = "APPROVED"
	DecisionDeclined         ReviewDecision = "DECLINED"
	DecisionChangesRequested ReviewDecision = "CHANGES_REQUESTED"
)

func (d ReviewDecision) Valid() bool {
	switch d {
	case DecisionApproved, DecisionDeclined, DecisionChangesRequested:
		return true
	}
	return false
}

// Review is an append-only record of a reviewer touching a submission.
// Reviews never mutate; insertion order is chronological.
type Review struct {
	ID           string
	SubmissionID string
	ReviewerID   string
	Feedback     string
	Decision     *ReviewDecision
	CreatedAt    time.Time
}
