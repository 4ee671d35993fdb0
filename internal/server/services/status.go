package services

import "github.com/avelkins/canonkeeper/internal/server/models"

// deriveStatus computes a submission's next status from its current
// status and the decision attached to a newly recorded review. It is a
// pure function: the status is always recomputed from the latest
// decision, never accumulated.
//
//	APPROVED            -> APPROVED
//	DECLINED            -> DECLINED
//	CHANGES_REQUESTED   -> UNDER_REVIEW
//	no decision         -> UNDER_REVIEW if current is SUBMITTED (first
//	                       touch), otherwise unchanged
func deriveStatus(current models.SubmissionStatus, decision *models.ReviewDecision) models.SubmissionStatus {
	if decision == nil {
		if current == models.StatusSubmitted {
			return models.StatusUnderReview
		}
		return current
	}

	switch *decision {
	case models.DecisionApproved:
		return models.StatusApproved
	case models.DecisionDeclined:
		return models.StatusDeclined
	case models.DecisionChangesRequested:
		return models.StatusUnderReview
	}

	return current
}
