package feedback

import (
	"fmt"
	"time"

	"peerpulse-backend/internal/models"
)

// transitions is the full lifecycle graph. Status only moves forward;
// approved and rejected are terminal.
var transitions = map[models.FeedbackStatus][]models.FeedbackStatus{
	models.StatusDraft:     {models.StatusSubmitted},
	models.StatusSubmitted: {models.StatusReviewed},
	models.StatusReviewed:  {models.StatusApproved, models.StatusRejected},
	models.StatusApproved:  {},
	models.StatusRejected:  {},
}

// reviewStates are the statuses that require a reviewer and stamp the
// review fields on entry.
var reviewStates = map[models.FeedbackStatus]bool{
	models.StatusReviewed: true,
	models.StatusApproved: true,
	models.StatusRejected: true,
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to models.FeedbackStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequiresReviewer reports whether entering the target status needs a
// reviewer snapshot.
func RequiresReviewer(to models.FeedbackStatus) bool {
	return reviewStates[to]
}

// ApplyTransition advances the record to the target status, stamping
// reviewDate and reviewedBy when a review state is entered. It never
// touches fromUser, toUser, feedbackType or weight.
func ApplyTransition(fb *models.Feedback, to models.FeedbackStatus, reviewer *models.UserSnapshot, now time.Time) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(fb.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, fb.Status, to)
	}
	if RequiresReviewer(to) && reviewer == nil {
		return fmt.Errorf("%w: transition to %s needs a reviewer", ErrReviewerRequired, to)
	}

	fb.Status = to
	if RequiresReviewer(to) {
		fb.ReviewDate = &now
		fb.ReviewedBy = reviewer
	}
	return nil
}
