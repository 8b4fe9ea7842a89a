package feedback

import "peerpulse-backend/internal/models"

// Classify derives the feedback category from the rater's and ratee's
// snapshots. The team boundary dominates: actors on different teams are
// cross_team no matter their levels. Within a team the position level is
// the sole ordering key, so equal levels are peer_to_peer regardless of
// position name.
//
// Classify is total over snapshots with a resolved position and team;
// callers validate affiliation before classifying.
func Classify(rater, ratee models.UserSnapshot) models.FeedbackType {
	if rater.Team.ID != ratee.Team.ID {
		return models.TypeCrossTeam
	}
	switch {
	case rater.Position.Level > ratee.Position.Level:
		return models.TypeSeniorToJunior
	case rater.Position.Level < ratee.Position.Level:
		return models.TypeJuniorToSenior
	default:
		return models.TypePeerToPeer
	}
}
