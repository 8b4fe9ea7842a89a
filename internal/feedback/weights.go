package feedback

import "peerpulse-backend/internal/models"

// defaultWeight applies when a config omits the field for a category.
const defaultWeight = 1.0

// ResolveWeight maps a feedback category to its multiplier in the given
// config. A nil weight field falls back to 1 so a partially filled config
// still prices every category; an explicit 0 is honored as 0.
func ResolveWeight(category models.FeedbackType, cfg *models.Config) float64 {
	if cfg == nil {
		return defaultWeight
	}
	var w *float64
	switch category {
	case models.TypeSeniorToJunior:
		w = cfg.Weights.BySenior
	case models.TypeJuniorToSenior:
		w = cfg.Weights.ByJunior
	case models.TypePeerToPeer:
		w = cfg.Weights.ByPeer
	case models.TypeCrossTeam:
		w = cfg.Weights.ByCollaborator
	}
	if w == nil {
		return defaultWeight
	}
	return *w
}
