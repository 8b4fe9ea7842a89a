package feedback

import (
	"testing"

	"peerpulse-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func weight(v float64) *float64 { return &v }

func TestResolveWeight(t *testing.T) {
	cfg := &models.Config{
		Version: "v2",
		Weights: models.Weights{
			BySenior:       weight(1.5),
			ByJunior:       weight(0.8),
			ByPeer:         weight(1.0),
			ByCollaborator: weight(0.5),
		},
	}

	assert.Equal(t, 1.5, ResolveWeight(models.TypeSeniorToJunior, cfg))
	assert.Equal(t, 0.8, ResolveWeight(models.TypeJuniorToSenior, cfg))
	assert.Equal(t, 1.0, ResolveWeight(models.TypePeerToPeer, cfg))
	assert.Equal(t, 0.5, ResolveWeight(models.TypeCrossTeam, cfg))
}

func TestResolveWeightDefaults(t *testing.T) {
	// Missing fields fall back to 1; an explicit 0 is honored.
	cfg := &models.Config{
		Weights: models.Weights{
			BySenior: weight(0),
		},
	}

	assert.Equal(t, 0.0, ResolveWeight(models.TypeSeniorToJunior, cfg))
	assert.Equal(t, 1.0, ResolveWeight(models.TypeJuniorToSenior, cfg))
	assert.Equal(t, 1.0, ResolveWeight(models.TypePeerToPeer, cfg))
	assert.Equal(t, 1.0, ResolveWeight(models.TypeCrossTeam, cfg))
}
