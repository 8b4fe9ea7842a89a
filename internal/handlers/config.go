package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"peerpulse-backend/internal/models"
	"peerpulse-backend/internal/repository"
)

type ConfigHandler struct {
	configRepo *repository.ConfigRepo
}

func NewConfigHandler(configRepo *repository.ConfigRepo) *ConfigHandler {
	return &ConfigHandler{
		configRepo: configRepo,
	}
}

type WeightsPayload struct {
	BySenior       *float64 `json:"bySenior" validate:"omitempty,gte=0"`
	ByJunior       *float64 `json:"byJunior" validate:"omitempty,gte=0"`
	ByPeer         *float64 `json:"byPeer" validate:"omitempty,gte=0"`
	ByCollaborator *float64 `json:"byCollaborator" validate:"omitempty,gte=0"`
}

type CreateConfigRequest struct {
	TimeInterval int            `json:"timeInterval" validate:"gte=0"`
	Version      string         `json:"version" validate:"required"`
	Weights      WeightsPayload `json:"weights"`
}

// --- POST /configs ---

// Create inserts a new weight table. Configs are append-only: newer records
// supersede older ones for future feedback, and existing feedback keeps the
// weight it was priced with.
func (h *ConfigHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	cfg := &models.Config{
		TimeInterval: req.TimeInterval,
		Version:      req.Version,
		Weights: models.Weights{
			BySenior:       req.Weights.BySenior,
			ByJunior:       req.Weights.ByJunior,
			ByPeer:         req.Weights.ByPeer,
			ByCollaborator: req.Weights.ByCollaborator,
		},
	}
	if err := h.configRepo.Create(r.Context(), cfg); err != nil {
		log.Printf("Error creating config: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create config"})
		return
	}
	writeJSON(w, http.StatusCreated, cfg)
}

// --- GET /configs/current ---

func (h *ConfigHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configRepo.FindCurrent(r.Context())
	if err != nil {
		log.Printf("Error fetching current config: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if cfg == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no config exists"})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
