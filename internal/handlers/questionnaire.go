package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"peerpulse-backend/internal/models"
	"peerpulse-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type QuestionnaireHandler struct {
	questionnaireRepo *repository.QuestionnaireRepo
}

func NewQuestionnaireHandler(questionnaireRepo *repository.QuestionnaireRepo) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		questionnaireRepo: questionnaireRepo,
	}
}

type QuestionPayload struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options"`
}

type QuestionsPayload struct {
	Objective  []QuestionPayload `json:"objective" validate:"required,len=5,dive"`
	Subjective []QuestionPayload `json:"subjective" validate:"required,len=1,dive"`
}

type CreateQuestionnaireRequest struct {
	DepartmentID string           `json:"departmentId" validate:"required"`
	Name         string           `json:"name" validate:"required"`
	Questions    QuestionsPayload `json:"questions"`
}

// --- POST /questionnaires ---

func (h *QuestionnaireHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	departmentID, err := bson.ObjectIDFromHex(req.DepartmentID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid departmentId"})
		return
	}

	questionnaire := &models.Questionnaire{
		DepartmentID: departmentID,
		Name:         req.Name,
		IsActive:     true,
	}
	for _, q := range req.Questions.Objective {
		questionnaire.Questions.Objective = append(questionnaire.Questions.Objective, models.Question{
			Question: q.Question,
			Type:     models.QuestionTypeObjective,
			Options:  q.Options,
		})
	}
	for _, q := range req.Questions.Subjective {
		questionnaire.Questions.Subjective = append(questionnaire.Questions.Subjective, models.Question{
			Question: q.Question,
			Type:     models.QuestionTypeSubjective,
		})
	}

	if err := h.questionnaireRepo.Create(r.Context(), questionnaire); err != nil {
		log.Printf("Error creating questionnaire: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create questionnaire"})
		return
	}
	writeJSON(w, http.StatusCreated, questionnaire)
}

// --- GET /questionnaires/{id} ---

func (h *QuestionnaireHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid questionnaire ID"})
		return
	}

	questionnaire, err := h.questionnaireRepo.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching questionnaire: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if questionnaire == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "questionnaire not found"})
		return
	}
	writeJSON(w, http.StatusOK, questionnaire)
}
