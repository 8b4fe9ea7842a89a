package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"peerpulse-backend/internal/feedback"
	"peerpulse-backend/internal/metrics"
	"peerpulse-backend/internal/middleware"
	"peerpulse-backend/internal/models"
	"peerpulse-backend/internal/notify"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type FeedbackHandler struct {
	service   *feedback.Service
	notifier  notify.Notifier
	jwtSecret string
}

func NewFeedbackHandler(service *feedback.Service, notifier notify.Notifier, jwtSecret string) *FeedbackHandler {
	return &FeedbackHandler{
		service:   service,
		notifier:  notifier,
		jwtSecret: jwtSecret,
	}
}

// --- Request types ---

type ObjectiveResponsePayload struct {
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer"`
	Score      int    `json:"score" validate:"min=1,max=5"`
}

type SubjectiveResponsePayload struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type ResponsesPayload struct {
	Objective  []ObjectiveResponsePayload `json:"objective" validate:"required,len=5,dive"`
	Subjective SubjectiveResponsePayload  `json:"subjective"`
}

type CreateFeedbackRequest struct {
	FromUserID      string           `json:"fromUserId" validate:"required"`
	ToUserID        string           `json:"toUserId" validate:"required"`
	QuestionnaireID string           `json:"questionnaireId" validate:"required"`
	Responses       ResponsesPayload `json:"responses" validate:"required"`
}

type UpdateFeedbackRequest struct {
	Responses  *ResponsesPayload `json:"responses,omitempty" validate:"omitempty"`
	Status     *string           `json:"status,omitempty"`
	ReviewerID *string           `json:"reviewerId,omitempty"`
	Weight     *float64          `json:"weight,omitempty" validate:"omitempty,gte=0"`
}

func (p ResponsesPayload) toModel() (models.Responses, error) {
	responses := models.Responses{
		Objective: make([]models.ObjectiveResponse, 0, len(p.Objective)),
	}
	for _, obj := range p.Objective {
		questionID, err := bson.ObjectIDFromHex(obj.QuestionID)
		if err != nil {
			return models.Responses{}, fmt.Errorf("%w: invalid objective question ID %q", feedback.ErrValidation, obj.QuestionID)
		}
		responses.Objective = append(responses.Objective, models.ObjectiveResponse{
			QuestionID: questionID,
			Answer:     obj.Answer,
			Score:      obj.Score,
		})
	}
	if p.Subjective.QuestionID != "" {
		questionID, err := bson.ObjectIDFromHex(p.Subjective.QuestionID)
		if err != nil {
			return models.Responses{}, fmt.Errorf("%w: invalid subjective question ID %q", feedback.ErrValidation, p.Subjective.QuestionID)
		}
		responses.Subjective = models.SubjectiveResponse{
			QuestionID: questionID,
			Answer:     p.Subjective.Answer,
		}
	}
	return responses, nil
}

// --- POST /feedback ---

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	fromUserID, err := bson.ObjectIDFromHex(req.FromUserID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid fromUserId"})
		return
	}
	toUserID, err := bson.ObjectIDFromHex(req.ToUserID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid toUserId"})
		return
	}
	questionnaireID, err := bson.ObjectIDFromHex(req.QuestionnaireID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid questionnaireId"})
		return
	}
	responses, err := req.Responses.toModel()
	if err != nil {
		writeError(w, err)
		return
	}

	fb, err := h.service.Create(r.Context(), feedback.CreateInput{
		FromUserID:      fromUserID,
		ToUserID:        toUserID,
		QuestionnaireID: questionnaireID,
		Responses:       responses,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.FeedbackCreated.WithLabelValues(string(fb.FeedbackType)).Inc()
	writeJSON(w, http.StatusCreated, fb)
}

// --- GET /feedback ---

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := feedback.ListFilter{
		FeedbackType: models.FeedbackType(query.Get("feedbackType")),
		Status:       models.FeedbackStatus(query.Get("status")),
	}
	for param, target := range map[string]*bson.ObjectID{
		"fromUserId":      &filter.FromUserID,
		"toUserId":        &filter.ToUserID,
		"questionnaireId": &filter.QuestionnaireID,
	} {
		if value := query.Get(param); value != "" {
			id, err := bson.ObjectIDFromHex(value)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + param})
				return
			}
			*target = id
		}
	}

	page := queryInt(query.Get("page"), 1)
	limit := queryInt(query.Get("limit"), 10)

	records, total, err := h.service.List(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"feedbacks": records,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
			"limit": limit,
		},
	})
}

// --- GET /feedback/stats ---

func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := feedback.StatsFilter{
		FeedbackType: models.FeedbackType(query.Get("feedbackType")),
	}
	if value := query.Get("userId"); value != "" {
		id, err := bson.ObjectIDFromHex(value)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid userId"})
			return
		}
		filter.ToUserID = id
	}
	if value := query.Get("startDate"); value != "" {
		start, err := parseDate(value)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid startDate"})
			return
		}
		filter.Start = &start
	}
	if value := query.Get("endDate"); value != "" {
		end, err := parseDate(value)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid endDate"})
			return
		}
		filter.End = &end
	}

	stats, err := h.service.Stats(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- GET /feedback/{id} ---

func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid feedback ID"})
		return
	}

	fb, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

// --- PUT /feedback/{id} ---

// Update edits responses, advances the status machine, or applies an
// administrative weight override. Responses apply before status so a final
// edit and a submit can share one request; weight requires an admin token
// because it bypasses the pricing model.
func (h *FeedbackHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid feedback ID"})
		return
	}

	var req UpdateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Responses == nil && req.Status == nil && req.Weight == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nothing to update"})
		return
	}
	if req.Weight != nil && !middleware.IsAdmin(r, h.jwtSecret) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "weight override requires admin access"})
		return
	}

	var updated *models.Feedback

	if req.Responses != nil {
		responses, err := req.Responses.toModel()
		if err != nil {
			writeError(w, err)
			return
		}
		if updated, err = h.service.UpdateResponses(r.Context(), id, responses); err != nil {
			writeError(w, err)
			return
		}
	}

	if req.Status != nil {
		var reviewerID bson.ObjectID
		if req.ReviewerID != nil {
			reviewerID, err = bson.ObjectIDFromHex(*req.ReviewerID)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid reviewerId"})
				return
			}
		}
		if updated, err = h.service.Transition(r.Context(), id, models.FeedbackStatus(*req.Status), reviewerID); err != nil {
			writeError(w, err)
			return
		}
		metrics.StatusTransitions.WithLabelValues(string(updated.Status)).Inc()
		h.notifyTransition(updated)
	}

	if req.Weight != nil {
		if updated, err = h.service.OverrideWeight(r.Context(), id, *req.Weight); err != nil {
			writeError(w, err)
			return
		}
		metrics.WeightOverrides.Inc()
		log.Printf("⚖️  Admin %s overrode weight on feedback %s to %v",
			middleware.GetSubject(r.Context()), id.Hex(), *req.Weight)
	}

	writeJSON(w, http.StatusOK, updated)
}

// --- DELETE /feedback/{id} ---

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid feedback ID"})
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "feedback deleted successfully"})
}

// notifyTransition emails the affected party in a background goroutine
// (non-blocking, best-effort).
func (h *FeedbackHandler) notifyTransition(fb *models.Feedback) {
	var recipient, subject, body string
	switch fb.Status {
	case models.StatusSubmitted:
		recipient = fb.ToUser.Email
		subject = "New feedback awaiting review"
		body = fmt.Sprintf("%s submitted feedback about you. It is now awaiting review.", fb.FromUser.Name)
	case models.StatusApproved, models.StatusRejected:
		recipient = fb.FromUser.Email
		subject = fmt.Sprintf("Your feedback was %s", fb.Status)
		body = fmt.Sprintf("Your feedback about %s was %s.", fb.ToUser.Name, fb.Status)
	default:
		return
	}

	go func() {
		if err := h.notifier.Publish(context.Background(), recipient, subject, body); err != nil {
			log.Printf("Error sending notification: %v", err)
		}
	}()
}

func queryInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
