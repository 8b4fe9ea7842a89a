package feedback

import (
	"context"
	"fmt"
	"time"

	"peerpulse-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

// Directory resolves org-chart users into feedback snapshots. Returns
// (nil, nil) when the user does not exist.
type Directory interface {
	Snapshot(ctx context.Context, userID bson.ObjectID) (*models.UserSnapshot, error)
}

// QuestionnaireFinder checks questionnaire existence at creation time.
// Returns (nil, nil) when absent.
type QuestionnaireFinder interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Questionnaire, error)
}

// ConfigFinder resolves the current weight table. Returns (nil, nil) when
// no config has ever been created.
type ConfigFinder interface {
	FindCurrent(ctx context.Context) (*models.Config, error)
}

// ListFilter narrows feedback listings. Zero ObjectIDs and empty strings
// mean "any".
type ListFilter struct {
	FromUserID      bson.ObjectID
	ToUserID        bson.ObjectID
	QuestionnaireID bson.ObjectID
	FeedbackType    models.FeedbackType
	Status          models.FeedbackStatus
}

// StatsFilter narrows score aggregation.
type StatsFilter struct {
	ToUserID     bson.ObjectID
	FeedbackType models.FeedbackType
	Start        *time.Time
	End          *time.Time
}

// Store is the feedback persistence contract. UpdateStatus must be a
// compare-and-set on the prior status so concurrent transitions cannot both
// succeed; it reports whether the record matched.
type Store interface {
	Create(ctx context.Context, fb *models.Feedback) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error)
	List(ctx context.Context, filter ListFilter, page, limit int) ([]models.Feedback, int64, error)
	FindForStats(ctx context.Context, filter StatsFilter) ([]models.Feedback, error)
	UpdateResponses(ctx context.Context, id bson.ObjectID, responses models.Responses) error
	UpdateStatus(ctx context.Context, id bson.ObjectID, from, to models.FeedbackStatus, reviewDate *time.Time, reviewedBy *models.UserSnapshot) (bool, error)
	UpdateWeight(ctx context.Context, id bson.ObjectID, weight float64) error
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
}

// Service orchestrates the feedback lifecycle: existence checks, snapshot
// capture, classification, pricing, persistence, transitions and stats.
type Service struct {
	directory      Directory
	questionnaires QuestionnaireFinder
	configs        ConfigFinder
	store          Store
	now            func() time.Time
}

func NewService(directory Directory, questionnaires QuestionnaireFinder, configs ConfigFinder, store Store) *Service {
	return &Service{
		directory:      directory,
		questionnaires: questionnaires,
		configs:        configs,
		store:          store,
		now:            time.Now,
	}
}

type CreateInput struct {
	FromUserID      bson.ObjectID
	ToUserID        bson.ObjectID
	QuestionnaireID bson.ObjectID
	Responses       models.Responses
}

// Create validates the actors and questionnaire, captures snapshots,
// classifies the relationship, prices it against the current config and
// persists a draft record. Classification and pricing happen once, here;
// the stored type and weight never change afterwards even if the org chart
// or config does. Nothing is written when any step fails.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Feedback, error) {
	if in.FromUserID == in.ToUserID {
		return nil, fmt.Errorf("%w: self-feedback is not allowed", ErrValidation)
	}

	var (
		fromUser      *models.UserSnapshot
		toUser        *models.UserSnapshot
		questionnaire *models.Questionnaire
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		fromUser, err = s.directory.Snapshot(gctx, in.FromUserID)
		return err
	})
	g.Go(func() (err error) {
		toUser, err = s.directory.Snapshot(gctx, in.ToUserID)
		return err
	})
	g.Go(func() (err error) {
		questionnaire, err = s.questionnaires.FindByID(gctx, in.QuestionnaireID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeError(err)
	}

	if fromUser == nil {
		return nil, fmt.Errorf("%w: from user", ErrNotFound)
	}
	if toUser == nil {
		return nil, fmt.Errorf("%w: to user", ErrNotFound)
	}
	if questionnaire == nil {
		return nil, fmt.Errorf("%w: questionnaire", ErrNotFound)
	}
	if !fromUser.HasAffiliation() {
		return nil, fmt.Errorf("%w: from user has no position or team", ErrValidation)
	}
	if !toUser.HasAffiliation() {
		return nil, fmt.Errorf("%w: to user has no position or team", ErrValidation)
	}
	if err := validateResponses(in.Responses); err != nil {
		return nil, err
	}

	cfg, err := s.configs.FindCurrent(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	if cfg == nil {
		return nil, ErrConfigMissing
	}

	category := Classify(*fromUser, *toUser)
	fb := &models.Feedback{
		FromUser:        *fromUser,
		ToUser:          *toUser,
		QuestionnaireID: in.QuestionnaireID,
		FeedbackType:    category,
		Responses:       in.Responses,
		Status:          models.StatusDraft,
		Weight:          ResolveWeight(category, cfg),
	}
	if err := s.store.Create(ctx, fb); err != nil {
		return nil, storeError(err)
	}
	return fb, nil
}

func (s *Service) Get(ctx context.Context, id bson.ObjectID) (*models.Feedback, error) {
	fb, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if fb == nil {
		return nil, fmt.Errorf("%w: feedback", ErrNotFound)
	}
	return fb, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page, limit int) ([]models.Feedback, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	records, total, err := s.store.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, storeError(err)
	}
	return records, total, nil
}

// UpdateResponses replaces the answers on a record that has not entered
// review yet. Once a reviewer is involved the responses are frozen.
func (s *Service) UpdateResponses(ctx context.Context, id bson.ObjectID, responses models.Responses) (*models.Feedback, error) {
	fb, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if fb.Status != models.StatusDraft && fb.Status != models.StatusSubmitted {
		return nil, fmt.Errorf("%w: responses are frozen once feedback is %s", ErrValidation, fb.Status)
	}
	if err := validateResponses(responses); err != nil {
		return nil, err
	}
	if err := s.store.UpdateResponses(ctx, id, responses); err != nil {
		return nil, storeError(err)
	}
	fb.Responses = responses
	return fb, nil
}

// Transition moves a record through the status machine. The write is a
// compare-and-set on the prior status: if another request advanced the
// record first, the precondition fails and the caller sees
// ErrInvalidTransition rather than a silent double-apply.
func (s *Service) Transition(ctx context.Context, id bson.ObjectID, target models.FeedbackStatus, reviewerID bson.ObjectID) (*models.Feedback, error) {
	fb, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var reviewer *models.UserSnapshot
	if RequiresReviewer(target) {
		if reviewerID.IsZero() {
			return nil, fmt.Errorf("%w: transition to %s needs a reviewer", ErrReviewerRequired, target)
		}
		reviewer, err = s.directory.Snapshot(ctx, reviewerID)
		if err != nil {
			return nil, storeError(err)
		}
		if reviewer == nil {
			return nil, fmt.Errorf("%w: reviewer", ErrNotFound)
		}
	}

	from := fb.Status
	if err := ApplyTransition(fb, target, reviewer, s.now()); err != nil {
		return nil, err
	}

	matched, err := s.store.UpdateStatus(ctx, id, from, fb.Status, fb.ReviewDate, fb.ReviewedBy)
	if err != nil {
		return nil, storeError(err)
	}
	if !matched {
		// The record either vanished or its status advanced between the
		// read and the write.
		current, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, storeError(err)
		}
		if current == nil {
			return nil, fmt.Errorf("%w: feedback", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: status already advanced to %s", ErrInvalidTransition, current.Status)
	}
	return fb, nil
}

// OverrideWeight sets the stored weight directly, bypassing the pricing
// model. The HTTP layer gates it behind the admin permission; here it is
// only sanity-checked.
func (s *Service) OverrideWeight(ctx context.Context, id bson.ObjectID, weight float64) (*models.Feedback, error) {
	if weight < 0 {
		return nil, fmt.Errorf("%w: weight must be >= 0", ErrValidation)
	}
	fb, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateWeight(ctx, id, weight); err != nil {
		return nil, storeError(err)
	}
	fb.Weight = weight
	return fb, nil
}

func (s *Service) Delete(ctx context.Context, id bson.ObjectID) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if !deleted {
		return fmt.Errorf("%w: feedback", ErrNotFound)
	}
	return nil
}

// Stats filters records in the store and folds them in memory.
func (s *Service) Stats(ctx context.Context, filter StatsFilter) (Stats, error) {
	records, err := s.store.FindForStats(ctx, filter)
	if err != nil {
		return Stats{}, storeError(err)
	}
	return AggregateScores(records), nil
}

func validateResponses(r models.Responses) error {
	if len(r.Objective) != models.ObjectiveQuestionCount {
		return fmt.Errorf("%w: expected %d objective responses, got %d",
			ErrValidation, models.ObjectiveQuestionCount, len(r.Objective))
	}
	for _, obj := range r.Objective {
		if obj.Score < 1 || obj.Score > 5 {
			return fmt.Errorf("%w: objective score %d out of range 1-5", ErrValidation, obj.Score)
		}
	}
	return nil
}

func storeError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
