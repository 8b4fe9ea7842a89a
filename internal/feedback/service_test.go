package feedback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"peerpulse-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// --- In-memory collaborators ---

type mockDirectory struct {
	snapshots map[bson.ObjectID]models.UserSnapshot
	err       error
}

func (m *mockDirectory) Snapshot(ctx context.Context, userID bson.ObjectID) (*models.UserSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.snapshots[userID]; ok {
		copied := s
		return &copied, nil
	}
	return nil, nil
}

type mockQuestionnaires struct {
	items map[bson.ObjectID]models.Questionnaire
}

func (m *mockQuestionnaires) FindByID(ctx context.Context, id bson.ObjectID) (*models.Questionnaire, error) {
	if q, ok := m.items[id]; ok {
		copied := q
		return &copied, nil
	}
	return nil, nil
}

type mockConfigs struct {
	cfg *models.Config
	err error
}

func (m *mockConfigs) FindCurrent(ctx context.Context) (*models.Config, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cfg, nil
}

// memStore is an in-memory Store with real compare-and-set semantics.
// beforeUpdateStatus runs between the service's read and its write, which
// lets tests stage a lost transition race.
type memStore struct {
	mu                 sync.Mutex
	records            map[bson.ObjectID]models.Feedback
	beforeUpdateStatus func(s *memStore)
}

func newMemStore() *memStore {
	return &memStore{records: make(map[bson.ObjectID]models.Feedback)}
}

func (s *memStore) Create(ctx context.Context, fb *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fb.ID = bson.NewObjectID()
	fb.CreatedAt = time.Now()
	fb.UpdatedAt = fb.CreatedAt
	s.records[fb.ID] = *fb
	return nil
}

func (s *memStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fb, ok := s.records[id]; ok {
		return &fb, nil
	}
	return nil, nil
}

func (s *memStore) List(ctx context.Context, filter ListFilter, page, limit int) ([]models.Feedback, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.Feedback
	for _, fb := range s.records {
		if !filter.ToUserID.IsZero() && fb.ToUser.ID != filter.ToUserID {
			continue
		}
		if !filter.FromUserID.IsZero() && fb.FromUser.ID != filter.FromUserID {
			continue
		}
		if filter.FeedbackType != "" && fb.FeedbackType != filter.FeedbackType {
			continue
		}
		if filter.Status != "" && fb.Status != filter.Status {
			continue
		}
		matched = append(matched, fb)
	}
	return matched, int64(len(matched)), nil
}

func (s *memStore) FindForStats(ctx context.Context, filter StatsFilter) ([]models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.Feedback
	for _, fb := range s.records {
		if !filter.ToUserID.IsZero() && fb.ToUser.ID != filter.ToUserID {
			continue
		}
		if filter.FeedbackType != "" && fb.FeedbackType != filter.FeedbackType {
			continue
		}
		if filter.Start != nil && fb.CreatedAt.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && fb.CreatedAt.After(*filter.End) {
			continue
		}
		matched = append(matched, fb)
	}
	return matched, nil
}

func (s *memStore) UpdateResponses(ctx context.Context, id bson.ObjectID, responses models.Responses) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fb := s.records[id]
	fb.Responses = responses
	s.records[id] = fb
	return nil
}

func (s *memStore) UpdateStatus(ctx context.Context, id bson.ObjectID, from, to models.FeedbackStatus, reviewDate *time.Time, reviewedBy *models.UserSnapshot) (bool, error) {
	if s.beforeUpdateStatus != nil {
		hook := s.beforeUpdateStatus
		s.beforeUpdateStatus = nil
		hook(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fb, ok := s.records[id]
	if !ok || fb.Status != from {
		return false, nil
	}
	fb.Status = to
	fb.ReviewDate = reviewDate
	fb.ReviewedBy = reviewedBy
	s.records[id] = fb
	return true, nil
}

func (s *memStore) UpdateWeight(ctx context.Context, id bson.ObjectID, weight float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fb := s.records[id]
	fb.Weight = weight
	s.records[id] = fb
	return nil
}

func (s *memStore) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

func (s *memStore) setStatus(id bson.ObjectID, status models.FeedbackStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fb := s.records[id]
	fb.Status = status
	s.records[id] = fb
}

// --- Fixture ---

type fixture struct {
	service        *Service
	directory      *mockDirectory
	questionnaires *mockQuestionnaires
	configs        *mockConfigs
	store          *memStore

	teamA, teamB           models.TeamSnapshot
	rater, ratee, reviewer models.UserSnapshot
	questionnaireID        bson.ObjectID
}

func newFixture() *fixture {
	f := &fixture{
		directory:      &mockDirectory{snapshots: make(map[bson.ObjectID]models.UserSnapshot)},
		questionnaires: &mockQuestionnaires{items: make(map[bson.ObjectID]models.Questionnaire)},
		configs:        &mockConfigs{},
		store:          newMemStore(),
	}
	f.teamA = newTeam("Team A")
	f.teamB = newTeam("Team B")
	f.rater = snapshotOn(f.teamA, 3)
	f.ratee = snapshotOn(f.teamA, 1)
	f.reviewer = snapshotOn(f.teamA, 5)
	for _, s := range []models.UserSnapshot{f.rater, f.ratee, f.reviewer} {
		f.directory.snapshots[s.ID] = s
	}

	f.questionnaireID = bson.NewObjectID()
	f.questionnaires.items[f.questionnaireID] = models.Questionnaire{ID: f.questionnaireID, Name: "Quarterly"}

	f.configs.cfg = &models.Config{
		Version: "v1",
		Weights: models.Weights{
			BySenior:       weight(1.5),
			ByJunior:       weight(0.8),
			ByPeer:         weight(1.0),
			ByCollaborator: weight(0.5),
		},
	}

	f.service = NewService(f.directory, f.questionnaires, f.configs, f.store)
	return f
}

func responsesWithScores(scores ...int) models.Responses {
	r := models.Responses{
		Subjective: models.SubjectiveResponse{QuestionID: bson.NewObjectID(), Answer: "solid work"},
	}
	for _, s := range scores {
		r.Objective = append(r.Objective, models.ObjectiveResponse{QuestionID: bson.NewObjectID(), Score: s})
	}
	return r
}

func (f *fixture) create(t *testing.T, from, to models.UserSnapshot) *models.Feedback {
	t.Helper()
	fb, err := f.service.Create(context.Background(), CreateInput{
		FromUserID:      from.ID,
		ToUserID:        to.ID,
		QuestionnaireID: f.questionnaireID,
		Responses:       responsesWithScores(4, 5, 3, 4, 5),
	})
	require.NoError(t, err)
	return fb
}

// --- Create ---

func TestServiceCreateSeniorToJunior(t *testing.T) {
	f := newFixture()

	fb := f.create(t, f.rater, f.ratee)

	assert.Equal(t, models.TypeSeniorToJunior, fb.FeedbackType)
	assert.Equal(t, 1.5, fb.Weight)
	assert.Equal(t, models.StatusDraft, fb.Status)
	assert.Equal(t, f.rater.ID, fb.FromUser.ID)
	assert.Equal(t, f.rater.Position.Level, fb.FromUser.Position.Level)
	assert.Equal(t, f.teamA.ID, fb.FromUser.Team.ID)
	assert.False(t, fb.ID.IsZero())
	assert.InDelta(t, 31.5, fb.WeightedScore(), 1e-9)
}

func TestServiceCreateCrossTeam(t *testing.T) {
	f := newFixture()
	outsider := snapshotOn(f.teamB, 2)
	f.directory.snapshots[outsider.ID] = outsider

	fb, err := f.service.Create(context.Background(), CreateInput{
		FromUserID:      f.rater.ID,
		ToUserID:        outsider.ID,
		QuestionnaireID: f.questionnaireID,
		Responses:       responsesWithScores(3, 3, 3, 3, 3),
	})
	require.NoError(t, err)

	assert.Equal(t, models.TypeCrossTeam, fb.FeedbackType)
	assert.Equal(t, 0.5, fb.Weight)
}

func TestServiceCreateRejectsSelfFeedback(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), CreateInput{
		FromUserID:      f.rater.ID,
		ToUserID:        f.rater.ID,
		QuestionnaireID: f.questionnaireID,
		Responses:       responsesWithScores(4, 5, 3, 4, 5),
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.store.records, "no record on failure")
}

func TestServiceCreateMissingActorOrQuestionnaire(t *testing.T) {
	f := newFixture()
	missing := bson.NewObjectID()

	_, err := f.service.Create(context.Background(), CreateInput{
		FromUserID:      missing,
		ToUserID:        f.ratee.ID,
		QuestionnaireID: f.questionnaireID,
		Responses:       responsesWithScores(4, 5, 3, 4, 5),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.Create(context.Background(), CreateInput{
		FromUserID:      f.rater.ID,
		ToUserID:        f.ratee.ID,
		QuestionnaireID: missing,
		Responses:       responsesWithScores(4, 5, 3, 4, 5),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceCreateRequiresAffiliation(t *testing.T) {
	f := newFixture()
	unplaced := models.UserSnapshot{ID: bson.NewObjectID(), Name: "New Hire", Email: "new@corp.test"}
	f.directory.snapshots[unplaced.ID] = unplaced

	_, err := f.service.Create(context.Background(), CreateInput{
		FromUserID:      unplaced.ID,
		ToUserID:        f.ratee.ID,
		QuestionnaireID: f.questionnaireID,
		Responses:       responsesWithScores(4, 5, 3, 4, 5),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestServiceCreateValidatesResponses(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), CreateInput{
		FromUserID:      f.rater.ID,
		ToUserID:        f.ratee.ID,
		QuestionnaireID: f.questionnaireID,
		Responses:       responsesWithScores(4, 5, 3),
	})
	assert.ErrorIs(t, err, ErrValidation, "wrong objective count")

	_, err = f.service.Create(context.Background(), CreateInput{
		FromUserID:      f.rater.ID,
		ToUserID:        f.ratee.ID,
		QuestionnaireID: f.questionnaireID,
		Responses:       responsesWithScores(4, 5, 3, 4, 9),
	})
	assert.ErrorIs(t, err, ErrValidation, "out-of-range score")
}

func TestServiceCreateWithoutConfigFails(t *testing.T) {
	f := newFixture()
	f.configs.cfg = nil

	_, err := f.service.Create(context.Background(), CreateInput{
		FromUserID:      f.rater.ID,
		ToUserID:        f.ratee.ID,
		QuestionnaireID: f.questionnaireID,
		Responses:       responsesWithScores(4, 5, 3, 4, 5),
	})
	assert.ErrorIs(t, err, ErrConfigMissing)
	assert.Empty(t, f.store.records)
}

func TestServiceCreateWrapsStoreFailures(t *testing.T) {
	f := newFixture()
	f.directory.err = errors.New("connection reset")

	_, err := f.service.Create(context.Background(), CreateInput{
		FromUserID:      f.rater.ID,
		ToUserID:        f.ratee.ID,
		QuestionnaireID: f.questionnaireID,
		Responses:       responsesWithScores(4, 5, 3, 4, 5),
	})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

// Weight is snapshotted at creation; later config changes never reprice
// existing records.
func TestServiceWeightSurvivesConfigChange(t *testing.T) {
	f := newFixture()
	fb := f.create(t, f.rater, f.ratee)
	require.Equal(t, 1.5, fb.Weight)

	f.configs.cfg = &models.Config{
		Version: "v2",
		Weights: models.Weights{BySenior: weight(9.9)},
	}

	fetched, err := f.service.Get(context.Background(), fb.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.5, fetched.Weight)

	// New feedback is priced with the new config.
	fresh := f.create(t, f.rater, f.ratee)
	assert.Equal(t, 9.9, fresh.Weight)
}

// --- Transitions ---

func TestServiceTransitionLifecycle(t *testing.T) {
	f := newFixture()
	fb := f.create(t, f.rater, f.ratee)

	updated, err := f.service.Transition(context.Background(), fb.ID, models.StatusSubmitted, bson.ObjectID{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, updated.Status)
	assert.Nil(t, updated.ReviewDate)

	updated, err = f.service.Transition(context.Background(), fb.ID, models.StatusReviewed, f.reviewer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewed, updated.Status)
	require.NotNil(t, updated.ReviewDate)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, f.reviewer.ID, updated.ReviewedBy.ID)

	updated, err = f.service.Transition(context.Background(), fb.ID, models.StatusApproved, f.reviewer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)

	// Terminal state: nothing moves anymore.
	_, err = f.service.Transition(context.Background(), fb.ID, models.StatusRejected, f.reviewer.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestServiceTransitionRequiresReviewer(t *testing.T) {
	f := newFixture()
	fb := f.create(t, f.rater, f.ratee)
	_, err := f.service.Transition(context.Background(), fb.ID, models.StatusSubmitted, bson.ObjectID{})
	require.NoError(t, err)

	_, err = f.service.Transition(context.Background(), fb.ID, models.StatusReviewed, bson.ObjectID{})
	assert.ErrorIs(t, err, ErrReviewerRequired)

	_, err = f.service.Transition(context.Background(), fb.ID, models.StatusReviewed, bson.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound, "unknown reviewer")
}

// A concurrent writer advancing the status first surfaces as an invalid
// transition for the loser, never a double-apply.
func TestServiceTransitionLostRace(t *testing.T) {
	f := newFixture()
	fb := f.create(t, f.rater, f.ratee)

	f.store.beforeUpdateStatus = func(s *memStore) {
		s.setStatus(fb.ID, models.StatusSubmitted)
	}

	_, err := f.service.Transition(context.Background(), fb.ID, models.StatusSubmitted, bson.ObjectID{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	current, err := f.service.Get(context.Background(), fb.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, current.Status)
}

func TestServiceTransitionMissingRecord(t *testing.T) {
	f := newFixture()
	_, err := f.service.Transition(context.Background(), bson.NewObjectID(), models.StatusSubmitted, bson.ObjectID{})
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- Response edits ---

func TestServiceUpdateResponsesOnlyBeforeReview(t *testing.T) {
	f := newFixture()
	fb := f.create(t, f.rater, f.ratee)

	updated, err := f.service.UpdateResponses(context.Background(), fb.ID, responsesWithScores(5, 5, 5, 5, 5))
	require.NoError(t, err)
	assert.InDelta(t, 25.0, updated.Responses.RawScore(), 1e-9)

	_, err = f.service.Transition(context.Background(), fb.ID, models.StatusSubmitted, bson.ObjectID{})
	require.NoError(t, err)
	_, err = f.service.UpdateResponses(context.Background(), fb.ID, responsesWithScores(1, 1, 1, 1, 1))
	require.NoError(t, err, "submitted records are still editable")

	_, err = f.service.Transition(context.Background(), fb.ID, models.StatusReviewed, f.reviewer.ID)
	require.NoError(t, err)
	_, err = f.service.UpdateResponses(context.Background(), fb.ID, responsesWithScores(5, 5, 5, 5, 5))
	assert.ErrorIs(t, err, ErrValidation, "reviewed records are frozen")
}

// --- Weight override & delete ---

func TestServiceOverrideWeight(t *testing.T) {
	f := newFixture()
	fb := f.create(t, f.rater, f.ratee)

	updated, err := f.service.OverrideWeight(context.Background(), fb.ID, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.Weight)

	fetched, err := f.service.Get(context.Background(), fb.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, fetched.Weight)

	_, err = f.service.OverrideWeight(context.Background(), fb.ID, -1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestServiceDelete(t *testing.T) {
	f := newFixture()
	fb := f.create(t, f.rater, f.ratee)

	require.NoError(t, f.service.Delete(context.Background(), fb.ID))
	_, err := f.service.Get(context.Background(), fb.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.service.Delete(context.Background(), fb.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- Stats ---

func TestServiceStats(t *testing.T) {
	f := newFixture()
	outsider := snapshotOn(f.teamB, 2)
	f.directory.snapshots[outsider.ID] = outsider

	f.create(t, f.rater, f.ratee)
	f.create(t, f.rater, f.ratee)
	_, err := f.service.Create(context.Background(), CreateInput{
		FromUserID:      outsider.ID,
		ToUserID:        f.ratee.ID,
		QuestionnaireID: f.questionnaireID,
		Responses:       responsesWithScores(2, 2, 2, 2, 2),
	})
	require.NoError(t, err)

	stats, err := f.service.Stats(context.Background(), StatsFilter{ToUserID: f.ratee.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Overall.Count)

	senior := categoryStats(t, stats, models.TypeSeniorToJunior)
	assert.Equal(t, 2, senior.Count)
	assert.InDelta(t, 21.0, senior.WeightedAverage, 1e-9)

	cross := categoryStats(t, stats, models.TypeCrossTeam)
	assert.Equal(t, 1, cross.Count)
	assert.InDelta(t, 10.0, cross.WeightedAverage, 1e-9)

	// Filter matching nothing still returns the full zeroed shape.
	empty, err := f.service.Stats(context.Background(), StatsFilter{ToUserID: bson.NewObjectID()})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Overall.Count)
	assert.Zero(t, empty.Overall.WeightedAverage)
	assert.Len(t, empty.ByCategory, len(models.FeedbackTypes))
}
