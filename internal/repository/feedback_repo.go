package repository

import (
	"context"
	"time"

	"peerpulse-backend/internal/database"
	"peerpulse-backend/internal/feedback"
	"peerpulse-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo() *FeedbackRepo {
	return &FeedbackRepo{
		collection: database.GetCollection("feedbacks"),
	}
}

func (r *FeedbackRepo) Create(ctx context.Context, fb *models.Feedback) error {
	fb.CreatedAt = time.Now()
	fb.UpdatedAt = fb.CreatedAt
	result, err := r.collection.InsertOne(ctx, fb)
	if err != nil {
		return err
	}
	fb.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *FeedbackRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error) {
	var fb models.Feedback
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&fb)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &fb, nil
}

// List returns a page of feedback, newest first, with the total match count
// for the pagination envelope.
func (r *FeedbackRepo) List(ctx context.Context, filter feedback.ListFilter, page, limit int) ([]models.Feedback, int64, error) {
	query := bson.M{}
	if !filter.FromUserID.IsZero() {
		query["fromUser._id"] = filter.FromUserID
	}
	if !filter.ToUserID.IsZero() {
		query["toUser._id"] = filter.ToUserID
	}
	if !filter.QuestionnaireID.IsZero() {
		query["questionnaireId"] = filter.QuestionnaireID
	}
	if filter.FeedbackType != "" {
		query["feedbackType"] = filter.FeedbackType
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	records := make([]models.Feedback, 0, limit)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindForStats returns every record matching the stats filter. Filtering
// happens here; the weighted math happens in the feedback package so it is
// unit-testable and order-independent.
func (r *FeedbackRepo) FindForStats(ctx context.Context, filter feedback.StatsFilter) ([]models.Feedback, error) {
	query := bson.M{}
	if !filter.ToUserID.IsZero() {
		query["toUser._id"] = filter.ToUserID
	}
	if filter.FeedbackType != "" {
		query["feedbackType"] = filter.FeedbackType
	}
	if filter.Start != nil || filter.End != nil {
		created := bson.M{}
		if filter.Start != nil {
			created["$gte"] = *filter.Start
		}
		if filter.End != nil {
			created["$lte"] = *filter.End
		}
		query["createdAt"] = created
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.Feedback
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *FeedbackRepo) UpdateResponses(ctx context.Context, id bson.ObjectID, responses models.Responses) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"responses": responses,
			"updatedAt": time.Now(),
		},
	})
	return err
}

// UpdateStatus advances the status with a compare-and-set on the prior
// value. Two racing transitions from the same state cannot both match; the
// loser sees matched=false and the caller reports the race as an invalid
// transition.
func (r *FeedbackRepo) UpdateStatus(ctx context.Context, id bson.ObjectID, from, to models.FeedbackStatus, reviewDate *time.Time, reviewedBy *models.UserSnapshot) (bool, error) {
	set := bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}
	if reviewDate != nil {
		set["reviewDate"] = *reviewDate
	}
	if reviewedBy != nil {
		set["reviewedBy"] = *reviewedBy
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *FeedbackRepo) UpdateWeight(ctx context.Context, id bson.ObjectID, weight float64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"weight":    weight,
			"updatedAt": time.Now(),
		},
	})
	return err
}

func (r *FeedbackRepo) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// EnsureIndexes creates necessary indexes for the feedbacks collection
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "toUser._id", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "fromUser._id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "feedbackType", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
