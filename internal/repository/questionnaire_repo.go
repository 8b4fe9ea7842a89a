package repository

import (
	"context"
	"time"

	"peerpulse-backend/internal/database"
	"peerpulse-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type QuestionnaireRepo struct {
	collection *mongo.Collection
}

func NewQuestionnaireRepo() *QuestionnaireRepo {
	return &QuestionnaireRepo{
		collection: database.GetCollection("questionnaires"),
	}
}

func (r *QuestionnaireRepo) Create(ctx context.Context, q *models.Questionnaire) error {
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	// Question IDs are minted here so responses can reference them.
	for i := range q.Questions.Objective {
		if q.Questions.Objective[i].ID.IsZero() {
			q.Questions.Objective[i].ID = bson.NewObjectID()
		}
	}
	for i := range q.Questions.Subjective {
		if q.Questions.Subjective[i].ID.IsZero() {
			q.Questions.Subjective[i].ID = bson.NewObjectID()
		}
	}
	result, err := r.collection.InsertOne(ctx, q)
	if err != nil {
		return err
	}
	q.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *QuestionnaireRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Questionnaire, error) {
	var q models.Questionnaire
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

// EnsureIndexes creates necessary indexes for the questionnaires collection
func (r *QuestionnaireRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "departmentId", Value: 1}, {Key: "isActive", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
