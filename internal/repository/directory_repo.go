package repository

import (
	"context"

	"peerpulse-backend/internal/database"
	"peerpulse-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// DirectoryRepo reads the org-chart collections owned by the surrounding
// platform (users, positions, teams) and flattens them into the snapshots
// embedded on feedback records.
type DirectoryRepo struct {
	users     *mongo.Collection
	positions *mongo.Collection
	teams     *mongo.Collection
}

func NewDirectoryRepo() *DirectoryRepo {
	return &DirectoryRepo{
		users:     database.GetCollection("users"),
		positions: database.GetCollection("positions"),
		teams:     database.GetCollection("teams"),
	}
}

func (r *DirectoryRepo) FindUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Snapshot resolves a user together with their position and team into the
// immutable embed stored on feedback. A user without a position or team
// still resolves; the zero fields make the snapshot fail the affiliation
// check downstream, which is a validation error rather than a lookup error.
// Returns nil when the user does not exist.
func (r *DirectoryRepo) Snapshot(ctx context.Context, userID bson.ObjectID) (*models.UserSnapshot, error) {
	user, err := r.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	snapshot := &models.UserSnapshot{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}

	if !user.PositionID.IsZero() {
		var position models.Position
		err := r.positions.FindOne(ctx, bson.M{"_id": user.PositionID}).Decode(&position)
		if err != nil && err != mongo.ErrNoDocuments {
			return nil, err
		}
		if err == nil {
			snapshot.Position = models.PositionSnapshot{
				Name:  position.Name,
				Level: position.Level,
			}
		}
	}

	if !user.TeamID.IsZero() {
		var team models.Team
		err := r.teams.FindOne(ctx, bson.M{"_id": user.TeamID}).Decode(&team)
		if err != nil && err != mongo.ErrNoDocuments {
			return nil, err
		}
		if err == nil {
			snapshot.Team = models.TeamSnapshot{
				ID:           team.ID,
				DepartmentID: team.DepartmentID,
				Name:         team.Name,
			}
		}
	}

	return snapshot, nil
}
