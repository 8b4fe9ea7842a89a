package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	PositionID bson.ObjectID `bson:"positionId,omitempty" json:"positionId"`
	TeamID     bson.ObjectID `bson:"teamId,omitempty" json:"teamId"`
	Name       string        `bson:"name" json:"name"`
	Email      string        `bson:"email" json:"email"`
	Role       string        `bson:"role" json:"role"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// PositionSnapshot is the slice of a Position that matters for classifying
// feedback: the display name and the hierarchy level (1 = most junior).
type PositionSnapshot struct {
	Name  string `bson:"name" json:"name"`
	Level int    `bson:"level" json:"level"`
}

type TeamSnapshot struct {
	ID           bson.ObjectID `bson:"_id" json:"id"`
	DepartmentID bson.ObjectID `bson:"departmentId" json:"departmentId"`
	Name         string        `bson:"name" json:"name"`
}

// UserSnapshot is the denormalized copy of a user embedded on feedback
// records. It is captured once at creation time; later edits to the live
// user, position or team never rewrite it, so historical feedback keeps the
// classification it was created with.
type UserSnapshot struct {
	ID       bson.ObjectID    `bson:"_id" json:"id"`
	Name     string           `bson:"name" json:"name"`
	Email    string           `bson:"email" json:"email"`
	Position PositionSnapshot `bson:"position" json:"position"`
	Team     TeamSnapshot     `bson:"team" json:"team"`
}

// HasAffiliation reports whether the snapshot carries a resolved position
// level and team. Feedback creation requires both on rater and ratee.
func (s UserSnapshot) HasAffiliation() bool {
	return s.Position.Level >= 1 && !s.Team.ID.IsZero()
}
