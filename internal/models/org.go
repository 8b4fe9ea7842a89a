package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Position, Team and Department are managed by the surrounding org-chart
// service. This backend only reads them to build feedback snapshots.

type Position struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ParentID  bson.ObjectID `bson:"parentId,omitempty" json:"parentId"`
	Name      string        `bson:"name" json:"name"`
	Level     int           `bson:"level" json:"level"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type Team struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	DepartmentID bson.ObjectID `bson:"departmentId,omitempty" json:"departmentId"`
	Name         string        `bson:"name" json:"name"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type Department struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	HeadUserID bson.ObjectID `bson:"headUserId,omitempty" json:"headUserId"`
	Name       string        `bson:"name" json:"name"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
}
