package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Weights maps each feedback category to its multiplier. Fields are pointers
// so an absent weight (falls back to 1) can be told apart from an explicit 0.
type Weights struct {
	BySenior       *float64 `bson:"bySenior,omitempty" json:"bySenior,omitempty"`
	ByJunior       *float64 `bson:"byJunior,omitempty" json:"byJunior,omitempty"`
	ByPeer         *float64 `bson:"byPeer,omitempty" json:"byPeer,omitempty"`
	ByCollaborator *float64 `bson:"byCollaborator,omitempty" json:"byCollaborator,omitempty"`
}

// Config is the versioned weight table. Multiple configs accumulate over
// time; the one with the newest createdAt (ties broken by highest version)
// is authoritative for new feedback. Existing feedback keeps the weight it
// was priced with.
type Config struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	TimeInterval int           `bson:"timeInterval" json:"timeInterval"`
	Version      string        `bson:"version" json:"version"`
	Weights      Weights       `bson:"weights" json:"weights"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}
