package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	QuestionTypeObjective  = "objective"
	QuestionTypeSubjective = "subjective"
)

// A questionnaire always carries this many questions; the counts are fixed
// at creation and never altered by feedback responses.
const (
	ObjectiveQuestionCount  = 5
	SubjectiveQuestionCount = 1
)

type Question struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Question string        `bson:"question" json:"question"`
	Type     string        `bson:"type" json:"type"`
	Options  []string      `bson:"options,omitempty" json:"options,omitempty"`
}

type Questions struct {
	Objective  []Question `bson:"objective" json:"objective"`
	Subjective []Question `bson:"subjective" json:"subjective"`
}

type Questionnaire struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	DepartmentID bson.ObjectID `bson:"departmentId" json:"departmentId"`
	Name         string        `bson:"name" json:"name"`
	Questions    Questions     `bson:"questions" json:"questions"`
	IsActive     bool          `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}
