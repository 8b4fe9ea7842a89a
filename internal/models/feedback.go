package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FeedbackType classifies the relationship between rater and ratee at the
// moment the feedback was created.
type FeedbackType string

const (
	TypeSeniorToJunior FeedbackType = "senior_to_junior"
	TypeJuniorToSenior FeedbackType = "junior_to_senior"
	TypePeerToPeer     FeedbackType = "peer_to_peer"
	TypeCrossTeam      FeedbackType = "cross_team"
)

// FeedbackTypes lists every category in a fixed order. Stats reports use it
// so empty categories still show up with zeroed values.
var FeedbackTypes = []FeedbackType{
	TypeSeniorToJunior,
	TypeJuniorToSenior,
	TypePeerToPeer,
	TypeCrossTeam,
}

func (t FeedbackType) Valid() bool {
	switch t {
	case TypeSeniorToJunior, TypeJuniorToSenior, TypePeerToPeer, TypeCrossTeam:
		return true
	}
	return false
}

type FeedbackStatus string

const (
	StatusDraft     FeedbackStatus = "draft"
	StatusSubmitted FeedbackStatus = "submitted"
	StatusReviewed  FeedbackStatus = "reviewed"
	StatusApproved  FeedbackStatus = "approved"
	StatusRejected  FeedbackStatus = "rejected"
)

func (s FeedbackStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusReviewed, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type ObjectiveResponse struct {
	QuestionID bson.ObjectID `bson:"questionId" json:"questionId"`
	Answer     string        `bson:"answer,omitempty" json:"answer,omitempty"`
	Score      int           `bson:"score" json:"score"`
}

type SubjectiveResponse struct {
	QuestionID bson.ObjectID `bson:"questionId" json:"questionId"`
	Answer     string        `bson:"answer" json:"answer"`
}

type Responses struct {
	Objective  []ObjectiveResponse `bson:"objective" json:"objective"`
	Subjective SubjectiveResponse  `bson:"subjective" json:"subjective"`
}

// RawScore is the unweighted sum of the objective answer scores.
func (r Responses) RawScore() float64 {
	var sum float64
	for _, obj := range r.Objective {
		sum += float64(obj.Score)
	}
	return sum
}

// Feedback is one weighted peer-feedback submission. FromUser, ToUser,
// FeedbackType and Weight are fixed at creation (Weight can only change via
// the admin override); Status only moves forward through the transition
// table in the feedback package.
type Feedback struct {
	ID              bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	FromUser        UserSnapshot   `bson:"fromUser" json:"fromUser"`
	ToUser          UserSnapshot   `bson:"toUser" json:"toUser"`
	QuestionnaireID bson.ObjectID  `bson:"questionnaireId" json:"questionnaireId"`
	FeedbackType    FeedbackType   `bson:"feedbackType" json:"feedbackType"`
	Responses       Responses      `bson:"responses" json:"responses"`
	Status          FeedbackStatus `bson:"status" json:"status"`
	Weight          float64        `bson:"weight" json:"weight"`
	ReviewDate      *time.Time     `bson:"reviewDate,omitempty" json:"reviewDate,omitempty"`
	ReviewedBy      *UserSnapshot  `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// WeightedScore is the record's contribution to aggregate stats.
func (f Feedback) WeightedScore() float64 {
	return f.Responses.RawScore() * f.Weight
}
