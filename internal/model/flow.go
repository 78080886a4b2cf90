package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Flow chart kinds.
const (
	ChartIncome  = "income"
	ChartExpense = "expense"
)

// Flow statuses, only meaningful for expense records.
const (
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
)

// DefaultCategory is the category flow records fall back to when their
// category is deleted.
const DefaultCategory = "default"

// Flow represents a single income or expense ledger entry owned by a user.
type Flow struct {
	ID          bson.ObjectID `bson:"_id,omitempty"    json:"id"`
	Category    string        `bson:"category"         json:"category"`
	Chart       string        `bson:"chart"            json:"chart"`
	Description string        `bson:"description"      json:"description"`
	Amount      float64       `bson:"amount"           json:"amount"`
	Status      string        `bson:"status,omitempty" json:"status,omitempty"`
	CreatedAt   time.Time     `bson:"created_at"       json:"createdAt"`
	UserID      bson.ObjectID `bson:"user_id"          json:"user"`
}
