package model

import "go.mongodb.org/mongo-driver/v2/bson"

// Category is a user-defined label grouping flow records. Names are unique
// across the collection.
type Category struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Category string        `bson:"category"      json:"category"`
	UserID   bson.ObjectID `bson:"user_id"       json:"user"`
}
