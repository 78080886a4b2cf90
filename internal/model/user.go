package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account in the system. Credential and lifecycle fields
// are never serialized to JSON responses.
type User struct {
	ID                   bson.ObjectID `bson:"_id,omitempty"                    json:"id"`
	Name                 string        `bson:"name"                             json:"name"`
	Email                string        `bson:"email"                            json:"email"`
	Photo                string        `bson:"photo"                            json:"photo"`
	Role                 string        `bson:"role"                             json:"role"`
	PasswordHash         string        `bson:"password_hash"                    json:"-"`
	CreatedAt            time.Time     `bson:"created_at"                       json:"createdAt"`
	PasswordChangedAt    time.Time     `bson:"password_changed_at,omitempty"    json:"-"`
	PasswordResetDigest  string        `bson:"password_reset_digest,omitempty"  json:"-"`
	PasswordResetExpires time.Time     `bson:"password_reset_expires,omitempty" json:"-"`
	Active               bool          `bson:"active"                           json:"-"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issuance time. The stored change time is truncated to whole
// seconds so it compares on the same resolution as a JWT iat claim.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}

	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}
