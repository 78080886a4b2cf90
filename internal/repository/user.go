package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/flowtrack/flow-tracker-api/internal/model"
	"github.com/flowtrack/flow-tracker-api/internal/query"
)

// UserRepository defines the interface for user-related database operations.
// Every read path excludes soft-deleted users; there is no bypass.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// GetUserByResetDigest retrieves a user whose stored reset-token digest
	// matches and whose reset expiry is still in the future.
	GetUserByResetDigest(ctx context.Context, digest string) (*model.User, error)

	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)

	// UpdatePassword replaces the stored password hash, records the change
	// time and clears any outstanding reset token.
	UpdatePassword(ctx context.Context, id string, params UpdatePasswordParams) error

	SetResetToken(ctx context.Context, id, digest string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error

	// DeactivateUser soft-deletes a user; subsequent reads will not see it.
	DeactivateUser(ctx context.Context, id string) error

	ListUsers(ctx context.Context, features *query.Features) ([]*model.User, error)
}

// UpdateUserParams defines the optional profile fields for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	Name  *string
	Email *string
	Photo *string
}

// UpdatePasswordParams defines the parameters for a password change.
type UpdatePasswordParams struct {
	PasswordHash      string
	PasswordChangedAt time.Time
}

const userCollection = "users"

// activeFilter excludes soft-deleted users from read queries.
var activeFilter = bson.M{"$ne": false}

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates a new MongoDB repository for users.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "password_reset_digest", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	user.CreatedAt = time.Now()
	user.Active = true
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if user.Photo == "" {
		user.Photo = "default.jpeg"
	}

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongoRepository) GetUserByResetDigest(ctx context.Context, digest string) (*model.User, error) {
	filter := bson.M{
		"password_reset_digest":  digest,
		"password_reset_expires": bson.M{"$gt": time.Now()},
	}

	return r.findOne(ctx, filter)
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Email != nil {
		updateMap["email"] = *params.Email
	}
	if params.Photo != nil {
		updateMap["photo"] = *params.Photo
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no user fields to update")
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID, "active": activeFilter},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) UpdatePassword(
	ctx context.Context,
	id string,
	params UpdatePasswordParams,
) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"password_hash":       params.PasswordHash,
			"password_changed_at": params.PasswordChangedAt,
		},
		"$unset": bson.M{
			"password_reset_digest":  "",
			"password_reset_expires": "",
		},
	}

	result, err := r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID, "active": activeFilter},
		update,
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *userMongoRepository) SetResetToken(
	ctx context.Context,
	id, digest string,
	expiresAt time.Time,
) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"password_reset_digest":  digest,
			"password_reset_expires": expiresAt,
		},
	}

	_, err = r.db.Collection(userCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *userMongoRepository) ClearResetToken(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$unset": bson.M{
			"password_reset_digest":  "",
			"password_reset_expires": "",
		},
	}

	_, err = r.db.Collection(userCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *userMongoRepository) DeactivateUser(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"active": false}}

	_, err = r.db.Collection(userCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *userMongoRepository) ListUsers(
	ctx context.Context,
	features *query.Features,
) ([]*model.User, error) {
	filter := features.FilterDoc()
	filter["active"] = activeFilter

	cursor, err := r.db.Collection(userCollection).Find(ctx, filter, features.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	filter["active"] = activeFilter

	result := r.db.Collection(userCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}
