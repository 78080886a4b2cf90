package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/flowtrack/flow-tracker-api/internal/model"
)

// CategoryRepository defines the interface for category database operations.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	RenameCategory(ctx context.Context, id, newName string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) (*model.Category, error)

	// EnsureCategory creates the category if it does not exist yet. An
	// existing category is left untouched.
	EnsureCategory(ctx context.Context, name string, userID bson.ObjectID) error
}

const categoryCollection = "categories"

type categoryMongoRepository struct {
	db *mongo.Database
}

// NewCategoryMongoRepository creates a new MongoDB repository for categories.
func NewCategoryMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) CategoryRepository {
	collection := db.Collection(categoryCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create category indexes")
	}

	return &categoryMongoRepository{db: db}
}

func (r *categoryMongoRepository) CreateCategory(
	ctx context.Context,
	category *model.Category,
) (*model.Category, error) {
	result, err := r.db.Collection(categoryCollection).InsertOne(ctx, category)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		category.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return category, nil
}

func (r *categoryMongoRepository) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(categoryCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var category model.Category
	if err := result.Decode(&category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryMongoRepository) RenameCategory(
	ctx context.Context,
	id, newName string,
) (*model.Category, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(categoryCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"category": newName}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var category model.Category
	if err := result.Decode(&category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryMongoRepository) DeleteCategory(ctx context.Context, id string) (*model.Category, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(categoryCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var category model.Category
	if err := result.Decode(&category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryMongoRepository) EnsureCategory(
	ctx context.Context,
	name string,
	userID bson.ObjectID,
) error {
	_, err := r.db.Collection(categoryCollection).UpdateOne(
		ctx,
		bson.M{"category": name},
		bson.M{"$setOnInsert": bson.M{
			"category": name,
			"user_id":  userID,
		}},
		options.UpdateOne().SetUpsert(true),
	)

	return err
}
