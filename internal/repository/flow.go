package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/flowtrack/flow-tracker-api/internal/model"
	"github.com/flowtrack/flow-tracker-api/internal/query"
)

// FlowRepository defines the interface for flow-record database operations.
type FlowRepository interface {
	CreateFlow(ctx context.Context, flow *model.Flow) (*model.Flow, error)
	ListFlows(ctx context.Context, features *query.Features) ([]*model.Flow, error)

	// GetFlowStats aggregates min/max amounts per category and chart kind.
	GetFlowStats(ctx context.Context) ([]FlowStats, error)

	// RenameCategory re-tags every flow record carrying oldName to newName
	// and returns the number of modified records.
	RenameCategory(ctx context.Context, oldName, newName string) (int64, error)

	// ReassignCategory re-tags every flow record carrying the category to the
	// replacement and returns the number of modified records.
	ReassignCategory(ctx context.Context, category, replacement string) (int64, error)
}

// FlowStats is one row of the per-category, per-chart amount aggregation.
type FlowStats struct {
	Group     FlowStatsGroup `bson:"_id"        json:"group"`
	MaxAmount float64        `bson:"max_amount" json:"maxAmount"`
	MinAmount float64        `bson:"min_amount" json:"minAmount"`
}

// FlowStatsGroup is the grouping key of a FlowStats row.
type FlowStatsGroup struct {
	Category string `bson:"category" json:"category"`
	Chart    string `bson:"chart"    json:"chart"`
}

const flowCollection = "flows"

type flowMongoRepository struct {
	db *mongo.Database
}

// NewFlowMongoRepository creates a new MongoDB repository for flow records.
func NewFlowMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) FlowRepository {
	collection := db.Collection(flowCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "amount", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create flow indexes")
	}

	return &flowMongoRepository{db: db}
}

func (r *flowMongoRepository) CreateFlow(ctx context.Context, flow *model.Flow) (*model.Flow, error) {
	flow.CreatedAt = time.Now()
	if flow.Category == "" {
		flow.Category = model.DefaultCategory
	}

	result, err := r.db.Collection(flowCollection).InsertOne(ctx, flow)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		flow.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return flow, nil
}

func (r *flowMongoRepository) ListFlows(
	ctx context.Context,
	features *query.Features,
) ([]*model.Flow, error) {
	cursor, err := r.db.Collection(flowCollection).Find(ctx, features.FilterDoc(), features.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flows []*model.Flow
	for cursor.Next(ctx) {
		var flow model.Flow
		if err := cursor.Decode(&flow); err != nil {
			return nil, err
		}
		flows = append(flows, &flow)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return flows, nil
}

func (r *flowMongoRepository) GetFlowStats(ctx context.Context) ([]FlowStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"category": "$category",
				"chart":    "$chart",
			},
			"max_amount": bson.M{"$max": "$amount"},
			"min_amount": bson.M{"$min": "$amount"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id.chart": 1}}},
	}

	cursor, err := r.db.Collection(flowCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []FlowStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *flowMongoRepository) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	result, err := r.db.Collection(flowCollection).UpdateMany(
		ctx,
		bson.M{"category": oldName},
		bson.M{"$set": bson.M{"category": newName}},
	)
	if err != nil {
		return 0, err
	}

	return result.ModifiedCount, nil
}

func (r *flowMongoRepository) ReassignCategory(
	ctx context.Context,
	category, replacement string,
) (int64, error) {
	return r.RenameCategory(ctx, category, replacement)
}
