package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/flowtrack/flow-tracker-api/internal/model"
	"github.com/flowtrack/flow-tracker-api/internal/query"
	"github.com/flowtrack/flow-tracker-api/internal/repository"
)

// FlowUsecase defines flow-record use cases.
type FlowUsecase interface {
	// CreateFlow records a new flow entry, creating its category on the fly
	// when it does not exist yet.
	CreateFlow(ctx context.Context, params CreateFlowParams) (*model.Flow, error)

	ListFlows(ctx context.Context, features *query.Features) ([]*model.Flow, error)
	GetFlowStats(ctx context.Context) ([]repository.FlowStats, error)
}

// CreateFlowParams defines the parameters for recording a flow entry.
type CreateFlowParams struct {
	Category    string
	Chart       string
	Description string
	Amount      float64
	Status      string
	UserID      bson.ObjectID
}

// ErrNoFlowsFound is returned when a shaped list query matches nothing.
var ErrNoFlowsFound = errors.New("no documents found with that query")

type flowUsecase struct {
	flowRepo     repository.FlowRepository
	categoryRepo repository.CategoryRepository
}

// NewFlowUsecase creates a new instance of FlowUsecase.
func NewFlowUsecase(
	flowRepo repository.FlowRepository,
	categoryRepo repository.CategoryRepository,
) FlowUsecase {
	return &flowUsecase{
		flowRepo:     flowRepo,
		categoryRepo: categoryRepo,
	}
}

func (u *flowUsecase) CreateFlow(ctx context.Context, params CreateFlowParams) (*model.Flow, error) {
	if err := u.categoryRepo.EnsureCategory(ctx, params.Category, params.UserID); err != nil {
		return nil, err
	}

	return u.flowRepo.CreateFlow(ctx, &model.Flow{
		Category:    params.Category,
		Chart:       params.Chart,
		Description: params.Description,
		Amount:      params.Amount,
		Status:      params.Status,
		UserID:      params.UserID,
	})
}

func (u *flowUsecase) ListFlows(ctx context.Context, features *query.Features) ([]*model.Flow, error) {
	flows, err := u.flowRepo.ListFlows(ctx, features)
	if err != nil {
		return nil, err
	}

	if len(flows) == 0 {
		return nil, ErrNoFlowsFound
	}

	return flows, nil
}

func (u *flowUsecase) GetFlowStats(ctx context.Context) ([]repository.FlowStats, error) {
	return u.flowRepo.GetFlowStats(ctx)
}
