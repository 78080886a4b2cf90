package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/flowtrack/flow-tracker-api/internal/model"
	"github.com/flowtrack/flow-tracker-api/internal/query"
	"github.com/flowtrack/flow-tracker-api/internal/repository"
)

// fakeCategoryRepo is an in-memory CategoryRepository with a unique index on
// the category name.
type fakeCategoryRepo struct {
	categories map[string]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*model.Category)}
}

func (r *fakeCategoryRepo) CreateCategory(_ context.Context, category *model.Category) (*model.Category, error) {
	for _, existing := range r.categories {
		if existing.Category == category.Category {
			return nil, duplicateKeyErr()
		}
	}

	category.ID = bson.NewObjectID()
	r.categories[category.ID.Hex()] = category

	return category, nil
}

func (r *fakeCategoryRepo) GetCategory(_ context.Context, id string) (*model.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	return category, nil
}

func (r *fakeCategoryRepo) RenameCategory(_ context.Context, id, newName string) (*model.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	category.Category = newName

	return category, nil
}

func (r *fakeCategoryRepo) DeleteCategory(_ context.Context, id string) (*model.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	delete(r.categories, id)

	return category, nil
}

func (r *fakeCategoryRepo) EnsureCategory(_ context.Context, name string, userID bson.ObjectID) error {
	for _, existing := range r.categories {
		if existing.Category == name {
			return nil
		}
	}

	category := &model.Category{ID: bson.NewObjectID(), Category: name, UserID: userID}
	r.categories[category.ID.Hex()] = category

	return nil
}

// fakeFlowRepo is an in-memory FlowRepository.
type fakeFlowRepo struct {
	flows []*model.Flow
}

func (r *fakeFlowRepo) CreateFlow(_ context.Context, flow *model.Flow) (*model.Flow, error) {
	flow.ID = bson.NewObjectID()
	if flow.Category == "" {
		flow.Category = model.DefaultCategory
	}
	r.flows = append(r.flows, flow)

	return flow, nil
}

func (r *fakeFlowRepo) ListFlows(_ context.Context, _ *query.Features) ([]*model.Flow, error) {
	return r.flows, nil
}

func (r *fakeFlowRepo) GetFlowStats(_ context.Context) ([]repository.FlowStats, error) {
	return nil, nil
}

func (r *fakeFlowRepo) RenameCategory(_ context.Context, oldName, newName string) (int64, error) {
	var modified int64
	for _, flow := range r.flows {
		if flow.Category == oldName {
			flow.Category = newName
			modified++
		}
	}

	return modified, nil
}

func (r *fakeFlowRepo) ReassignCategory(ctx context.Context, category, replacement string) (int64, error) {
	return r.RenameCategory(ctx, category, replacement)
}

func seedCategory(t *testing.T, repo *fakeCategoryRepo, name string) *model.Category {
	t.Helper()

	category, err := repo.CreateCategory(context.Background(), &model.Category{
		Category: name,
		UserID:   bson.NewObjectID(),
	})
	require.NoError(t, err)

	return category
}

func TestCreateCategory(t *testing.T) {
	categoryRepo := newFakeCategoryRepo()
	uc := NewCategoryUsecase(categoryRepo, &fakeFlowRepo{})

	created, err := uc.CreateCategory(context.Background(), "groceries", bson.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, "groceries", created.Category)
	assert.False(t, created.ID.IsZero())

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := uc.CreateCategory(context.Background(), "groceries", bson.NewObjectID())
		assert.ErrorIs(t, err, ErrCategoryAlreadyExists)
	})
}

func TestRenameCategory(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		uc := NewCategoryUsecase(newFakeCategoryRepo(), &fakeFlowRepo{})

		_, _, err := uc.RenameCategory(context.Background(), bson.NewObjectID().Hex(), "anything")
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("cascades to flow records", func(t *testing.T) {
		categoryRepo := newFakeCategoryRepo()
		flowRepo := &fakeFlowRepo{flows: []*model.Flow{
			{Category: "groceries"},
			{Category: "groceries"},
			{Category: "rent"},
		}}
		uc := NewCategoryUsecase(categoryRepo, flowRepo)

		category := seedCategory(t, categoryRepo, "groceries")

		renamed, retagged, err := uc.RenameCategory(context.Background(), category.ID.Hex(), "food")
		require.NoError(t, err)

		assert.Equal(t, "food", renamed.Category)
		assert.Equal(t, int64(2), retagged)
		assert.Equal(t, "food", flowRepo.flows[0].Category)
		assert.Equal(t, "food", flowRepo.flows[1].Category)
		assert.Equal(t, "rent", flowRepo.flows[2].Category)
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		uc := NewCategoryUsecase(newFakeCategoryRepo(), &fakeFlowRepo{})

		_, err := uc.DeleteCategory(context.Background(), bson.NewObjectID().Hex())
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("re-tags flows to the default category before deleting", func(t *testing.T) {
		categoryRepo := newFakeCategoryRepo()
		flowRepo := &fakeFlowRepo{flows: []*model.Flow{
			{Category: "groceries"},
			{Category: "rent"},
		}}
		uc := NewCategoryUsecase(categoryRepo, flowRepo)

		category := seedCategory(t, categoryRepo, "groceries")

		retagged, err := uc.DeleteCategory(context.Background(), category.ID.Hex())
		require.NoError(t, err)

		assert.Equal(t, int64(1), retagged)
		assert.Equal(t, model.DefaultCategory, flowRepo.flows[0].Category)
		assert.Empty(t, categoryRepo.categories)
	})
}

func TestCreateFlow(t *testing.T) {
	categoryRepo := newFakeCategoryRepo()
	flowRepo := &fakeFlowRepo{}
	uc := NewFlowUsecase(flowRepo, categoryRepo)

	userID := bson.NewObjectID()

	flow, err := uc.CreateFlow(context.Background(), CreateFlowParams{
		Category:    "groceries",
		Chart:       model.ChartExpense,
		Description: "weekly shop",
		Amount:      42.5,
		Status:      model.StatusCompleted,
		UserID:      userID,
	})
	require.NoError(t, err)

	t.Run("category is created on the fly", func(t *testing.T) {
		assert.Len(t, categoryRepo.categories, 1)
	})

	t.Run("flow carries the given fields", func(t *testing.T) {
		assert.Equal(t, "groceries", flow.Category)
		assert.Equal(t, model.ChartExpense, flow.Chart)
		assert.Equal(t, userID, flow.UserID)
	})

	t.Run("existing category is reused", func(t *testing.T) {
		_, err := uc.CreateFlow(context.Background(), CreateFlowParams{
			Category:    "groceries",
			Chart:       model.ChartIncome,
			Description: "refund",
			Amount:      5,
			UserID:      userID,
		})
		require.NoError(t, err)
		assert.Len(t, categoryRepo.categories, 1)
	})
}

func TestListFlows(t *testing.T) {
	t.Run("empty result is an error", func(t *testing.T) {
		uc := NewFlowUsecase(&fakeFlowRepo{}, newFakeCategoryRepo())

		_, err := uc.ListFlows(context.Background(), query.New(nil))
		assert.ErrorIs(t, err, ErrNoFlowsFound)
	})

	t.Run("non-empty result passes through", func(t *testing.T) {
		flowRepo := &fakeFlowRepo{flows: []*model.Flow{{Category: "rent"}}}
		uc := NewFlowUsecase(flowRepo, newFakeCategoryRepo())

		flows, err := uc.ListFlows(context.Background(), query.New(nil))
		require.NoError(t, err)
		assert.Len(t, flows, 1)
	})
}
