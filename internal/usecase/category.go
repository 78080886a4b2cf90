package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/flowtrack/flow-tracker-api/internal/model"
	"github.com/flowtrack/flow-tracker-api/internal/repository"
)

// CategoryUsecase defines category management use cases. Rename and delete
// cascade to dependent flow records as a second, separate write; a crash in
// between leaves recoverable inconsistency, matching the persistence model's
// per-document atomicity.
type CategoryUsecase interface {
	CreateCategory(ctx context.Context, name string, userID bson.ObjectID) (*model.Category, error)

	// RenameCategory renames the category and re-tags its flow records.
	// It returns the renamed category and the number of re-tagged records.
	RenameCategory(ctx context.Context, id, newName string) (*model.Category, int64, error)

	// DeleteCategory re-tags dependent flow records to the default category,
	// then removes the category document. Returns the number of re-tagged
	// records.
	DeleteCategory(ctx context.Context, id string) (int64, error)
}

var (
	ErrCategoryNotFound      = errors.New("no category found with that ID")
	ErrCategoryAlreadyExists = errors.New("category already exists")
)

type categoryUsecase struct {
	categoryRepo repository.CategoryRepository
	flowRepo     repository.FlowRepository
}

// NewCategoryUsecase creates a new instance of CategoryUsecase.
func NewCategoryUsecase(
	categoryRepo repository.CategoryRepository,
	flowRepo repository.FlowRepository,
) CategoryUsecase {
	return &categoryUsecase{
		categoryRepo: categoryRepo,
		flowRepo:     flowRepo,
	}
}

func (u *categoryUsecase) CreateCategory(
	ctx context.Context,
	name string,
	userID bson.ObjectID,
) (*model.Category, error) {
	category, err := u.categoryRepo.CreateCategory(ctx, &model.Category{
		Category: name,
		UserID:   userID,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrCategoryAlreadyExists
		}

		return nil, err
	}

	return category, nil
}

func (u *categoryUsecase) RenameCategory(
	ctx context.Context,
	id, newName string,
) (*model.Category, int64, error) {
	category, err := u.categoryRepo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, 0, ErrCategoryNotFound
		}

		return nil, 0, err
	}

	oldName := category.Category

	renamed, err := u.categoryRepo.RenameCategory(ctx, id, newName)
	if err != nil {
		return nil, 0, err
	}

	retagged, err := u.flowRepo.RenameCategory(ctx, oldName, newName)
	if err != nil {
		return nil, 0, err
	}

	return renamed, retagged, nil
}

func (u *categoryUsecase) DeleteCategory(ctx context.Context, id string) (int64, error) {
	category, err := u.categoryRepo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrCategoryNotFound
		}

		return 0, err
	}

	retagged, err := u.flowRepo.ReassignCategory(ctx, category.Category, model.DefaultCategory)
	if err != nil {
		return 0, err
	}

	if _, err := u.categoryRepo.DeleteCategory(ctx, id); err != nil {
		return 0, err
	}

	return retagged, nil
}
