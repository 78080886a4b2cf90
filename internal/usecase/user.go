package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/flowtrack/flow-tracker-api/internal/model"
	"github.com/flowtrack/flow-tracker-api/internal/query"
	"github.com/flowtrack/flow-tracker-api/internal/repository"
)

// UserUsecase defines profile-related use cases for the authenticated user.
type UserUsecase interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, features *query.Features) ([]*model.User, error)

	// UpdateProfile updates the user's own profile fields. Credential fields
	// are not reachable through this flow.
	UpdateProfile(ctx context.Context, id string, params repository.UpdateUserParams) (*model.User, error)

	// Deactivate soft-deletes the user's account.
	Deactivate(ctx context.Context, id string) error
}

type userUsecase struct {
	userRepo repository.UserRepository
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *userUsecase) ListUsers(ctx context.Context, features *query.Features) ([]*model.User, error) {
	return u.userRepo.ListUsers(ctx, features)
}

func (u *userUsecase) UpdateProfile(
	ctx context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	if params.Email != nil {
		normalized := normalizeEmail(*params.Email)
		params.Email = &normalized
	}

	user, err := u.userRepo.UpdateUser(ctx, id, params)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *userUsecase) Deactivate(ctx context.Context, id string) error {
	return u.userRepo.DeactivateUser(ctx, id)
}
