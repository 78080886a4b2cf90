package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/flowtrack/flow-tracker-api/internal/auth"
	"github.com/flowtrack/flow-tracker-api/internal/config"
	"github.com/flowtrack/flow-tracker-api/internal/mailer"
	"github.com/flowtrack/flow-tracker-api/internal/model"
	"github.com/flowtrack/flow-tracker-api/internal/repository"
	"github.com/flowtrack/flow-tracker-api/internal/security"
)

// AuthUsecase defines the authentication and credential lifecycle flows.
type AuthUsecase interface {
	Signup(ctx context.Context, params SignupParams) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)

	// ResolveSession loads the user behind verified session claims and
	// rejects tokens issued before the user's last password change.
	ResolveSession(ctx context.Context, claims *auth.SessionClaims) (*model.User, error)

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (*model.User, error)
}

// SignupParams defines the parameters for user signup. Password confirmation
// is validated and discarded before this point and never reaches the store.
type SignupParams struct {
	Name     string
	Email    string
	Password string
}

var (
	ErrEmailAlreadyUsed     = errors.New("email is already in use")
	ErrIncorrectCredentials = errors.New("incorrect email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrStaleToken           = errors.New("user recently changed password")
	ErrResetTokenInvalid    = errors.New("token is invalid or has expired")
	ErrCurrentPasswordWrong = errors.New("current password is wrong")
	ErrEmailDelivery        = errors.New("there was an error sending the email")
)

// Password changes are back-dated by one second so a token issued in the same
// second as the change still fails the freshness check.
const passwordChangedBackdate = time.Second

type authUsecase struct {
	userRepo repository.UserRepository
	mailer   mailer.Sender
	logger   *zerolog.Logger
	cfg      *config.Config
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	mailSender mailer.Sender,
	logger *zerolog.Logger,
	cfg *config.Config,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		mailer:   mailSender,
		logger:   logger,
		cfg:      cfg,
	}
}

func (u *authUsecase) Signup(ctx context.Context, params SignupParams) (*model.User, error) {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Name:         params.Name,
		Email:        normalizeEmail(params.Email),
		PasswordHash: passwordHash,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyUsed
		}

		return nil, err
	}

	// Welcome mail is best effort; signup does not roll back on failure.
	accountURL := fmt.Sprintf("%s/me", u.cfg.BaseURL)
	if err := u.mailer.SendWelcome(user.Email, user.Name, accountURL); err != nil {
		u.logger.Warn().Err(err).Str("email", user.Email).Msg("failed to send welcome email")
	}

	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Same error as a password mismatch to avoid user enumeration.
			return nil, ErrIncorrectCredentials
		}

		return nil, err
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrIncorrectCredentials
	}

	return user, nil
}

func (u *authUsecase) ResolveSession(ctx context.Context, claims *auth.SessionClaims) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	if user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, ErrStaleToken
	}

	return user, nil
}

func (u *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	plaintext, digest, err := security.GenerateResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(u.cfg.PasswordResetExpiresIn)
	if err := u.userRepo.SetResetToken(ctx, user.ID.Hex(), digest, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", u.cfg.BaseURL, plaintext)
	if err := u.mailer.SendPasswordReset(user.Email, resetURL, u.cfg.PasswordResetExpiresIn); err != nil {
		// An undelivered token must not remain redeemable.
		if clearErr := u.userRepo.ClearResetToken(ctx, user.ID.Hex()); clearErr != nil {
			u.logger.Error().Err(clearErr).Str("user_id", user.ID.Hex()).
				Msg("failed to clear reset token after send failure")
		}

		u.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send password reset email")

		return ErrEmailDelivery
	}

	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, token, newPassword string) (*model.User, error) {
	user, err := u.userRepo.GetUserByResetDigest(ctx, security.HashResetToken(token))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrResetTokenInvalid
		}

		return nil, err
	}

	if err := u.changePassword(ctx, user, newPassword); err != nil {
		return nil, err
	}

	return user, nil
}

func (u *authUsecase) UpdatePassword(
	ctx context.Context,
	userID, currentPassword, newPassword string,
) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	if !security.VerifyPassword(currentPassword, user.PasswordHash) {
		return nil, ErrCurrentPasswordWrong
	}

	if err := u.changePassword(ctx, user, newPassword); err != nil {
		return nil, err
	}

	return user, nil
}

// changePassword hashes and stores the new password, back-dates the change
// time and clears any outstanding reset token.
func (u *authUsecase) changePassword(ctx context.Context, user *model.User, newPassword string) error {
	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	changedAt := time.Now().Add(-passwordChangedBackdate)
	err = u.userRepo.UpdatePassword(ctx, user.ID.Hex(), repository.UpdatePasswordParams{
		PasswordHash:      passwordHash,
		PasswordChangedAt: changedAt,
	})
	if err != nil {
		return err
	}

	user.PasswordHash = passwordHash
	user.PasswordChangedAt = changedAt
	user.PasswordResetDigest = ""
	user.PasswordResetExpires = time.Time{}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
