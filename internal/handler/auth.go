package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flowtrack/flow-tracker-api/internal/apperror"
	"github.com/flowtrack/flow-tracker-api/internal/auth"
	"github.com/flowtrack/flow-tracker-api/internal/config"
	"github.com/flowtrack/flow-tracker-api/internal/model"
	"github.com/flowtrack/flow-tracker-api/internal/payload"
	"github.com/flowtrack/flow-tracker-api/internal/usecase"
)

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	jwtAuth     *auth.JWTAuthenticator
	validator   *payload.Validator
	responder   *Responder
	cfg         *config.Config
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	jwtAuth *auth.JWTAuthenticator,
	validator *payload.Validator,
	responder *Responder,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		jwtAuth:     jwtAuth,
		validator:   validator,
		responder:   responder,
		cfg:         cfg,
	}
}

// Signup handles POST /users/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) error {
	var req payload.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	user, err := h.authUsecase.Signup(r.Context(), usecase.SignupParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyUsed) {
			return apperror.BadRequest("Email address is already in use")
		}

		return err
	}

	return h.sendToken(w, user, http.StatusCreated)
}

// Login handles POST /users/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var req payload.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return apperror.BadRequest("Please provide email and password!")
	}

	user, err := h.authUsecase.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrIncorrectCredentials) {
			return apperror.Unauthorized("Incorrect email or password")
		}

		return err
	}

	return h.sendToken(w, user, http.StatusOK)
}

// Logout handles GET /users/logout by overwriting the session cookie with an
// empty value that expires ten seconds later.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Path:     "/",
	})

	h.responder.JSON(w, http.StatusOK, envelope{Status: statusSuccess})

	return nil
}

// ForgotPassword handles POST /users/forgotPassword.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) error {
	var req payload.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	if err := h.authUsecase.ForgotPassword(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			return apperror.NotFound("There is no user with email address.")
		case errors.Is(err, usecase.ErrEmailDelivery):
			return apperror.Internal("There was an error sending the email. Try again later!")
		default:
			return err
		}
	}

	h.responder.JSON(w, http.StatusOK, envelope{
		Status:  statusSuccess,
		Message: "Token sent to email!",
	})

	return nil
}

// ResetPassword handles PATCH /users/resetPassword/{token}.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) error {
	var req payload.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	user, err := h.authUsecase.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrResetTokenInvalid) {
			return apperror.BadRequest("Token is invalid or has expired")
		}

		return err
	}

	return h.sendToken(w, user, http.StatusOK)
}

// UpdatePassword handles PATCH /users/updateMyPassword. It requires an
// authenticated user and re-issues a token so the caller is not logged out by
// their own password change.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) error {
	current, ok := CurrentUser(r)
	if !ok {
		return apperror.Unauthorized("You are not logged in! Please log in to get access.")
	}

	var req payload.UpdatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	user, err := h.authUsecase.UpdatePassword(r.Context(), current.ID.Hex(), req.PasswordCurrent, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			return apperror.NotFound("User not found")
		case errors.Is(err, usecase.ErrCurrentPasswordWrong):
			return apperror.Unauthorized("Your current password is wrong.")
		default:
			return err
		}
	}

	return h.sendToken(w, user, http.StatusOK)
}

// sendToken issues a session token for the user, sets the session cookie and
// writes the token plus the sanitized user.
func (h *AuthHandler) sendToken(w http.ResponseWriter, user *model.User, code int) error {
	token, err := h.jwtAuth.Sign(user.ID.Hex())
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.cfg.JWTCookieExpiresIn),
		HttpOnly: true,
		Secure:   !h.cfg.IsDevelopment(),
		Path:     "/",
	})

	// Credential fields carry json:"-", but they are blanked anyway so a
	// copied struct can never leak them.
	user.PasswordHash = ""
	user.PasswordResetDigest = ""

	h.responder.JSON(w, code, envelope{
		Status: statusSuccess,
		Token:  token,
		Data:   map[string]any{"user": user},
	})

	return nil
}
