package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/flowtrack/flow-tracker-api/internal/apperror"
	"github.com/flowtrack/flow-tracker-api/internal/config"
	"github.com/flowtrack/flow-tracker-api/internal/payload"
	"github.com/flowtrack/flow-tracker-api/internal/query"
	"github.com/flowtrack/flow-tracker-api/internal/repository"
	"github.com/flowtrack/flow-tracker-api/internal/usecase"
)

// Uploaded photos are resized to a square of this size.
const photoSize = 500

// UserHandler serves the user profile endpoints.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *payload.Validator
	responder   *Responder
	cfg         *config.Config
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(
	userUsecase usecase.UserUsecase,
	validator *payload.Validator,
	responder *Responder,
	cfg *config.Config,
) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
		responder:   responder,
		cfg:         cfg,
	}
}

// ListUsers handles GET /users with filter/sort/fields query shaping.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	features := query.New(r.URL.Query()).Filter().Sort().LimitFields()

	users, err := h.userUsecase.ListUsers(r.Context(), features)
	if err != nil {
		return err
	}

	h.responder.JSON(w, http.StatusOK, envelope{
		Status:  statusSuccess,
		Results: intPtr(len(users)),
		Data:    map[string]any{"data": users},
	})

	return nil
}

// GetMe handles GET /users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) error {
	current, ok := CurrentUser(r)
	if !ok {
		return apperror.Unauthorized("You are not logged in! Please log in to get access.")
	}

	user, err := h.userUsecase.GetUser(r.Context(), current.ID.Hex())
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			return apperror.NotFound("No document found with that ID")
		}

		return err
	}

	h.responder.Success(w, http.StatusOK, map[string]any{"data": user})

	return nil
}

// UpdateMe handles PATCH /users/updateMe: profile fields plus an optional
// photo upload. Password changes are rejected here.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) error {
	current, ok := CurrentUser(r)
	if !ok {
		return apperror.Unauthorized("You are not logged in! Please log in to get access.")
	}

	req, photo, err := h.parseUpdateMe(r)
	if err != nil {
		return err
	}

	if req.HasPasswordFields() {
		return apperror.BadRequest("This route is not for password updates. Please use /updateMyPassword.")
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	params := repository.UpdateUserParams{}
	if req.Name != "" {
		params.Name = &req.Name
	}
	if req.Email != "" {
		params.Email = &req.Email
	}
	if photo != "" {
		params.Photo = &photo
	}

	// Nothing to change: answer with the current state instead of issuing an
	// empty update.
	if params == (repository.UpdateUserParams{}) {
		user, err := h.userUsecase.GetUser(r.Context(), current.ID.Hex())
		if err != nil {
			if errors.Is(err, usecase.ErrUserNotFound) {
				return apperror.NotFound("No document found with that ID")
			}

			return err
		}

		h.responder.Success(w, http.StatusOK, map[string]any{"user": user})

		return nil
	}

	user, err := h.userUsecase.UpdateProfile(r.Context(), current.ID.Hex(), params)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			return apperror.NotFound("No document found with that ID")
		}

		return err
	}

	h.responder.Success(w, http.StatusOK, map[string]any{"user": user})

	return nil
}

// DeleteMe handles DELETE /users/deleteMe by soft-deleting the account.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) error {
	current, ok := CurrentUser(r)
	if !ok {
		return apperror.Unauthorized("You are not logged in! Please log in to get access.")
	}

	if err := h.userUsecase.Deactivate(r.Context(), current.ID.Hex()); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// parseUpdateMe reads the profile update from either a multipart form with an
// optional photo or a plain JSON body. It returns the stored photo filename
// when an upload was processed.
func (h *UserHandler) parseUpdateMe(r *http.Request) (payload.UpdateMeRequest, string, error) {
	var req payload.UpdateMeRequest

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := decodeJSON(r, &req); err != nil {
			return req, "", err
		}

		return req, "", nil
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return req, "", apperror.BadRequest("invalid multipart form")
	}

	req.Name = r.FormValue("name")
	req.Email = r.FormValue("email")
	req.Password = r.FormValue("password")
	req.PasswordConfirm = r.FormValue("passwordConfirm")

	file, _, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, "", nil
		}

		return req, "", apperror.BadRequest("invalid photo upload")
	}
	defer file.Close()

	current, _ := CurrentUser(r)

	img, err := imaging.Decode(file)
	if err != nil {
		return req, "", apperror.BadRequest("uploaded file is not an image")
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return req, "", err
	}

	filename := fmt.Sprintf("user-%s-%s.jpeg", current.ID.Hex(), uuid.NewString())
	resized := imaging.Fill(img, photoSize, photoSize, imaging.Center, imaging.Lanczos)

	path := filepath.Join(h.cfg.UploadDir, filename)
	if err := imaging.Save(resized, path, imaging.JPEGQuality(90)); err != nil {
		return req, "", err
	}

	return req, filename, nil
}
