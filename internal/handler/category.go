package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flowtrack/flow-tracker-api/internal/apperror"
	"github.com/flowtrack/flow-tracker-api/internal/payload"
	"github.com/flowtrack/flow-tracker-api/internal/usecase"
)

// CategoryHandler serves the category endpoints under /finances.
type CategoryHandler struct {
	categoryUsecase usecase.CategoryUsecase
	validator       *payload.Validator
	responder       *Responder
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(
	categoryUsecase usecase.CategoryUsecase,
	validator *payload.Validator,
	responder *Responder,
) *CategoryHandler {
	return &CategoryHandler{
		categoryUsecase: categoryUsecase,
		validator:       validator,
		responder:       responder,
	}
}

// CreateCategory handles POST /finances/{id}.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) error {
	current, ok := CurrentUser(r)
	if !ok {
		return apperror.Unauthorized("You are not logged in! Please log in to get access.")
	}

	var req payload.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	category, err := h.categoryUsecase.CreateCategory(r.Context(), req.Category, current.ID)
	if err != nil {
		if errors.Is(err, usecase.ErrCategoryAlreadyExists) {
			return apperror.BadRequest("Category already exists")
		}

		return err
	}

	h.responder.Success(w, http.StatusCreated, map[string]any{"data": category})

	return nil
}

// RenameCategory handles PUT /finances/{id}. The rename cascades to every
// flow record tagged with the old name.
func (h *CategoryHandler) RenameCategory(w http.ResponseWriter, r *http.Request) error {
	var req payload.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	category, retagged, err := h.categoryUsecase.RenameCategory(r.Context(), chi.URLParam(r, "id"), req.Category)
	if err != nil {
		if errors.Is(err, usecase.ErrCategoryNotFound) {
			return apperror.NotFound("No document found with that ID")
		}

		return err
	}

	h.responder.JSON(w, http.StatusCreated, envelope{
		Status: statusSuccess,
		Data: map[string]any{
			"category":     category,
			"updatedFlows": retagged,
		},
	})

	return nil
}

// DeleteCategory handles DELETE /finances/{id}. Dependent flow records are
// re-tagged to the default category, then the document is removed.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) error {
	retagged, err := h.categoryUsecase.DeleteCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrCategoryNotFound) {
			return apperror.NotFound("No document found with that ID")
		}

		return err
	}

	h.responder.JSON(w, http.StatusCreated, envelope{
		Status: statusSuccess,
		Data:   map[string]any{"updatedFlows": retagged},
	})

	return nil
}
