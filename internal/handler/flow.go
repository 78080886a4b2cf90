package handler

import (
	"errors"
	"net/http"

	"github.com/flowtrack/flow-tracker-api/internal/apperror"
	"github.com/flowtrack/flow-tracker-api/internal/model"
	"github.com/flowtrack/flow-tracker-api/internal/payload"
	"github.com/flowtrack/flow-tracker-api/internal/query"
	"github.com/flowtrack/flow-tracker-api/internal/usecase"
)

// FlowHandler serves the flow-record endpoints.
type FlowHandler struct {
	flowUsecase usecase.FlowUsecase
	validator   *payload.Validator
	responder   *Responder
}

// NewFlowHandler creates a FlowHandler.
func NewFlowHandler(
	flowUsecase usecase.FlowUsecase,
	validator *payload.Validator,
	responder *Responder,
) *FlowHandler {
	return &FlowHandler{
		flowUsecase: flowUsecase,
		validator:   validator,
		responder:   responder,
	}
}

// CreateFlow handles POST /flow/{id}.
func (h *FlowHandler) CreateFlow(w http.ResponseWriter, r *http.Request) error {
	current, ok := CurrentUser(r)
	if !ok {
		return apperror.Unauthorized("You are not logged in! Please log in to get access.")
	}

	var req payload.CreateFlowRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	category := req.Category
	if category == "" {
		category = model.DefaultCategory
	}

	flow, err := h.flowUsecase.CreateFlow(r.Context(), usecase.CreateFlowParams{
		Category:    category,
		Chart:       req.Chart,
		Description: req.Description,
		Amount:      *req.Amount,
		Status:      req.Status,
		UserID:      current.ID,
	})
	if err != nil {
		return err
	}

	h.responder.Success(w, http.StatusCreated, map[string]any{"data": flow})

	return nil
}

// ListFlows handles GET /flow/expenses with filter/sort/fields query shaping.
func (h *FlowHandler) ListFlows(w http.ResponseWriter, r *http.Request) error {
	features := query.New(r.URL.Query()).Filter().Sort().LimitFields()

	flows, err := h.flowUsecase.ListFlows(r.Context(), features)
	if err != nil {
		if errors.Is(err, usecase.ErrNoFlowsFound) {
			return apperror.NotFound("No document found with that query, please double check your params")
		}

		return err
	}

	h.responder.JSON(w, http.StatusOK, envelope{
		Status:  statusSuccess,
		Results: intPtr(len(flows)),
		Data:    map[string]any{"data": flows},
	})

	return nil
}

// GetFlowStats handles GET /flow/expenses-getFlowStats.
func (h *FlowHandler) GetFlowStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.flowUsecase.GetFlowStats(r.Context())
	if err != nil {
		return err
	}

	h.responder.Success(w, http.StatusOK, map[string]any{"stats": stats})

	return nil
}
