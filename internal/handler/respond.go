package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/flowtrack/flow-tracker-api/internal/apperror"
)

// envelope is the standard JSON response shape.
type envelope struct {
	Status  string `json:"status"`
	Token   string `json:"token,omitempty"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// Responder shapes every JSON response and funnels all handler errors through
// one place. Verbosity of unexpected errors depends on deployment mode.
type Responder struct {
	logger      *zerolog.Logger
	development bool
}

// NewResponder creates a Responder.
func NewResponder(logger *zerolog.Logger, development bool) *Responder {
	return &Responder{
		logger:      logger,
		development: development,
	}
}

// handlerFunc is an http.HandlerFunc that may fail; errors end up in the
// centralized error responder.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts a fallible handler into an http.HandlerFunc.
func (re *Responder) Handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			re.Error(w, r, err)
		}
	}
}

// JSON writes a response envelope with the given status code.
func (re *Responder) JSON(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		re.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// Success writes a success envelope wrapping the given data.
func (re *Responder) Success(w http.ResponseWriter, code int, data any) {
	re.JSON(w, code, envelope{Status: statusSuccess, Data: data})
}

// Error writes the error envelope. Operational errors keep their status and
// message; anything else becomes a generic 500 unless running in development.
func (re *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status := statusFail
		if appErr.Code >= http.StatusInternalServerError {
			status = statusError
		}

		re.JSON(w, appErr.Code, envelope{Status: status, Message: appErr.Message})
		return
	}

	re.logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected error")

	message := "Something went very wrong!"
	if re.development {
		message = err.Error()
	}

	re.JSON(w, http.StatusInternalServerError, envelope{Status: statusError, Message: message})
}

// decodeJSON decodes a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.BadRequest("invalid request body")
	}

	return nil
}

// intPtr is used for the results field of list envelopes.
func intPtr(n int) *int {
	return &n
}
