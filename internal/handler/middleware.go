package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/flowtrack/flow-tracker-api/internal/apperror"
	"github.com/flowtrack/flow-tracker-api/internal/auth"
	"github.com/flowtrack/flow-tracker-api/internal/model"
	"github.com/flowtrack/flow-tracker-api/internal/usecase"
)

type contextKey struct{}

// userContextKey carries the authenticated user through the request context.
var userContextKey = contextKey{}

// sessionCookie is the cookie the session token travels in.
const sessionCookie = "jwt"

// CurrentUser returns the authenticated user attached by Protect or
// IsLoggedIn.
func CurrentUser(r *http.Request) (*model.User, bool) {
	user, ok := r.Context().Value(userContextKey).(*model.User)
	return user, ok
}

// AuthMiddleware gates protected routes behind session-token verification.
type AuthMiddleware struct {
	jwtAuth     *auth.JWTAuthenticator
	authUsecase usecase.AuthUsecase
	responder   *Responder
}

// NewAuthMiddleware creates an AuthMiddleware.
func NewAuthMiddleware(
	jwtAuth *auth.JWTAuthenticator,
	authUsecase usecase.AuthUsecase,
	responder *Responder,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtAuth:     jwtAuth,
		authUsecase: authUsecase,
		responder:   responder,
	}
}

// Protect rejects the request unless it carries a valid, fresh session token
// referring to an existing user. On success the user is attached to the
// request context.
func (m *AuthMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolveUser(r)
		if err != nil {
			m.responder.Error(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// IsLoggedIn is the soft variant of Protect: any verification failure simply
// proceeds without attaching a user.
func (m *AuthMiddleware) IsLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolveUser(r)
		if err == nil {
			r = r.WithContext(withUser(r.Context(), user))
		}

		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) resolveUser(r *http.Request) (*model.User, error) {
	token := extractToken(r)
	if token == "" {
		return nil, apperror.Unauthorized("You are not logged in! Please log in to get access.")
	}

	claims, err := m.jwtAuth.Verify(token)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token. Please log in again.")
	}

	user, err := m.authUsecase.ResolveSession(r.Context(), claims)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			return nil, apperror.Unauthorized("The user belonging to this token does no longer exist.")
		case errors.Is(err, usecase.ErrStaleToken):
			return nil, apperror.Unauthorized("User recently changed password! Please log in again.")
		default:
			return nil, err
		}
	}

	return user, nil
}

// extractToken pulls the session token from the Authorization header or the
// jwt cookie; the header takes precedence.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}

	return ""
}

func withUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
