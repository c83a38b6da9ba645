package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"chess-shop/internal/data/entity"
	"chess-shop/internal/data/repository"
	"chess-shop/internal/rbac"
	"chess-shop/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PrincipalResolver loads the current role bindings of a user.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID uuid.UUID) (rbac.Principal, error)
}

// bearerToken extracts the session token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if _, err := uuid.Parse(token); err != nil {
		return "", false
	}
	return token, true
}

// AuthSession requires a valid session token and resolves the principal
// behind it. Bindings are loaded fresh on every request.
func AuthSession(sessionRepo repository.SessionRepository, resolver PrincipalResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil || !session.Active(time.Now()) {
				logger.Warn("Invalid or expired session")
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			principal, err := resolver.ResolvePrincipal(r.Context(), session.UserID)
			if err != nil {
				if errors.Is(err, entity.ErrNotFound) {
					utils.ResponseUnauthorized(w, "Account no longer exists")
					return
				}
				logger.Error("Failed to resolve principal",
					zap.String("user_id", session.UserID.String()),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetUserContext(r.Context(), session.UserID)
			ctx = utils.SetTokenContext(ctx, token)
			ctx = rbac.WithPrincipal(ctx, principal)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession resolves the principal when a valid session token is
// present and otherwise lets the request through as anonymous.
func OptionalSession(sessionRepo repository.SessionRepository, resolver PrincipalResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if session == nil || !session.Active(time.Now()) {
				logger.Debug("Stale session on public route, continuing as anonymous")
				next.ServeHTTP(w, r)
				return
			}

			principal, err := resolver.ResolvePrincipal(r.Context(), session.UserID)
			if err != nil {
				if errors.Is(err, entity.ErrNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				logger.Error("Failed to resolve principal",
					zap.String("user_id", session.UserID.String()),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetUserContext(r.Context(), session.UserID)
			ctx = utils.SetTokenContext(ctx, token)
			ctx = rbac.WithPrincipal(ctx, principal)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin requires the principal resolved by AuthSession to hold ADMIN.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := rbac.FromContext(r.Context())
			if principal.IsAnonymous() {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !principal.IsAdmin() {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", principal.UserID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
