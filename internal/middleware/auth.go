// internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/crewbase/crewbase/internal/auth"
	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/repository"
	"github.com/google/uuid"
)

type contextKey string

const userKey contextKey = "crewbase_user"

// UserFromContext returns the authenticated principal attached by
// Authenticate, or nil when the request is unauthenticated.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}

// WithUser attaches a principal to the context. Exposed for handler tests.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// Authenticate validates the JWT from the auth cookie or Bearer header and
// loads the matching user into the request context. The password hash never
// leaves the model's json:"-" field.
func Authenticate(tokenManager *auth.TokenManager, users repository.UserRepositoryIface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := auth.TokenFromRequest(r)
			if tokenString == "" {
				respondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			claims, err := tokenManager.Validate(tokenString)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Invalid token subject")
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					respondWithError(w, http.StatusUnauthorized, "Account no longer exists")
					return
				}
				respondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// CompanyStatus gates non-privileged roles on their company's subscription.
// Super admins and company owners pass through untouched.
func CompanyStatus(companies repository.CompanyRepositoryIface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				respondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if user.Role.Privileged() {
				next.ServeHTTP(w, r)
				return
			}

			if user.CompanyID == nil {
				respondWithError(w, http.StatusForbidden, "User is not attached to a company")
				return
			}

			company, err := companies.FindByID(r.Context(), *user.CompanyID)
			if err != nil {
				if errors.Is(err, domain.ErrCompanyNotFound) {
					respondWithError(w, http.StatusForbidden, "Company not found")
					return
				}
				respondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			sub := company.Subscription
			switch {
			case sub.Status == model.SubscriptionBlocked:
				respondWithError(w, http.StatusForbidden, "Company subscription is blocked")
				return
			case sub.ExpiredAt(time.Now().UTC()):
				respondWithError(w, http.StatusForbidden, "Company subscription has expired")
				return
			case sub.Status != model.SubscriptionActive:
				respondWithError(w, http.StatusForbidden, "Company has no active subscription")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects the request unless the principal's role is in the
// allow-list for the route.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	allowed := make(map[model.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				respondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !allowed[user.Role] {
				respondWithError(w, http.StatusForbidden, "Insufficient role for this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
