// internal/handler/auth.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crewbase/crewbase/internal/auth"
	"github.com/crewbase/crewbase/internal/config"
	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/middleware"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/service"
	chmw "github.com/go-chi/chi/v5/middleware"
)

type AuthHandler struct {
	userService *service.UserService
	config      *config.Config
}

func NewAuthHandler(userService *service.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		config:      cfg,
	}
}

type RegisterResponse struct {
	BaseResponse
	User *model.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	user, err := h.userService.Register(r.Context(), input)
	if err != nil {
		slog.ErrorContext(r.Context(), "User registration error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			respondWithError(w, http.StatusConflict, "Email already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, RegisterResponse{
		BaseResponse: BaseResponse{Ok: true},
		User:         user,
	})
}

type LoginResponse struct {
	BaseResponse
	AuthToken string     `json:"authToken"`
	Role      model.Role `json:"role"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	output, err := h.userService.Login(r.Context(), input)
	if err != nil {
		slog.ErrorContext(r.Context(), "User login error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "No account with this email")
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, domain.ErrNoCompany):
			respondWithError(w, http.StatusForbidden, "Company not found for this account")
		case errors.Is(err, domain.ErrSubscriptionBlocked):
			respondWithError(w, http.StatusForbidden, "Company subscription is blocked")
		case errors.Is(err, domain.ErrSubscriptionExpired):
			respondWithError(w, http.StatusForbidden, "Company subscription has expired")
		case errors.Is(err, domain.ErrNoActiveSubscription):
			respondWithError(w, http.StatusForbidden, "Company has no active subscription")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	auth.SetAuthCookie(w, output.Token, h.config.JWT.ExpiryPeriod, h.config.IsProduction())

	respondWithJSON(w, http.StatusOK, LoginResponse{
		BaseResponse: BaseResponse{Ok: true},
		AuthToken:    output.Token,
		Role:         output.User.Role,
	})
}

// Logout clears the auth cookie. Calling it twice is harmless.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearAuthCookie(w, h.config.IsProduction())
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

type MeResponse struct {
	BaseResponse
	User *model.User `json:"user"`
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	respondWithJSON(w, http.StatusOK, MeResponse{
		BaseResponse: BaseResponse{Ok: true},
		User:         user,
	})
}
