// internal/handler/admin.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/middleware"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/service"
	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// AdminHandler serves the company owner console: company registration,
// company details, and manager/employee provisioning.
type AdminHandler struct {
	companyService *service.CompanyService
}

func NewAdminHandler(companyService *service.CompanyService) *AdminHandler {
	return &AdminHandler{companyService: companyService}
}

type CompanyResponse struct {
	BaseResponse
	Company *model.Company `json:"company"`
}

func (h *AdminHandler) RegisterCompany(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserFromContext(r.Context())

	var input service.RegisterCompanyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	company, err := h.companyService.Register(r.Context(), owner, input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Company registration error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			respondWithError(w, http.StatusConflict, "A company is already registered for this owner")
		case errors.Is(err, domain.ErrCompanyNameTaken):
			respondWithError(w, http.StatusConflict, "Company name already taken")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, CompanyResponse{
		BaseResponse: BaseResponse{Ok: true},
		Company:      company,
	})
}

func (h *AdminHandler) CompanyDetails(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserFromContext(r.Context())

	company, err := h.companyService.Details(r.Context(), owner.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			respondWithError(w, http.StatusNotFound, "Company not registered yet")
			return
		}
		slog.ErrorContext(r.Context(), "Company details error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, CompanyResponse{
		BaseResponse: BaseResponse{Ok: true},
		Company:      company,
	})
}

type MembersResponse struct {
	BaseResponse
	Users []*model.User `json:"users"`
}

type MemberResponse struct {
	BaseResponse
	User *model.User `json:"user"`
}

func (h *AdminHandler) ListManagers(w http.ResponseWriter, r *http.Request) {
	h.listMembers(w, r, model.RoleManager)
}

func (h *AdminHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	h.listMembers(w, r, model.RoleUser)
}

func (h *AdminHandler) listMembers(w http.ResponseWriter, r *http.Request, role model.Role) {
	owner := middleware.UserFromContext(r.Context())

	var (
		users []*model.User
		err   error
	)
	if role == model.RoleManager {
		users, err = h.companyService.ListManagers(r.Context(), owner)
	} else {
		if owner.CompanyID == nil {
			respondWithError(w, http.StatusForbidden, "User is not attached to a company")
			return
		}
		users, err = h.companyService.ListEmployees(r.Context(), *owner.CompanyID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNoCompany) {
			respondWithError(w, http.StatusForbidden, "User is not attached to a company")
			return
		}
		slog.ErrorContext(r.Context(), "Listing members error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, MembersResponse{
		BaseResponse: BaseResponse{Ok: true},
		Users:        users,
	})
}

func (h *AdminHandler) CreateManager(w http.ResponseWriter, r *http.Request) {
	h.createMember(w, r, model.RoleManager)
}

func (h *AdminHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	h.createMember(w, r, model.RoleUser)
}

func (h *AdminHandler) createMember(w http.ResponseWriter, r *http.Request, role model.Role) {
	owner := middleware.UserFromContext(r.Context())

	var input service.CreateMemberInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	member, err := h.companyService.CreateMember(r.Context(), owner, role, input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Member creation error", "error", err, "role", role, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			respondWithError(w, http.StatusConflict, "Email already exists")
		case errors.Is(err, domain.ErrManagerLimitReached):
			respondWithError(w, http.StatusForbidden, "Manager limit reached for the current plan")
		case errors.Is(err, domain.ErrEmployeeLimitReached):
			respondWithError(w, http.StatusForbidden, "Employee limit reached for the current plan")
		case errors.Is(err, domain.ErrNoCompany):
			respondWithError(w, http.StatusForbidden, "Register a company before adding members")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, MemberResponse{
		BaseResponse: BaseResponse{Ok: true},
		User:         member,
	})
}

func (h *AdminHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserFromContext(r.Context())

	memberID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid member id")
		return
	}

	if err := h.companyService.RemoveMember(r.Context(), owner, memberID); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "Member not found")
		case errors.Is(err, domain.ErrNoCompany):
			respondWithError(w, http.StatusForbidden, "Register a company before removing members")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Member removal error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}
