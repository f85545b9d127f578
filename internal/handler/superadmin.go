// internal/handler/superadmin.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/service"
	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// SuperAdminHandler serves the platform console: tenant oversight and plan
// catalog management.
type SuperAdminHandler struct {
	companyService *service.CompanyService
	planService    *service.PlanService
}

func NewSuperAdminHandler(companyService *service.CompanyService, planService *service.PlanService) *SuperAdminHandler {
	return &SuperAdminHandler{
		companyService: companyService,
		planService:    planService,
	}
}

type CompanyPageResponse struct {
	BaseResponse
	*service.CompanyPage
}

func (h *SuperAdminHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.companyService.ListCompanies(r.Context(), page, limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing companies error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, CompanyPageResponse{
		BaseResponse: BaseResponse{Ok: true},
		CompanyPage:  result,
	})
}

func (h *SuperAdminHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid company id")
		return
	}

	if err := h.companyService.DeleteCompany(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			respondWithError(w, http.StatusNotFound, "Company not found")
			return
		}
		slog.ErrorContext(r.Context(), "Company deletion error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Company deleted"})
}

type PlanResponse struct {
	BaseResponse
	Plan *model.Plan `json:"plan"`
}

type PlansResponse struct {
	BaseResponse
	Plans []*model.Plan `json:"plans"`
}

func (h *SuperAdminHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePlanInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	plan, err := h.planService.Create(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPlanNameTaken):
			respondWithError(w, http.StatusConflict, "Plan name already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Plan creation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, PlanResponse{
		BaseResponse: BaseResponse{Ok: true},
		Plan:         plan,
	})
}

func (h *SuperAdminHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing plans error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, PlansResponse{
		BaseResponse: BaseResponse{Ok: true},
		Plans:        plans,
	})
}
