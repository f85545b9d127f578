// internal/handler/manager.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/middleware"
	"github.com/crewbase/crewbase/internal/service"
	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ManagerHandler serves the manager dashboard: company employees, assigned
// projects, and team staffing.
type ManagerHandler struct {
	companyService *service.CompanyService
	projectService *service.ProjectService
}

func NewManagerHandler(companyService *service.CompanyService, projectService *service.ProjectService) *ManagerHandler {
	return &ManagerHandler{
		companyService: companyService,
		projectService: projectService,
	}
}

func (h *ManagerHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	manager := middleware.UserFromContext(r.Context())
	if manager.CompanyID == nil {
		respondWithError(w, http.StatusForbidden, "User is not attached to a company")
		return
	}

	users, err := h.companyService.ListEmployees(r.Context(), *manager.CompanyID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing employees error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, MembersResponse{
		BaseResponse: BaseResponse{Ok: true},
		Users:        users,
	})
}

func (h *ManagerHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	manager := middleware.UserFromContext(r.Context())

	projects, err := h.projectService.ListForManager(r.Context(), manager.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing manager projects error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, ProjectsResponse{
		BaseResponse: BaseResponse{Ok: true},
		Projects:     projects,
	})
}

type AddTeamInput struct {
	UserIDs []uuid.UUID `json:"users"`
}

// AddTeamMembers staffs users on the manager's project. Users already on the
// team are skipped rather than duplicated.
func (h *ManagerHandler) AddTeamMembers(w http.ResponseWriter, r *http.Request) {
	manager := middleware.UserFromContext(r.Context())

	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	var input AddTeamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if len(input.UserIDs) == 0 {
		respondWithError(w, http.StatusBadRequest, "No users given")
		return
	}

	project, err := h.projectService.AddTeamMembers(r.Context(), manager, projectID, input.UserIDs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProjectNotFound):
			respondWithError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, domain.ErrNotAssignedTo):
			respondWithError(w, http.StatusForbidden, "Project is not assigned to this manager")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Adding team members error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, ProjectResponse{
		BaseResponse: BaseResponse{Ok: true},
		Project:      project,
	})
}
