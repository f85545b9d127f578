// internal/handler/project.go
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

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type ProjectResponse struct {
	BaseResponse
	Project *model.Project `json:"project"`
}

type ProjectsResponse struct {
	BaseResponse
	Projects []*model.Project `json:"projects"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserFromContext(r.Context())

	var input service.CreateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	project, err := h.projectService.Create(r.Context(), owner, input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Project creation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrNoCompany):
			respondWithError(w, http.StatusForbidden, "Register a company before creating projects")
		case errors.Is(err, domain.ErrUnauthorized):
			respondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, ProjectResponse{
		BaseResponse: BaseResponse{Ok: true},
		Project:      project,
	})
}

// List returns projects scoped to the caller's relationship with them:
// owners see what they created, managers what they run, users what they are
// staffed on.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var (
		projects []*model.Project
		err      error
	)
	switch user.Role {
	case model.RoleCompanyOwner:
		projects, err = h.projectService.ListForOwner(r.Context(), user.ID)
	case model.RoleManager:
		projects, err = h.projectService.ListForManager(r.Context(), user.ID)
	default:
		projects, err = h.projectService.ListForMember(r.Context(), user.ID)
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing projects error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, ProjectsResponse{
		BaseResponse: BaseResponse{Ok: true},
		Projects:     projects,
	})
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	var input service.UpdateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	project, err := h.projectService.Update(r.Context(), user, projectID, input)
	if err != nil {
		h.respondProjectError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ProjectResponse{
		BaseResponse: BaseResponse{Ok: true},
		Project:      project,
	})
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserFromContext(r.Context())

	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	if err := h.projectService.Delete(r.Context(), owner, projectID); err != nil {
		h.respondProjectError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}

func (h *ProjectHandler) respondProjectError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		respondWithError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, domain.ErrNotProjectOwner):
		respondWithError(w, http.StatusForbidden, "Project does not belong to this owner")
	case errors.Is(err, domain.ErrNotAssignedTo):
		respondWithError(w, http.StatusForbidden, "Project is not assigned to this manager")
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Project operation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
