// internal/handler/user.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/crewbase/crewbase/internal/middleware"
	"github.com/crewbase/crewbase/internal/service"
	chmw "github.com/go-chi/chi/v5/middleware"
)

// UserHandler serves the employee dashboard.
type UserHandler struct {
	projectService *service.ProjectService
}

func NewUserHandler(projectService *service.ProjectService) *UserHandler {
	return &UserHandler{projectService: projectService}
}

// MyProjects lists the projects the employee is staffed on.
func (h *UserHandler) MyProjects(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	projects, err := h.projectService.ListForMember(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing user projects error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, ProjectsResponse{
		BaseResponse: BaseResponse{Ok: true},
		Projects:     projects,
	})
}
