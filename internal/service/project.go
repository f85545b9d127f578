// internal/service/project.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ProjectService struct {
	repo     repository.ProjectRepositoryIface
	userRepo repository.UserRepositoryIface
	validate *validator.Validate
}

func NewProjectService(
	repo repository.ProjectRepositoryIface,
	userRepo repository.UserRepositoryIface,
) *ProjectService {
	return &ProjectService{
		repo:     repo,
		userRepo: userRepo,
		validate: validator.New(),
	}
}

type CreateProjectInput struct {
	Name          string      `json:"name" validate:"required"`
	Description   string      `json:"description"`
	ManagerID     *uuid.UUID  `json:"manager_id"`
	TeamMemberIDs []uuid.UUID `json:"team_members"`
	StartDate     *time.Time  `json:"start_date"`
	EndDate       *time.Time  `json:"end_date"`
}

// Create opens a project under the owner's company, optionally assigning a
// manager and an initial team.
func (s *ProjectService) Create(ctx context.Context, owner *model.User, input CreateProjectInput) (*model.Project, error) {
	if owner.Role != model.RoleCompanyOwner {
		return nil, fmt.Errorf("%w: only the company owner may create projects", domain.ErrUnauthorized)
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if owner.CompanyID == nil {
		return nil, domain.ErrNoCompany
	}

	if input.ManagerID != nil {
		if err := s.requireCompanyRole(ctx, *input.ManagerID, *owner.CompanyID, model.RoleManager); err != nil {
			return nil, err
		}
	}

	project := &model.Project{
		Name:        input.Name,
		Description: input.Description,
		CompanyID:   *owner.CompanyID,
		AdminID:     owner.ID,
		ManagerID:   input.ManagerID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      model.ProjectPlanned,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	if len(input.TeamMemberIDs) > 0 {
		members, err := s.companyMembers(ctx, *owner.CompanyID, input.TeamMemberIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceTeam(ctx, project, members); err != nil {
			return nil, err
		}
		for _, m := range members {
			project.TeamMembers = append(project.TeamMembers, *m)
		}
	}

	return project, nil
}

// ListForOwner returns projects the owner created.
func (s *ProjectService) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Project, error) {
	return s.repo.FindByAdmin(ctx, ownerID)
}

// ListForManager returns projects assigned to the manager.
func (s *ProjectService) ListForManager(ctx context.Context, managerID uuid.UUID) ([]*model.Project, error) {
	return s.repo.FindByManager(ctx, managerID)
}

// ListForMember returns projects the user is on the team of.
func (s *ProjectService) ListForMember(ctx context.Context, userID uuid.UUID) ([]*model.Project, error) {
	return s.repo.FindByMember(ctx, userID)
}

type UpdateProjectInput struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	ManagerID   *uuid.UUID           `json:"manager_id"`
	StartDate   *time.Time           `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
	Status      *model.ProjectStatus `json:"status"`
}

// Update applies a partial update. Owners may change anything on their own
// projects; the assigned manager may only move the status.
func (s *ProjectService) Update(ctx context.Context, principal *model.User, projectID uuid.UUID, input UpdateProjectInput) (*model.Project, error) {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	switch principal.Role {
	case model.RoleCompanyOwner:
		if project.AdminID != principal.ID {
			return nil, domain.ErrNotProjectOwner
		}
	case model.RoleManager:
		if project.ManagerID == nil || *project.ManagerID != principal.ID {
			return nil, domain.ErrNotAssignedTo
		}
		if input.Name != nil || input.Description != nil || input.ManagerID != nil ||
			input.StartDate != nil || input.EndDate != nil {
			return nil, fmt.Errorf("%w: managers may only update project status", domain.ErrUnauthorized)
		}
	default:
		return nil, domain.ErrUnauthorized
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown project status %q", domain.ErrInvalidInput, *input.Status)
		}
		project.Status = *input.Status
	}
	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.ManagerID != nil {
		if err := s.requireCompanyRole(ctx, *input.ManagerID, project.CompanyID, model.RoleManager); err != nil {
			return nil, err
		}
		project.ManagerID = input.ManagerID
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// Delete removes a project the owner created.
func (s *ProjectService) Delete(ctx context.Context, owner *model.User, projectID uuid.UUID) error {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.AdminID != owner.ID {
		return domain.ErrNotProjectOwner
	}
	return s.repo.Delete(ctx, projectID)
}

// AddTeamMembers adds users to the manager's project team. Users already on
// the team are skipped, so the resulting team never carries duplicates.
func (s *ProjectService) AddTeamMembers(ctx context.Context, manager *model.User, projectID uuid.UUID, userIDs []uuid.UUID) (*model.Project, error) {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ManagerID == nil || *project.ManagerID != manager.ID {
		return nil, domain.ErrNotAssignedTo
	}

	newcomers, err := s.companyMembers(ctx, project.CompanyID, userIDs)
	if err != nil {
		return nil, err
	}

	team := make([]*model.User, 0, len(project.TeamMembers)+len(newcomers))
	seen := make(map[uuid.UUID]bool, len(project.TeamMembers))
	for i := range project.TeamMembers {
		team = append(team, &project.TeamMembers[i])
		seen[project.TeamMembers[i].ID] = true
	}
	for _, u := range newcomers {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		team = append(team, u)
	}

	if err := s.repo.ReplaceTeam(ctx, project, team); err != nil {
		return nil, err
	}

	project.TeamMembers = project.TeamMembers[:0]
	for _, u := range team {
		project.TeamMembers = append(project.TeamMembers, *u)
	}

	return project, nil
}

// companyMembers resolves user IDs and rejects any that fall outside the
// company, keeping team membership tenant-scoped.
func (s *ProjectService) companyMembers(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]*model.User, error) {
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(users) != len(dedupe(ids)) {
		return nil, fmt.Errorf("%w: one or more team members do not exist", domain.ErrInvalidInput)
	}
	for _, u := range users {
		if u.CompanyID == nil || *u.CompanyID != companyID {
			return nil, fmt.Errorf("%w: user %s is not in this company", domain.ErrInvalidInput, u.ID)
		}
	}
	return users, nil
}

func (s *ProjectService) requireCompanyRole(ctx context.Context, userID, companyID uuid.UUID, role model.Role) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: user %s does not exist", domain.ErrInvalidInput, userID)
	}
	if user.Role != role || user.CompanyID == nil || *user.CompanyID != companyID {
		return fmt.Errorf("%w: user %s is not a %s of this company", domain.ErrInvalidInput, userID, role)
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
