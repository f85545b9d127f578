// internal/repository/project.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepositoryIface interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	FindByAdmin(ctx context.Context, adminID uuid.UUID) ([]*model.Project, error)
	FindByManager(ctx context.Context, managerID uuid.UUID) ([]*model.Project, error)
	FindByMember(ctx context.Context, userID uuid.UUID) ([]*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	ReplaceTeam(ctx context.Context, project *model.Project, members []*model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).
		Preload("TeamMembers").
		First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("finding project: %w", err)
	}
	return &project, nil
}

func (r *ProjectRepository) FindByAdmin(ctx context.Context, adminID uuid.UUID) ([]*model.Project, error) {
	var projects []*model.Project
	if err := r.db.WithContext(ctx).
		Preload("TeamMembers").
		Where("admin_id = ?", adminID).
		Order("created_at").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("finding admin projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) FindByManager(ctx context.Context, managerID uuid.UUID) ([]*model.Project, error) {
	var projects []*model.Project
	if err := r.db.WithContext(ctx).
		Preload("TeamMembers").
		Where("manager_id = ?", managerID).
		Order("created_at").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("finding manager projects: %w", err)
	}
	return projects, nil
}

// FindByMember returns projects the user sits on as a team member.
func (r *ProjectRepository) FindByMember(ctx context.Context, userID uuid.UUID) ([]*model.Project, error) {
	var projects []*model.Project
	if err := r.db.WithContext(ctx).
		Preload("TeamMembers").
		Joins("JOIN project_team_members ON projects.id = project_team_members.project_id").
		Where("project_team_members.user_id = ?", userID).
		Order("projects.created_at").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("finding member projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Omit("TeamMembers").Save(project).Error; err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

// ReplaceTeam swaps the project's team association for the given set.
func (r *ProjectRepository) ReplaceTeam(ctx context.Context, project *model.Project, members []*model.User) error {
	if err := r.db.WithContext(ctx).
		Model(project).
		Association("TeamMembers").
		Replace(members); err != nil {
		return fmt.Errorf("replacing project team: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM project_team_members WHERE project_id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting project memberships: %w", err)
		}

		result := tx.Delete(&model.Project{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("deleting project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrProjectNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
