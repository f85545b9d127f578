// internal/repository/plan.go
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

type PlanRepositoryIface interface {
	Create(ctx context.Context, plan *model.Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	FindAll(ctx context.Context) ([]*model.Plan, error)
	Update(ctx context.Context, plan *model.Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *model.Plan) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Plan{}).
		Where("name = ?", plan.Name).
		Count(&count).Error; err != nil {
		return fmt.Errorf("checking plan name: %w", err)
	}
	if count > 0 {
		return domain.ErrPlanNameTaken
	}

	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("creating plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("finding plan: %w", err)
	}
	return &plan, nil
}

func (r *PlanRepository) FindAll(ctx context.Context) ([]*model.Plan, error) {
	var plans []*model.Plan
	if err := r.db.WithContext(ctx).Order("price").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("finding plans: %w", err)
	}
	return plans, nil
}

func (r *PlanRepository) Update(ctx context.Context, plan *model.Plan) error {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Plan{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("deleting plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}
