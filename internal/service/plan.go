// internal/service/plan.go
package service

import (
	"context"
	"fmt"

	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type PlanService struct {
	repo     repository.PlanRepositoryIface
	validate *validator.Validate
}

func NewPlanService(repo repository.PlanRepositoryIface) *PlanService {
	return &PlanService{
		repo:     repo,
		validate: validator.New(),
	}
}

type CreatePlanInput struct {
	Name           string `json:"name" validate:"required"`
	Price          int64  `json:"price" validate:"gte=0"`
	DurationInDays int    `json:"duration_in_days" validate:"required,gt=0"`
	MaxManagers    int    `json:"max_managers" validate:"gte=0"`
	MaxEmployees   int    `json:"max_employees" validate:"gte=0"`
}

func (s *PlanService) Create(ctx context.Context, input CreatePlanInput) (*model.Plan, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	plan := &model.Plan{
		Name:           input.Name,
		Price:          input.Price,
		DurationInDays: input.DurationInDays,
		MaxManagers:    input.MaxManagers,
		MaxEmployees:   input.MaxEmployees,
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

func (s *PlanService) List(ctx context.Context) ([]*model.Plan, error) {
	return s.repo.FindAll(ctx)
}

type UpdatePlanInput struct {
	Name           *string `json:"name"`
	Price          *int64  `json:"price" validate:"omitempty,gte=0"`
	DurationInDays *int    `json:"duration_in_days" validate:"omitempty,gt=0"`
	MaxManagers    *int    `json:"max_managers" validate:"omitempty,gte=0"`
	MaxEmployees   *int    `json:"max_employees" validate:"omitempty,gte=0"`
}

// Update edits the plan template. Existing subscriptions are untouched since
// they carry their own copy of the limits.
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, input UpdatePlanInput) (*model.Plan, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		plan.Name = *input.Name
	}
	if input.Price != nil {
		plan.Price = *input.Price
	}
	if input.DurationInDays != nil {
		plan.DurationInDays = *input.DurationInDays
	}
	if input.MaxManagers != nil {
		plan.MaxManagers = *input.MaxManagers
	}
	if input.MaxEmployees != nil {
		plan.MaxEmployees = *input.MaxEmployees
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
