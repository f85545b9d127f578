// internal/service/subscription.go
package service

import (
	"context"
	"time"

	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/repository"
	"github.com/google/uuid"
)

type SubscriptionService struct {
	companyRepo repository.CompanyRepositoryIface
	planRepo    repository.PlanRepositoryIface
}

func NewSubscriptionService(
	companyRepo repository.CompanyRepositoryIface,
	planRepo repository.PlanRepositoryIface,
) *SubscriptionService {
	return &SubscriptionService{
		companyRepo: companyRepo,
		planRepo:    planRepo,
	}
}

// Subscribe copies the plan's limits and duration into a fresh subscription
// on the company. Any prior subscription is overwritten; no history is kept.
// Later edits to the Plan never reach companies already subscribed.
func (s *SubscriptionService) Subscribe(ctx context.Context, companyID, planID uuid.UUID) (*model.Subscription, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	start := time.Now().UTC()
	end := start.AddDate(0, 0, plan.DurationInDays)

	sub := model.Subscription{
		PlanID:           &plan.ID,
		StartDate:        &start,
		EndDate:          &end,
		Status:           model.SubscriptionActive,
		MaxManagers:      plan.MaxManagers,
		CurrentManagers:  0,
		MaxEmployees:     plan.MaxEmployees,
		CurrentEmployees: 0,
	}

	if err := s.companyRepo.UpdateSubscription(ctx, companyID, sub); err != nil {
		return nil, err
	}

	return &sub, nil
}

// ExpireLapsed marks active subscriptions whose end date has passed. Called
// by the scheduler; login also checks the end date lazily, so the gate holds
// between sweeps.
func (s *SubscriptionService) ExpireLapsed(ctx context.Context) (int64, error) {
	return s.companyRepo.MarkExpired(ctx, time.Now().UTC())
}
