package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/mocks"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSubscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	companyID := uuid.New()
	plan := &model.Plan{
		ID:             uuid.New(),
		Name:           "Growth",
		Price:          499900,
		DurationInDays: 30,
		MaxManagers:    5,
		MaxEmployees:   50,
	}

	t.Run("copies plan limits and computes the end date", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		planRepo := mocks.NewMockPlanRepositoryIface(ctrl)

		companyRepo.EXPECT().
			FindByID(gomock.Any(), companyID).
			Return(&model.Company{ID: companyID}, nil)
		planRepo.EXPECT().
			FindByID(gomock.Any(), plan.ID).
			Return(plan, nil)
		companyRepo.EXPECT().
			UpdateSubscription(gomock.Any(), companyID, gomock.Any()).
			Return(nil)

		svc := service.NewSubscriptionService(companyRepo, planRepo)

		before := time.Now().UTC()
		sub, err := svc.Subscribe(context.Background(), companyID, plan.ID)
		after := time.Now().UTC()

		require.NoError(t, err)
		assert.Equal(t, model.SubscriptionActive, sub.Status)
		assert.Equal(t, plan.MaxManagers, sub.MaxManagers)
		assert.Equal(t, plan.MaxEmployees, sub.MaxEmployees)
		assert.Zero(t, sub.CurrentManagers)
		assert.Zero(t, sub.CurrentEmployees)

		require.NotNil(t, sub.StartDate)
		require.NotNil(t, sub.EndDate)
		assert.False(t, sub.StartDate.Before(before))
		assert.False(t, sub.StartDate.After(after))
		assert.Equal(t, sub.StartDate.AddDate(0, 0, plan.DurationInDays), *sub.EndDate)
	})

	t.Run("resubscribing resets the counters", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		planRepo := mocks.NewMockPlanRepositoryIface(ctrl)

		expired := &model.Company{ID: companyID}
		expired.Subscription.Status = model.SubscriptionExpired
		expired.Subscription.CurrentManagers = 3

		companyRepo.EXPECT().
			FindByID(gomock.Any(), companyID).
			Return(expired, nil)
		planRepo.EXPECT().
			FindByID(gomock.Any(), plan.ID).
			Return(plan, nil)
		companyRepo.EXPECT().
			UpdateSubscription(gomock.Any(), companyID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, sub model.Subscription) error {
				assert.Zero(t, sub.CurrentManagers)
				assert.Equal(t, model.SubscriptionActive, sub.Status)
				return nil
			})

		svc := service.NewSubscriptionService(companyRepo, planRepo)
		_, err := svc.Subscribe(context.Background(), companyID, plan.ID)

		assert.NoError(t, err)
	})

	t.Run("unknown company", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		planRepo := mocks.NewMockPlanRepositoryIface(ctrl)

		companyRepo.EXPECT().
			FindByID(gomock.Any(), companyID).
			Return(nil, domain.ErrCompanyNotFound)

		svc := service.NewSubscriptionService(companyRepo, planRepo)
		_, err := svc.Subscribe(context.Background(), companyID, plan.ID)

		assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
	})

	t.Run("unknown plan", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		planRepo := mocks.NewMockPlanRepositoryIface(ctrl)

		companyRepo.EXPECT().
			FindByID(gomock.Any(), companyID).
			Return(&model.Company{ID: companyID}, nil)
		planRepo.EXPECT().
			FindByID(gomock.Any(), plan.ID).
			Return(nil, domain.ErrPlanNotFound)

		svc := service.NewSubscriptionService(companyRepo, planRepo)
		_, err := svc.Subscribe(context.Background(), companyID, plan.ID)

		assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	})
}

func TestExpireLapsed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
	planRepo := mocks.NewMockPlanRepositoryIface(ctrl)

	companyRepo.EXPECT().
		MarkExpired(gomock.Any(), gomock.Any()).
		Return(int64(2), nil)

	svc := service.NewSubscriptionService(companyRepo, planRepo)
	n, err := svc.ExpireLapsed(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
