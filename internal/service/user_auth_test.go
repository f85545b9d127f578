package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/crewbase/crewbase/internal/auth"
	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/mocks"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newUserService(userRepo *mocks.MockUserRepositoryIface, companyRepo *mocks.MockCompanyRepositoryIface) *service.UserService {
	return service.NewUserService(
		userRepo,
		companyRepo,
		auth.NewPasswordHasher(),
		auth.NewTokenManager("test_secret", time.Hour),
	)
}

func TestUserRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("creates a company owner", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "owner@example.com").
			Return(nil, domain.ErrUserNotFound)
		userRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(nil)

		svc := newUserService(userRepo, companyRepo)
		user, err := svc.Register(context.Background(), service.RegisterInput{
			Name:     "Owner",
			Email:    "Owner@Example.com",
			Password: "correct_password",
		})

		assert.NoError(t, err)
		assert.Equal(t, "owner@example.com", user.Email)
		assert.Equal(t, model.RoleCompanyOwner, user.Role)
		assert.False(t, user.IsRegistered)
		assert.NotEqual(t, "correct_password", user.PasswordHash)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "owner@example.com").
			Return(&model.User{Email: "owner@example.com"}, nil)

		svc := newUserService(userRepo, companyRepo)
		_, err := svc.Register(context.Background(), service.RegisterInput{
			Name:     "Owner",
			Email:    "owner@example.com",
			Password: "correct_password",
		})

		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("rejects short password", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)

		svc := newUserService(userRepo, companyRepo)
		_, err := svc.Register(context.Background(), service.RegisterInput{
			Name:     "Owner",
			Email:    "owner@example.com",
			Password: "short",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestUserLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hasher := auth.NewPasswordHasher()
	hashedPassword, _ := hasher.Hash("correct_password")

	companyID := uuid.New()
	planID := uuid.New()

	activeCompany := func() *model.Company {
		start := time.Now().UTC().AddDate(0, 0, -1)
		end := time.Now().UTC().AddDate(0, 0, 29)
		return &model.Company{
			ID: companyID,
			Subscription: model.Subscription{
				PlanID:    &planID,
				StartDate: &start,
				EndDate:   &end,
				Status:    model.SubscriptionActive,
			},
		}
	}

	manager := func() *model.User {
		return &model.User{
			ID:           uuid.New(),
			Email:        "manager@example.com",
			PasswordHash: hashedPassword,
			Role:         model.RoleManager,
			CompanyID:    &companyID,
		}
	}

	t.Run("unknown email surfaces not found", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "nobody@example.com").
			Return(nil, domain.ErrUserNotFound)

		svc := newUserService(userRepo, companyRepo)
		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "nobody@example.com",
			Password: "whatever1",
		})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "manager@example.com").
			Return(manager(), nil)

		svc := newUserService(userRepo, companyRepo)
		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "manager@example.com",
			Password: "wrong_password",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("manager without a company", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)

		orphan := manager()
		orphan.CompanyID = nil
		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "manager@example.com").
			Return(orphan, nil)

		svc := newUserService(userRepo, companyRepo)
		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "manager@example.com",
			Password: "correct_password",
		})

		assert.ErrorIs(t, err, domain.ErrNoCompany)
	})

	t.Run("blocked subscription", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)

		company := activeCompany()
		company.Subscription.Status = model.SubscriptionBlocked

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "manager@example.com").
			Return(manager(), nil)
		companyRepo.EXPECT().
			FindByID(gomock.Any(), companyID).
			Return(company, nil)

		svc := newUserService(userRepo, companyRepo)
		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "manager@example.com",
			Password: "correct_password",
		})

		assert.ErrorIs(t, err, domain.ErrSubscriptionBlocked)
	})

	t.Run("lapsed end date counts as expired before the sweep runs", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)

		company := activeCompany()
		lapsed := time.Now().UTC().Add(-time.Hour)
		company.Subscription.EndDate = &lapsed

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "manager@example.com").
			Return(manager(), nil)
		companyRepo.EXPECT().
			FindByID(gomock.Any(), companyID).
			Return(company, nil)

		svc := newUserService(userRepo, companyRepo)
		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "manager@example.com",
			Password: "correct_password",
		})

		assert.ErrorIs(t, err, domain.ErrSubscriptionExpired)
	})

	t.Run("no subscription at all", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "manager@example.com").
			Return(manager(), nil)
		companyRepo.EXPECT().
			FindByID(gomock.Any(), companyID).
			Return(&model.Company{ID: companyID}, nil)

		svc := newUserService(userRepo, companyRepo)
		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "manager@example.com",
			Password: "correct_password",
		})

		assert.ErrorIs(t, err, domain.ErrNoActiveSubscription)
	})

	t.Run("manager with active subscription gets a token", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "manager@example.com").
			Return(manager(), nil)
		companyRepo.EXPECT().
			FindByID(gomock.Any(), companyID).
			Return(activeCompany(), nil)

		svc := newUserService(userRepo, companyRepo)
		out, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "manager@example.com",
			Password: "correct_password",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, out.Token)
		assert.Equal(t, model.RoleManager, out.User.Role)
	})

	t.Run("owner skips the subscription gate", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)

		owner := &model.User{
			ID:           uuid.New(),
			Email:        "owner@example.com",
			PasswordHash: hashedPassword,
			Role:         model.RoleCompanyOwner,
		}
		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "owner@example.com").
			Return(owner, nil)

		svc := newUserService(userRepo, companyRepo)
		out, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "owner@example.com",
			Password: "correct_password",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, out.Token)
	})
}
