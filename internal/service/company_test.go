package service_test

import (
	"context"
	"testing"

	"github.com/crewbase/crewbase/internal/auth"
	"github.com/crewbase/crewbase/internal/config"
	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/mocks"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newCompanyService(companyRepo *mocks.MockCompanyRepositoryIface, userRepo *mocks.MockUserRepositoryIface) *service.CompanyService {
	return service.NewCompanyService(
		companyRepo,
		userRepo,
		auth.NewPasswordHasher(),
		nil,
		config.Load(),
	)
}

func TestCompanyRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := &model.User{ID: uuid.New(), Name: "Owner", Role: model.RoleCompanyOwner}

	t.Run("registers and normalizes input", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		companyRepo.EXPECT().
			RegisterForOwner(gomock.Any(), gomock.Any(), owner).
			Return(nil)

		svc := newCompanyService(companyRepo, userRepo)
		company, err := svc.Register(context.Background(), owner, service.RegisterCompanyInput{
			Name:         "  Acme Corp  ",
			ContactEmail: "Contact@Acme.com",
		})

		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", company.Name)
		assert.Equal(t, "contact@acme.com", company.ContactEmail)
		assert.Equal(t, owner.ID, company.OwnerID)
	})

	t.Run("owner already has a company", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		companyRepo.EXPECT().
			RegisterForOwner(gomock.Any(), gomock.Any(), owner).
			Return(domain.ErrAlreadyRegistered)

		svc := newCompanyService(companyRepo, userRepo)
		_, err := svc.Register(context.Background(), owner, service.RegisterCompanyInput{Name: "Acme"})

		assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	})

	t.Run("requires a name", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		svc := newCompanyService(companyRepo, userRepo)
		_, err := svc.Register(context.Background(), owner, service.RegisterCompanyInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCreateMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	companyID := uuid.New()
	owner := &model.User{
		ID:        uuid.New(),
		Name:      "Owner",
		Role:      model.RoleCompanyOwner,
		CompanyID: &companyID,
	}

	input := service.CreateMemberInput{
		Name:     "New Manager",
		Email:    "Manager@Example.com",
		Password: "correct_password",
	}

	t.Run("creates a manager under the company", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "manager@example.com").
			Return(nil, domain.ErrUserNotFound)
		companyRepo.EXPECT().
			AddMember(gomock.Any(), companyID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, member *model.User) error {
				member.CompanyID = &companyID
				return nil
			})

		svc := newCompanyService(companyRepo, userRepo)
		member, err := svc.CreateMember(context.Background(), owner, model.RoleManager, input)

		require.NoError(t, err)
		assert.Equal(t, model.RoleManager, member.Role)
		assert.Equal(t, "manager@example.com", member.Email)
		assert.Equal(t, &owner.ID, member.CreatedByID)
		assert.True(t, member.IsRegistered)
	})

	t.Run("capacity errors pass through untouched", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "manager@example.com").
			Return(nil, domain.ErrUserNotFound)
		companyRepo.EXPECT().
			AddMember(gomock.Any(), companyID, gomock.Any()).
			Return(domain.ErrManagerLimitReached)

		svc := newCompanyService(companyRepo, userRepo)
		_, err := svc.CreateMember(context.Background(), owner, model.RoleManager, input)

		assert.ErrorIs(t, err, domain.ErrManagerLimitReached)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "manager@example.com").
			Return(&model.User{}, nil)

		svc := newCompanyService(companyRepo, userRepo)
		_, err := svc.CreateMember(context.Background(), owner, model.RoleManager, input)

		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("rejects a manager from another company", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		otherCompany := uuid.New()
		managerID := uuid.New()

		userRepo.EXPECT().
			FindByEmail(gomock.Any(), "employee@example.com").
			Return(nil, domain.ErrUserNotFound)
		userRepo.EXPECT().
			FindByID(gomock.Any(), managerID).
			Return(&model.User{ID: managerID, Role: model.RoleManager, CompanyID: &otherCompany}, nil)

		svc := newCompanyService(companyRepo, userRepo)
		_, err := svc.CreateMember(context.Background(), owner, model.RoleUser, service.CreateMemberInput{
			Name:      "Employee",
			Email:     "employee@example.com",
			Password:  "correct_password",
			ManagerID: &managerID,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("only member roles may be created", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		svc := newCompanyService(companyRepo, userRepo)
		_, err := svc.CreateMember(context.Background(), owner, model.RoleCompanyOwner, input)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestListCompanies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("clamps page and limit", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		companyRepo.EXPECT().
			FindAllPaginated(gomock.Any(), 0, 10).
			Return([]*model.Company{{Name: "Acme"}}, int64(1), nil)

		svc := newCompanyService(companyRepo, userRepo)
		page, err := svc.ListCompanies(context.Background(), -3, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.Limit)
		assert.Equal(t, int64(1), page.Total)
		assert.Len(t, page.Companies, 1)
	})

	t.Run("offset follows the page", func(t *testing.T) {
		companyRepo := mocks.NewMockCompanyRepositoryIface(ctrl)
		userRepo := mocks.NewMockUserRepositoryIface(ctrl)

		companyRepo.EXPECT().
			FindAllPaginated(gomock.Any(), 40, 20).
			Return(nil, int64(0), nil)

		svc := newCompanyService(companyRepo, userRepo)
		_, err := svc.ListCompanies(context.Background(), 3, 20)

		assert.NoError(t, err)
	})
}
