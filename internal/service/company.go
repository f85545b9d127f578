// internal/service/company.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crewbase/crewbase/internal/auth"
	"github.com/crewbase/crewbase/internal/config"
	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/email"
	"github.com/crewbase/crewbase/internal/email/mailer"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CompanyService struct {
	repo           repository.CompanyRepositoryIface
	userRepo       repository.UserRepositoryIface
	passwordHasher *auth.PasswordHasher
	emailService   *email.Service
	config         *config.Config
	validate       *validator.Validate
}

func NewCompanyService(
	repo repository.CompanyRepositoryIface,
	userRepo repository.UserRepositoryIface,
	passwordHasher *auth.PasswordHasher,
	emailService *email.Service,
	cfg *config.Config,
) *CompanyService {
	return &CompanyService{
		repo:           repo,
		userRepo:       userRepo,
		passwordHasher: passwordHasher,
		emailService:   emailService,
		config:         cfg,
		validate:       validator.New(),
	}
}

type RegisterCompanyInput struct {
	Name         string `json:"name" validate:"required"`
	CompanyType  string `json:"type"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Website      string `json:"website"`
	LogoURL      string `json:"logo_url"`
}

// Register creates the owner's company and marks the owner registered, in a
// single transaction.
func (s *CompanyService) Register(ctx context.Context, owner *model.User, input RegisterCompanyInput) (*model.Company, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	company := &model.Company{
		OwnerID:      owner.ID,
		Name:         strings.TrimSpace(input.Name),
		CompanyType:  input.CompanyType,
		ContactEmail: strings.ToLower(strings.TrimSpace(input.ContactEmail)),
		Website:      input.Website,
		LogoURL:      input.LogoURL,
	}

	if err := s.repo.RegisterForOwner(ctx, company, owner); err != nil {
		return nil, err
	}

	return company, nil
}

// Details returns the company owned by the caller.
func (s *CompanyService) Details(ctx context.Context, ownerID uuid.UUID) (*model.Company, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

type CreateMemberInput struct {
	Name      string     `json:"name" validate:"required"`
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password" validate:"required,min=8"`
	ManagerID *uuid.UUID `json:"manager_id"`
}

// CreateMember provisions a manager or employee under the owner's company.
// The company's plan cap is enforced inside the repository transaction.
func (s *CompanyService) CreateMember(ctx context.Context, owner *model.User, role model.Role, input CreateMemberInput) (*model.User, error) {
	if role != model.RoleManager && role != model.RoleUser {
		return nil, fmt.Errorf("%w: role %q cannot be created as a member", domain.ErrInvalidInput, role)
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if owner.CompanyID == nil {
		return nil, domain.ErrNoCompany
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	if role == model.RoleUser && input.ManagerID != nil {
		manager, err := s.userRepo.FindByID(ctx, *input.ManagerID)
		if err != nil {
			return nil, fmt.Errorf("%w: manager does not exist", domain.ErrInvalidInput)
		}
		if manager.Role != model.RoleManager || manager.CompanyID == nil || *manager.CompanyID != *owner.CompanyID {
			return nil, fmt.Errorf("%w: manager does not belong to this company", domain.ErrInvalidInput)
		}
	}

	hashed, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	member := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashed,
		Role:         role,
		ManagerID:    input.ManagerID,
		CreatedByID:  &owner.ID,
		IsRegistered: true,
	}

	if err := s.repo.AddMember(ctx, *owner.CompanyID, member); err != nil {
		return nil, err
	}

	s.sendInvitation(ctx, member, owner)

	return member, nil
}

// sendInvitation is best effort; a mail outage must not fail member creation.
func (s *CompanyService) sendInvitation(ctx context.Context, member, owner *model.User) {
	if s.emailService == nil {
		return
	}

	company, err := s.repo.FindByID(ctx, *member.CompanyID)
	if err != nil {
		slog.WarnContext(ctx, "skipping invitation email", "error", err)
		return
	}

	if err := mailer.SendMemberInvitation(s.emailService, member.Email, member.Name, owner.Name, company.Name, s.config.BaseURL); err != nil {
		slog.WarnContext(ctx, "sending invitation email", "error", err, "email", member.Email)
	}
}

// ListManagers returns the company's managers.
func (s *CompanyService) ListManagers(ctx context.Context, owner *model.User) ([]*model.User, error) {
	if owner.CompanyID == nil {
		return nil, domain.ErrNoCompany
	}
	return s.userRepo.FindByCompanyAndRole(ctx, *owner.CompanyID, model.RoleManager)
}

// ListEmployees returns the company's plain users.
func (s *CompanyService) ListEmployees(ctx context.Context, companyID uuid.UUID) ([]*model.User, error) {
	return s.userRepo.FindByCompanyAndRole(ctx, companyID, model.RoleUser)
}

// RemoveMember deletes a manager or employee and frees their quota slot.
func (s *CompanyService) RemoveMember(ctx context.Context, owner *model.User, memberID uuid.UUID) error {
	if owner.CompanyID == nil {
		return domain.ErrNoCompany
	}
	return s.repo.RemoveMember(ctx, *owner.CompanyID, memberID)
}

type CompanyPage struct {
	Companies []*model.Company `json:"companies"`
	Total     int64            `json:"total"`
	Page      int              `json:"page"`
	Limit     int              `json:"limit"`
}

// ListCompanies returns a page of all tenants, for the super admin console.
func (s *CompanyService) ListCompanies(ctx context.Context, page, limit int) (*CompanyPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	companies, total, err := s.repo.FindAllPaginated(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &CompanyPage{
		Companies: companies,
		Total:     total,
		Page:      page,
		Limit:     limit,
	}, nil
}

// DeleteCompany removes a tenant and everything under it.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
