// internal/service/user.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crewbase/crewbase/internal/auth"
	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserService struct {
	repo           repository.UserRepositoryIface
	companyRepo    repository.CompanyRepositoryIface
	passwordHasher *auth.PasswordHasher
	tokenManager   *auth.TokenManager
	validate       *validator.Validate
}

func NewUserService(
	repo repository.UserRepositoryIface,
	companyRepo repository.CompanyRepositoryIface,
	passwordHasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
) *UserService {
	return &UserService{
		repo:           repo,
		companyRepo:    companyRepo,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		validate:       validator.New(),
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a company owner account. It is the only self-service
// registration path; managers and employees are created by their owner.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hashed, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashed,
		Role:         model.RoleCompanyOwner,
		IsRegistered: false,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Login checks credentials and, for non-privileged roles, gates on the
// company's subscription status. A past end date counts as expired even if
// the sweep has not flipped the stored status yet.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}

	verified, err := s.passwordHasher.Verify(input.Password, user.PasswordHash)
	if err != nil || !verified {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Role.Privileged() {
		if err := s.checkCompanyAccess(ctx, user); err != nil {
			return nil, err
		}
	}

	token, err := s.tokenManager.Generate(user.ID.String(), user.Role)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &LoginOutput{User: user, Token: token}, nil
}

func (s *UserService) checkCompanyAccess(ctx context.Context, user *model.User) error {
	if user.CompanyID == nil {
		return domain.ErrNoCompany
	}

	company, err := s.companyRepo.FindByID(ctx, *user.CompanyID)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return domain.ErrNoCompany
		}
		return err
	}

	sub := company.Subscription
	switch {
	case !sub.Exists():
		return domain.ErrNoActiveSubscription
	case sub.Status == model.SubscriptionBlocked:
		return domain.ErrSubscriptionBlocked
	case sub.ExpiredAt(time.Now().UTC()):
		return domain.ErrSubscriptionExpired
	case sub.Status != model.SubscriptionActive:
		return domain.ErrNoActiveSubscription
	}

	return nil
}

// Me resolves the authenticated principal by ID.
func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, userID)
}
