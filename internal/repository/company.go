// internal/repository/company.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompanyRepositoryIface interface {
	RegisterForOwner(ctx context.Context, company *model.Company, owner *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Company, error)
	FindAllPaginated(ctx context.Context, offset, limit int) ([]*model.Company, int64, error)
	UpdateSubscription(ctx context.Context, companyID uuid.UUID, sub model.Subscription) error
	AddMember(ctx context.Context, companyID uuid.UUID, member *model.User) error
	RemoveMember(ctx context.Context, companyID, memberID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// RegisterForOwner creates the company and flips the owner's registration
// state in one transaction, so a crash can never leave an owner pointing at
// a half-created tenant.
func (r *CompanyRepository) RegisterForOwner(ctx context.Context, company *model.Company, owner *model.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Company{}).
			Where("owner_id = ?", owner.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking existing company: %w", err)
		}
		if count > 0 {
			return domain.ErrAlreadyRegistered
		}

		if err := tx.Model(&model.Company{}).
			Where("name = ?", company.Name).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking company name: %w", err)
		}
		if count > 0 {
			return domain.ErrCompanyNameTaken
		}

		if err := tx.Create(company).Error; err != nil {
			return fmt.Errorf("creating company: %w", err)
		}

		owner.CompanyID = &company.ID
		owner.IsRegistered = true
		if err := tx.Model(&model.User{}).
			Where("id = ?", owner.ID).
			Updates(map[string]interface{}{
				"company_id":    company.ID,
				"is_registered": true,
			}).Error; err != nil {
			return fmt.Errorf("updating owner: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) || errors.Is(err, domain.ErrCompanyNameTaken) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func (r *CompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("finding company: %w", err)
	}
	return &company, nil
}

func (r *CompanyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).First(&company, "owner_id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("finding owner company: %w", err)
	}
	return &company, nil
}

// FindAllPaginated returns a page of companies plus the total count.
func (r *CompanyRepository) FindAllPaginated(ctx context.Context, offset, limit int) ([]*model.Company, int64, error) {
	var companies []*model.Company
	var count int64

	if err := r.db.WithContext(ctx).Model(&model.Company{}).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	result := r.db.WithContext(ctx).Order("created_at").Offset(offset).Limit(limit).Find(&companies)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to find paginated companies: %w", result.Error)
	}

	return companies, count, nil
}

// UpdateSubscription overwrites the embedded subscription wholesale. No
// history is retained.
func (r *CompanyRepository) UpdateSubscription(ctx context.Context, companyID uuid.UUID, sub model.Subscription) error {
	result := r.db.WithContext(ctx).Model(&model.Company{}).
		Where("id = ?", companyID).
		Updates(map[string]interface{}{
			"subscription_plan_id":           sub.PlanID,
			"subscription_start_date":        sub.StartDate,
			"subscription_end_date":          sub.EndDate,
			"subscription_status":            sub.Status,
			"subscription_max_managers":      sub.MaxManagers,
			"subscription_current_managers":  sub.CurrentManagers,
			"subscription_max_employees":     sub.MaxEmployees,
			"subscription_current_employees": sub.CurrentEmployees,
		})
	if result.Error != nil {
		return fmt.Errorf("updating subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// AddMember creates a manager or employee and bumps the matching headcount
// counter, enforcing the plan cap inside the transaction. The company row is
// locked so concurrent additions cannot both pass the cap check.
func (r *CompanyRepository) AddMember(ctx context.Context, companyID uuid.UUID, member *model.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var company model.Company
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&company, "id = ?", companyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCompanyNotFound
			}
			return fmt.Errorf("loading company: %w", err)
		}

		var counter string
		switch member.Role {
		case model.RoleManager:
			if company.Subscription.CurrentManagers >= company.Subscription.MaxManagers {
				return domain.ErrManagerLimitReached
			}
			counter = "subscription_current_managers"
		case model.RoleUser:
			if company.Subscription.CurrentEmployees >= company.Subscription.MaxEmployees {
				return domain.ErrEmployeeLimitReached
			}
			counter = "subscription_current_employees"
		default:
			return fmt.Errorf("%w: role %q cannot be a company member", domain.ErrInvalidInput, member.Role)
		}

		member.CompanyID = &companyID
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("creating member: %w", err)
		}

		if err := tx.Model(&model.Company{}).
			Where("id = ?", companyID).
			UpdateColumn(counter, gorm.Expr(counter+" + 1")).Error; err != nil {
			return fmt.Errorf("incrementing %s: %w", counter, err)
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCompanyNotFound),
			errors.Is(err, domain.ErrManagerLimitReached),
			errors.Is(err, domain.ErrEmployeeLimitReached),
			errors.Is(err, domain.ErrInvalidInput):
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// RemoveMember deletes a member and releases their headcount slot.
func (r *CompanyRepository) RemoveMember(ctx context.Context, companyID, memberID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member model.User
		if err := tx.First(&member, "id = ? AND company_id = ?", memberID, companyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("loading member: %w", err)
		}

		var counter string
		switch member.Role {
		case model.RoleManager:
			counter = "subscription_current_managers"
		case model.RoleUser:
			counter = "subscription_current_employees"
		default:
			return fmt.Errorf("%w: role %q is not a removable member", domain.ErrInvalidInput, member.Role)
		}

		if err := tx.Delete(&model.User{}, "id = ?", member.ID).Error; err != nil {
			return fmt.Errorf("deleting member: %w", err)
		}

		if err := tx.Model(&model.Company{}).
			Where("id = ? AND "+counter+" > 0", companyID).
			UpdateColumn(counter, gorm.Expr(counter+" - 1")).Error; err != nil {
			return fmt.Errorf("decrementing %s: %w", counter, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// Delete removes the tenant and everything scoped under it. The owner's
// account survives but is detached and unregistered.
func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var company model.Company
		if err := tx.First(&company, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCompanyNotFound
			}
			return fmt.Errorf("loading company: %w", err)
		}

		if err := tx.Exec(
			"DELETE FROM project_team_members WHERE project_id IN (SELECT id FROM projects WHERE company_id = ?)",
			id,
		).Error; err != nil {
			return fmt.Errorf("deleting project memberships: %w", err)
		}

		if err := tx.Delete(&model.Project{}, "company_id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting projects: %w", err)
		}

		if err := tx.Delete(&model.User{}, "company_id = ? AND id <> ?", id, company.OwnerID).Error; err != nil {
			return fmt.Errorf("deleting members: %w", err)
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", company.OwnerID).
			Updates(map[string]interface{}{
				"company_id":    nil,
				"is_registered": false,
			}).Error; err != nil {
			return fmt.Errorf("detaching owner: %w", err)
		}

		if err := tx.Delete(&model.Company{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting company: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// MarkExpired flips active subscriptions whose window has lapsed. Returns
// the number of companies touched.
func (r *CompanyRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Company{}).
		Where("subscription_status = ? AND subscription_end_date < ?", model.SubscriptionActive, now).
		UpdateColumn("subscription_status", model.SubscriptionExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("marking expired subscriptions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
