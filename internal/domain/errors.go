// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Company-related errors
	ErrCompanyNotFound      = errors.New("company not found")
	ErrCompanyNameTaken     = errors.New("company name already taken")
	ErrAlreadyRegistered    = errors.New("owner already registered a company")
	ErrNoCompany            = errors.New("user is not attached to a company")
	ErrSubscriptionBlocked  = errors.New("company subscription is blocked")
	ErrSubscriptionExpired  = errors.New("company subscription has expired")
	ErrNoActiveSubscription = errors.New("company has no active subscription")

	// Capacity errors
	ErrManagerLimitReached  = errors.New("manager limit reached for the current plan")
	ErrEmployeeLimitReached = errors.New("employee limit reached for the current plan")

	// Plan-related errors
	ErrPlanNotFound  = errors.New("plan not found")
	ErrPlanNameTaken = errors.New("plan name already exists")

	// Project-related errors
	ErrProjectNotFound = errors.New("project not found")
	ErrNotProjectOwner = errors.New("project does not belong to this owner")
	ErrNotAssignedTo   = errors.New("project is not assigned to this manager")

	// Payment-related errors
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrInvalidAmount     = errors.New("invalid payment amount")
)
