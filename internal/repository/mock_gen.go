// internal/repository/mock_gen.go
package repository

//go:generate mockgen -source=./user.go -destination=../mocks/mock_user_repository.go -package=mocks UserRepositoryIface
//go:generate mockgen -source=./company.go -destination=../mocks/mock_company_repository.go -package=mocks CompanyRepositoryIface
//go:generate mockgen -source=./plan.go -destination=../mocks/mock_plan_repository.go -package=mocks PlanRepositoryIface
//go:generate mockgen -source=./project.go -destination=../mocks/mock_project_repository.go -package=mocks ProjectRepositoryIface
