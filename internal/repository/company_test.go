package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

func TestFindAllPaginated(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewCompanyRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "companies"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`SELECT \* FROM "companies" ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(uuid.NewString(), "Acme").
			AddRow(uuid.NewString(), "Globex"))

	companies, total, err := repo.FindAllPaginated(context.Background(), 10, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	require.Len(t, companies, 2)
	assert.Equal(t, "Acme", companies[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewCompanyRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "companies" WHERE id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSubscriptionUnknownCompany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewCompanyRepository(db)

	mock.ExpectExec(`UPDATE "companies" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSubscription(context.Background(), uuid.New(), model.Subscription{
		Status: model.SubscriptionActive,
	})

	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMemberAtCapacity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewCompanyRepository(db)

	companyID := uuid.New()

	// The load must take a row lock so concurrent adds serialize on the cap
	// check.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "companies" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "subscription_max_managers", "subscription_current_managers",
		}).AddRow(companyID.String(), 2, 2))
	mock.ExpectRollback()

	err := repo.AddMember(context.Background(), companyID, &model.User{
		Name:  "One Too Many",
		Email: "extra@example.com",
		Role:  model.RoleManager,
	})

	assert.ErrorIs(t, err, domain.ErrManagerLimitReached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewCompanyRepository(db)

	mock.ExpectExec(`UPDATE "companies" SET "subscription_status"`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkExpired(context.Background(), time.Now().UTC())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
