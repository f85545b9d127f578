package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crewbase/crewbase/internal/auth"
	"github.com/crewbase/crewbase/internal/domain"
	"github.com/crewbase/crewbase/internal/middleware"
	"github.com/crewbase/crewbase/internal/mocks"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotNil(t, middleware.UserFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tm := auth.NewTokenManager("test_secret", time.Hour)
	user := &model.User{ID: uuid.New(), Role: model.RoleManager}

	t.Run("accepts a token from the cookie", func(t *testing.T) {
		users := mocks.NewMockUserRepositoryIface(ctrl)
		users.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		token, err := tm.Generate(user.ID.String(), user.Role)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		auth.SetAuthCookie(rec, token, time.Hour, false)

		req := httptest.NewRequest("GET", "/", nil)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}

		res := httptest.NewRecorder()
		middleware.Authenticate(tm, users)(okHandler(t)).ServeHTTP(res, req)

		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("accepts a bearer token", func(t *testing.T) {
		users := mocks.NewMockUserRepositoryIface(ctrl)
		users.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		token, err := tm.Generate(user.ID.String(), user.Role)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		res := httptest.NewRecorder()
		middleware.Authenticate(tm, users)(okHandler(t)).ServeHTTP(res, req)

		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		users := mocks.NewMockUserRepositoryIface(ctrl)

		req := httptest.NewRequest("GET", "/", nil)
		res := httptest.NewRecorder()
		middleware.Authenticate(tm, users)(okHandler(t)).ServeHTTP(res, req)

		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		users := mocks.NewMockUserRepositoryIface(ctrl)

		forged, err := auth.NewTokenManager("other_secret", time.Hour).Generate(user.ID.String(), user.Role)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+forged)

		res := httptest.NewRecorder()
		middleware.Authenticate(tm, users)(okHandler(t)).ServeHTTP(res, req)

		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("rejects a deleted account", func(t *testing.T) {
		users := mocks.NewMockUserRepositoryIface(ctrl)
		users.EXPECT().FindByID(gomock.Any(), user.ID).Return(nil, domain.ErrUserNotFound)

		token, err := tm.Generate(user.ID.String(), user.Role)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		res := httptest.NewRecorder()
		middleware.Authenticate(tm, users)(okHandler(t)).ServeHTTP(res, req)

		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}

func TestCompanyStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	companyID := uuid.New()
	planID := uuid.New()

	serve := func(companies *mocks.MockCompanyRepositoryIface, user *model.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(middleware.WithUser(req.Context(), user))
		res := httptest.NewRecorder()
		middleware.CompanyStatus(companies)(okHandler(t)).ServeHTTP(res, req)
		return res
	}

	t.Run("passes privileged roles through", func(t *testing.T) {
		companies := mocks.NewMockCompanyRepositoryIface(ctrl)
		res := serve(companies, &model.User{ID: uuid.New(), Role: model.RoleSuperAdmin})
		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("rejects a member without a company", func(t *testing.T) {
		companies := mocks.NewMockCompanyRepositoryIface(ctrl)
		res := serve(companies, &model.User{ID: uuid.New(), Role: model.RoleUser})
		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.Contains(t, res.Body.String(), "not attached to a company")
	})

	t.Run("rejects a blocked company", func(t *testing.T) {
		companies := mocks.NewMockCompanyRepositoryIface(ctrl)
		company := &model.Company{ID: companyID}
		company.Subscription.Status = model.SubscriptionBlocked
		companies.EXPECT().FindByID(gomock.Any(), companyID).Return(company, nil)

		res := serve(companies, &model.User{ID: uuid.New(), Role: model.RoleUser, CompanyID: &companyID})
		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.Contains(t, res.Body.String(), "blocked")
	})

	t.Run("rejects a lapsed end date even while marked active", func(t *testing.T) {
		companies := mocks.NewMockCompanyRepositoryIface(ctrl)
		lapsed := time.Now().UTC().Add(-time.Hour)
		company := &model.Company{ID: companyID}
		company.Subscription.PlanID = &planID
		company.Subscription.Status = model.SubscriptionActive
		company.Subscription.EndDate = &lapsed
		companies.EXPECT().FindByID(gomock.Any(), companyID).Return(company, nil)

		res := serve(companies, &model.User{ID: uuid.New(), Role: model.RoleManager, CompanyID: &companyID})
		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.Contains(t, res.Body.String(), "expired")
	})

	t.Run("allows an active subscription", func(t *testing.T) {
		companies := mocks.NewMockCompanyRepositoryIface(ctrl)
		end := time.Now().UTC().AddDate(0, 0, 30)
		company := &model.Company{ID: companyID}
		company.Subscription.PlanID = &planID
		company.Subscription.Status = model.SubscriptionActive
		company.Subscription.EndDate = &end
		companies.EXPECT().FindByID(gomock.Any(), companyID).Return(company, nil)

		res := serve(companies, &model.User{ID: uuid.New(), Role: model.RoleManager, CompanyID: &companyID})
		assert.Equal(t, http.StatusOK, res.Code)
	})
}

func TestRequireRole(t *testing.T) {
	serve := func(user *model.User, roles ...model.Role) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/", nil)
		if user != nil {
			req = req.WithContext(middleware.WithUser(req.Context(), user))
		}
		res := httptest.NewRecorder()
		middleware.RequireRole(roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(res, req)
		return res
	}

	t.Run("allows a listed role", func(t *testing.T) {
		res := serve(&model.User{Role: model.RoleManager}, model.RoleManager, model.RoleCompanyOwner)
		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("rejects an unlisted role", func(t *testing.T) {
		res := serve(&model.User{Role: model.RoleUser}, model.RoleManager)
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("rejects an unauthenticated request", func(t *testing.T) {
		res := serve(nil, model.RoleManager)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}
