package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoles map[string]entity.Role

func (s stubRoles) GetRole(_ context.Context, email string) (entity.Role, error) {
	if email == "broken@x" {
		return "", errors.New("connection reset")
	}
	return s[email], nil
}

type gateFixture struct {
	issuer  *auth.Issuer
	gate    *Gate
	metrics *metrics.Manager
	calls   int
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	issuer, err := auth.NewIssuer("gate-secret", time.Hour, false)
	require.NoError(t, err)

	f := &gateFixture{issuer: issuer, metrics: metrics.NewManager("test")}
	roles := stubRoles{"admin@x": entity.RoleAdmin, "seller@x": entity.RoleSeller, "c@x": entity.RoleCustomer}
	f.gate = NewGate(issuer, roles, f.metrics, logger.NewNop())
	return f
}

func (f *gateFixture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls++
		_, _ = w.Write([]byte(CallerEmail(r.Context())))
	})
}

func (f *gateFixture) token(t *testing.T, email string) string {
	t.Helper()
	token, err := f.issuer.Issue(email)
	require.NoError(t, err)
	return token
}

func TestRequireAuthenticated(t *testing.T) {
	f := newGateFixture(t)
	h := f.gate.RequireAuthenticated(f.handler())

	t.Run("no credential", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plant/1", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"unauthorized access"}`, rec.Body.String())
		assert.Equal(t, 0, f.calls)
	})

	t.Run("tampered credential", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/plant/1", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: f.token(t, "c@x") + "x"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 0, f.calls)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/plant/1", nil)
		req.AddCookie(f.issuer.SessionCookie(f.token(t, "c@x")))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "c@x", rec.Body.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/plant/1", nil)
		req.Header.Set("Authorization", "Bearer "+f.token(t, "seller@x"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "seller@x", rec.Body.String())
	})

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AuthRejectionsTotal.WithLabelValues("missing_token")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AuthRejectionsTotal.WithLabelValues("invalid_token")))
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		roles      []entity.Role
		wantStatus int
		wantCalled bool
	}{
		{name: "admin passes admin check", email: "admin@x", roles: []entity.Role{entity.RoleAdmin}, wantStatus: http.StatusOK, wantCalled: true},
		{name: "customer fails seller check", email: "c@x", roles: []entity.Role{entity.RoleSeller}, wantStatus: http.StatusForbidden},
		{name: "unknown user is forbidden", email: "ghost@x", roles: []entity.Role{entity.RoleCustomer}, wantStatus: http.StatusForbidden},
		{name: "any of several roles", email: "admin@x", roles: []entity.Role{entity.RoleSeller, entity.RoleAdmin}, wantStatus: http.StatusOK, wantCalled: true},
		{name: "lookup failure", email: "broken@x", roles: []entity.Role{entity.RoleAdmin}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGateFixture(t)
			h := f.gate.RequireAuthenticated(f.gate.RequireRole(tt.roles...)(f.handler()))

			req := httptest.NewRequest(http.MethodPatch, "/orders/1", nil)
			req.AddCookie(f.issuer.SessionCookie(f.token(t, tt.email)))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, f.calls == 1)
		})
	}
}

func TestRequireRole_WithoutAuthenticationIsUnauthorized(t *testing.T) {
	f := newGateFixture(t)
	h := f.gate.RequireRole(entity.RoleAdmin)(f.handler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/all-users/a@x", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, f.calls)
}

func TestRequireRole_ForbiddenMessage(t *testing.T) {
	f := newGateFixture(t)
	h := f.gate.RequireAuthenticated(f.gate.RequireRole(entity.RoleSeller)(f.handler()))

	req := httptest.NewRequest(http.MethodPost, "/plants", nil)
	req.AddCookie(f.issuer.SessionCookie(f.token(t, "c@x")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Forbidden Access! seller only Actions"}`, rec.Body.String())
}
