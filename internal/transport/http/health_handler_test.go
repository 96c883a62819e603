package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rfmpulse/internal/services"
	"rfmpulse/internal/shared/testutil"
)

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func newHealthRouter(t *testing.T, svc HealthServiceInterface) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewHealthHandler(svc, logger)

	r := chi.NewRouter()
	r.Get("/api/health", h.HealthCheck)
	r.Get("/api/health/ready", h.ReadinessCheck)
	r.Get("/api/health/live", h.LivenessCheck)
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantStatus int
	}{
		{name: "ready", status: "ready", wantStatus: http.StatusOK},
		{name: "not ready", status: "not_ready", wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockHealthService)
			svc.On("ReadinessCheck").Return(services.HealthStatus{Status: tt.status, Timestamp: time.Now()})

			rec := serve(newHealthRouter(t, svc), "/api/health/ready")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.status, decodeBody(t, rec)["status"])
		})
	}
}

func TestHealthHandler_Endpoints(t *testing.T) {
	svc := new(MockHealthService)
	svc.On("HealthCheck").Return(services.HealthStatus{Status: "ok", Version: "1.0.0"})
	svc.On("LivenessCheck").Return(services.HealthStatus{Status: "alive"})
	svc.On("Version").Return(map[string]interface{}{"version": "1.0.0"})

	r := newHealthRouter(t, svc)

	rec := serve(r, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.0.0", decodeBody(t, rec)["version"])

	rec = serve(r, "/api/health/live")
	assert.Equal(t, "alive", decodeBody(t, rec)["status"])

	rec = serve(r, "/api/version")
	assert.Equal(t, "1.0.0", decodeBody(t, rec)["version"])

	svc.AssertExpectations(t)
}
