package http

import (
	"context"

	"rfmpulse/internal/services"
	"rfmpulse/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the analysis operations used by the handlers
type AnalysisServiceInterface interface {
	Summary(ctx context.Context, period string) (*domain.ExecutiveSummary, error)
	Customers(ctx context.Context, period string) (*services.CustomersReport, error)
	Segments(ctx context.Context, period string) (*services.SegmentsReport, error)
	Strategies(ctx context.Context, period string, segments []string) (*services.StrategiesReport, error)
}

// HealthServiceInterface defines the health operations used by the handlers
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
