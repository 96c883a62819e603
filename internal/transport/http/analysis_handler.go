package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "rfmpulse/internal/errors"
	"rfmpulse/internal/exporter"
)

// analysisQuery holds the query parameters shared by the analysis routes
type analysisQuery struct {
	Period   string   `query:"period" validate:"max=64"`
	Segments []string `query:"segment" validate:"max=5,dive,required,max=64"`
}

// AnalysisHandler serves the analysis API
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	validate     *validator.Validate
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *AnalysisHandler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("query")
	})
	return &AnalysisHandler{
		service:      service,
		validate:     v,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "analysis")),
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/summary", h.GetSummary)
		r.Get("/customers", h.GetCustomers)
		r.Get("/segments", h.GetSegments)
		r.Get("/strategies", h.GetStrategies)
	})
	r.Get("/strategies.csv", h.DownloadStrategies)

	return r
}

// GetSummary handles GET /api/analysis/summary
func (h *AnalysisHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Summary(r.Context(), q.Period)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetCustomers handles GET /api/analysis/customers
func (h *AnalysisHandler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	report, err := h.service.Customers(r.Context(), q.Period)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetSegments handles GET /api/analysis/segments
func (h *AnalysisHandler) GetSegments(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	report, err := h.service.Segments(r.Context(), q.Period)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetStrategies handles GET /api/analysis/strategies. The segment parameter
// may be repeated to select several segments.
func (h *AnalysisHandler) GetStrategies(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	report, err := h.service.Strategies(r.Context(), q.Period, q.Segments)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// DownloadStrategies handles GET /api/analysis/strategies.csv
func (h *AnalysisHandler) DownloadStrategies(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	report, err := h.service.Strategies(r.Context(), q.Period, q.Segments)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.EncodeStrategies(&buf, report.Profiles); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("encode strategies: %w", err))
		return
	}

	filename := exporter.StrategyFileName(report.Period)
	h.logger.InfoContext(r.Context(), "strategy export served",
		slog.String("run_id", report.RunID),
		slog.String("filename", filename),
		slog.Int("segments", len(report.Profiles)))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// parseQuery reads and validates the query parameters. On failure the
// problem response is already written.
func (h *AnalysisHandler) parseQuery(w http.ResponseWriter, r *http.Request) (analysisQuery, bool) {
	values := r.URL.Query()
	q := analysisQuery{
		Period:   strings.TrimSpace(values.Get("period")),
		Segments: values["segment"],
	}

	if err := h.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			h.errorHandler.HandleError(w, r, apperrors.ErrValidation(fe.Field(),
				fmt.Sprintf("failed %q constraint", fe.Tag())))
			return q, false
		}
		h.errorHandler.HandleError(w, r, err)
		return q, false
	}
	return q, true
}
