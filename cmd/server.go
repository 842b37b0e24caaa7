package main

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/meridian-risk/y14m-cli/internal/config"
	"github.com/meridian-risk/y14m-cli/internal/dataset"
	"github.com/meridian-risk/y14m-cli/internal/pipeline"
	"github.com/meridian-risk/y14m-cli/internal/report"
)

// reportServer exposes the pipeline as stateless HTTP endpoints. Every
// request is an independent invocation; the server holds configuration
// and rate-limiter state only, never dataset state.
type reportServer struct {
	cfg           *config.Config
	extraSynonyms map[string]string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newReportServer(cfg *config.Config, extraSynonyms map[string]string) *reportServer {
	return &reportServer{
		cfg:           cfg,
		extraSynonyms: extraSynonyms,
		limiters:      make(map[string]*rate.Limiter),
	}
}

// router wires middleware and routes.
func (s *reportServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(s.rateLimit)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/v1/report", s.handleReport)
	r.Post("/v1/report/csv", s.handleReportCSV)
	return r
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// rateLimit applies a per-client token bucket keyed by remote IP.
func (s *reportServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !s.limiter(host).Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *reportServer) limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(s.cfg.Server.RateLimitRPS), s.cfg.Server.RateLimitBurst)
		s.limiters[key] = l
	}
	return l
}

// reportResponse is the JSON body for POST /v1/report.
type reportResponse struct {
	ReportID  string          `json:"report_id"`
	Summary   summaryResponse `json:"summary"`
	Narrative string          `json:"narrative"`
}

type summaryResponse struct {
	ReportingDate    string `json:"reporting_date"`
	ProductCode      string `json:"product_code"`
	AccountCount     int    `json:"account_count"`
	TotalBalance     string `json:"total_balance"`
	MeanUtilization  string `json:"mean_utilization"`
	DelinquencyRate  string `json:"delinquency_rate"`
	ControlTotal     string `json:"control_total"`
	VarianceAmount   string `json:"variance_amount"`
	VariancePct      string `json:"variance_pct"`
	ExceedsTolerance bool   `json:"exceeds_tolerance"`
}

func toSummaryResponse(s report.Summary) summaryResponse {
	return summaryResponse{
		ReportingDate:    s.ReportingDate,
		ProductCode:      string(s.ProductCode),
		AccountCount:     s.AccountCount,
		TotalBalance:     s.TotalBalance.StringFixed(2),
		MeanUtilization:  s.MeanUtilization.StringFixed(4),
		DelinquencyRate:  s.DelinquencyRate.StringFixed(4),
		ControlTotal:     s.ControlTotal.StringFixed(2),
		VarianceAmount:   s.VarianceAmount.StringFixed(2),
		VariancePct:      s.VariancePct.StringFixed(2),
		ExceedsTolerance: s.ExceedsTolerance,
	}
}

// handleReport runs the pipeline over the request's dataset and returns
// the summary and narrative as JSON.
func (s *reportServer) handleReport(w http.ResponseWriter, r *http.Request) {
	reportID := uuid.NewString()

	_, summary, ok := s.runRequest(w, r, reportID)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{
		ReportID:  reportID,
		Summary:   toSummaryResponse(summary),
		Narrative: report.Narrative(summary),
	})
}

// handleReportCSV runs the pipeline and responds with the processed
// dataset as CSV.
func (s *reportServer) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	reportID := uuid.NewString()

	processed, summary, ok := s.runRequest(w, r, reportID)
	if !ok {
		return
	}

	name := dataset.CSVArtifactName(summary.ProductCode, summary.ReportingDate)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if err := dataset.WriteCSV(w, processed); err != nil {
		zap.L().Error("csv response write failed", zap.String("report_id", reportID), zap.Error(err))
	}
}

// runRequest parses one request, runs the stateless pipeline, and
// writes the error response when anything fails. On failure it reports
// ok=false and the response is already written.
func (s *reportServer) runRequest(w http.ResponseWriter, r *http.Request, reportID string) (dataset.Dataset, report.Summary, bool) {
	ds, params, err := s.parseRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return dataset.Dataset{}, report.Summary{}, false
	}

	processed, err := pipeline.Process(ds, pipeline.Options{
		ReportingDate: params.date,
		ProductCode:   params.product,
		Overrides:     params.overrides,
		ExtraSynonyms: s.extraSynonyms,
		ClipUtil:      params.clipUtil,
		RunID:         reportID,
	})
	if err != nil {
		writeDomainError(w, err)
		return dataset.Dataset{}, report.Summary{}, false
	}

	summary, err := report.Summarize(processed, params.control, s.cfg.Reporting.TolerancePct)
	if err != nil {
		writeDomainError(w, err)
		return dataset.Dataset{}, report.Summary{}, false
	}

	return processed, summary, true
}

// requestParams are the per-request reporting parameters, query or form
// supplied, defaulted from config.
type requestParams struct {
	date      time.Time
	product   dataset.ProductCode
	control   decimal.Decimal
	overrides map[string]string
	clipUtil  bool
}

// parseRequest extracts the dataset (multipart "file" part or raw CSV
// body) and the reporting parameters.
func (s *reportServer) parseRequest(r *http.Request) (dataset.Dataset, requestParams, error) {
	var (
		ds  dataset.Dataset
		err error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, ferr := r.FormFile("file")
		if ferr != nil {
			return dataset.Dataset{}, requestParams{}, errors.New(`multipart request needs a "file" part`)
		}
		defer file.Close()
		ds, err = dataset.ReadCSV(file)
	} else {
		ds, err = dataset.ReadCSV(r.Body)
	}
	if err != nil {
		return dataset.Dataset{}, requestParams{}, err
	}

	q := r.URL.Query()
	params := requestParams{clipUtil: q.Get("clip_util") == "true"}

	dateStr := q.Get("reporting_date")
	if dateStr == "" {
		dateStr = s.cfg.Reporting.Date
	}
	params.date, err = time.Parse("2006-01-02", dateStr)
	if err != nil {
		return dataset.Dataset{}, requestParams{}, errors.New("invalid reporting_date, want YYYY-MM-DD")
	}

	productStr := q.Get("product_code")
	if productStr == "" {
		productStr = s.cfg.Reporting.Product
	}
	params.product = dataset.ParseProduct(productStr)

	controlStr := q.Get("control_total")
	if controlStr == "" {
		params.control = decimal.NewFromFloat(s.cfg.Reporting.ControlTotal)
	} else {
		params.control, err = decimal.NewFromString(controlStr)
		if err != nil || params.control.IsNegative() {
			return dataset.Dataset{}, requestParams{}, errors.New("invalid control_total, want a non-negative number")
		}
	}

	params.overrides, err = parseMappings(q["map"])
	if err != nil {
		return dataset.Dataset{}, requestParams{}, err
	}

	return ds, params, nil
}

// writeDomainError maps pipeline errors onto HTTP statuses: structured
// input problems are 422 with their detail, anything else is 400.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		schemaErr    *pipeline.SchemaIncompleteError
		valueErr     *pipeline.MalformedValueError
		ambiguousErr *pipeline.AmbiguousColumnError
	)
	switch {
	case errors.As(err, &schemaErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":           "schema incomplete",
			"missing_columns": schemaErr.Missing,
		})
	case errors.As(err, &valueErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": "malformed value",
			"field": valueErr.Field,
			"row":   valueErr.Row,
			"value": valueErr.Value,
		})
	case errors.As(err, &ambiguousErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      "ambiguous columns",
			"collisions": ambiguousErr.Collisions,
		})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
