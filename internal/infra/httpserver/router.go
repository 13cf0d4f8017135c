package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	appai "github.com/bryanwahyu/boardroom-ai/internal/application/ai"
	domai "github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
	"github.com/bryanwahyu/boardroom-ai/internal/domain/analyst"
	"github.com/bryanwahyu/boardroom-ai/internal/middleware"
)

// maxBodyBytes bounds an analyze request including extracted document text.
const maxBodyBytes = 16 << 20

// Options carries the optional pieces of the HTTP stack. Nil fields are skipped.
type Options struct {
	Log         *zap.Logger
	APIKeys     map[string]string
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Gatherer    prometheus.Gatherer
	Checkers    map[string]middleware.HealthChecker
	CORSOrigins []string
}

type Router struct {
	aiSvc *appai.Service
	log   *zap.Logger
}

func NewRouter(aiSvc *appai.Service, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{aiSvc: aiSvc, log: log}
	mux := chi.NewRouter()

	mux.Use(middleware.Logging(log))
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	if opts.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		if len(opts.APIKeys) > 0 {
			rt.Use(middleware.APIKeyAuth(opts.APIKeys))
		}
		rt.Use(middleware.RequireValidTenant)
		if opts.RateLimiter != nil {
			rt.Use(middleware.RateLimitMiddleware(opts.RateLimiter))
		}

		rt.Post("/ai/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/ai/analyses", r.wrap(r.handleList))
		rt.Get("/ai/analyses/{id}", r.wrap(r.handleGet))
		rt.Get("/ai/providers", r.wrap(r.handleProviders))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type errorBody struct {
	Error string `json:"error"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var cfgErr *domai.ConfigurationError
		switch {
		case errors.As(err, &cfgErr):
			available := cfgErr.Available
			if available == nil {
				available = []string{}
			}
			writeJSONStatus(w, http.StatusServiceUnavailable, struct {
				Error     string   `json:"error"`
				Available []string `json:"available"`
			}{cfgErr.Error(), available})
		case errors.Is(err, middleware.ErrInvalidInput):
			writeJSONStatus(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		case errors.Is(err, sql.ErrNoRows):
			writeJSONStatus(w, http.StatusNotFound, errorBody{Error: "not found"})
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeJSONStatus(w, http.StatusTooManyRequests, errorBody{Error: "ai quota exceeded"})
		case errors.Is(err, appai.ErrStorageDisabled):
			writeJSONStatus(w, http.StatusNotImplemented, errorBody{Error: err.Error()})
		default:
			r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			writeJSONStatus(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		}
	}
}

type analyzeBody struct {
	Prompt    string           `json:"prompt"`
	Documents []domai.Document `json:"documents"`
	Action    string           `json:"action"`
	Store     bool             `json:"store"`
}

// POST /v1/{tenant}/ai/analyze
// Body: {"prompt": "...", "documents": [{"name", "extractedText"}], "action": "", "store": false}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body analyzeBody
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return fmt.Errorf("%w: decode body: %v", middleware.ErrInvalidInput, err)
	}

	prompt, err := middleware.ValidatePrompt(body.Prompt)
	if err != nil {
		return err
	}
	docs, err := middleware.ValidateDocuments(body.Documents)
	if err != nil {
		return err
	}
	action, err := middleware.ValidateAction(body.Action)
	if err != nil {
		return err
	}
	aiReq := domai.NewAnalysisRequest(prompt, docs, action)

	if body.Store {
		a, err := r.aiSvc.AnalyzeAndStore(req.Context(), tenant, aiReq)
		if err != nil {
			return err
		}
		writeJSONStatus(w, http.StatusCreated, a)
		return nil
	}

	resp, err := r.aiSvc.Analyze(req.Context(), aiReq)
	if err != nil {
		return err
	}
	writeJSONStatus(w, http.StatusOK, resp)
	return nil
}

// GET /v1/{tenant}/ai/analyses?page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	page = middleware.ValidatePage(page)
	size = middleware.ValidateLimit(size)

	list, err := r.aiSvc.ListAnalyses(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*analyst.Analysis{}
	}
	writeJSONStatus(w, http.StatusOK, map[string]any{
		"page":      page,
		"page_size": size,
		"items":     list,
	})
	return nil
}

// GET /v1/{tenant}/ai/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return err
	}

	a, err := r.aiSvc.GetAnalysis(req.Context(), tenant, id)
	if err != nil {
		return err
	}
	writeJSONStatus(w, http.StatusOK, a)
	return nil
}

// GET /v1/{tenant}/ai/providers
func (r *Router) handleProviders(w http.ResponseWriter, _ *http.Request) error {
	writeJSONStatus(w, http.StatusOK, r.aiSvc.Providers())
	return nil
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
