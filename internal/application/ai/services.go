package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/boardroom-ai/internal/application"
	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
	"github.com/bryanwahyu/boardroom-ai/internal/domain/analyst"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/ai/fallback"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/ai/normalize"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/ai/parser"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/ai/prompt"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/metrics"
)

// FallbackProvider is recorded as the provider of degraded answers.
const FallbackProvider = "fallback"

// ErrStorageDisabled is returned by the storage use cases when no
// repository is wired.
var ErrStorageDisabled = errors.New("analysis storage is not configured")

// Registry is the provider registry seen by the service.
type Registry interface {
	CreateProvider() (ai.Generator, error)
	ListAvailable() []string
	Default() string
}

type Invoker interface {
	Invoke(ctx context.Context, gen ai.Generator, prompt string) (string, error)
}

type ResponseCache interface {
	Get(ctx context.Context, fingerprint string) (*ai.AIResponse, bool, error)
	Set(ctx context.Context, fingerprint string, resp *ai.AIResponse) error
}

type Metrics interface {
	ObserveAnalysis(provider, outcome string, d time.Duration)
	ObserveFallback(reason string)
	ObserveCache(hit bool)
}

// Service runs the analysis pipeline. Registry and Invoker are required;
// the rest may be nil.
type Service struct {
	Registry Registry
	Invoker  Invoker
	Fallback *fallback.Generator

	Repo    analyst.Repository
	Reports analyst.ReportStore
	Cache   ResponseCache
	Metrics Metrics
	Log     *zap.Logger
	Clock   application.Clock
	NewID   func() string

	// Timeout bounds one model invocation including retries. Zero means none.
	Timeout time.Duration
	// SurfaceQuota lets quota failures reach the caller instead of falling back.
	SurfaceQuota bool
}

// Outcome is the result of one pipeline run.
type Outcome struct {
	Response       ai.AIResponse
	Structured     *ai.StructuredResult
	Provider       string
	Degraded       bool
	FallbackReason string
	Cached         bool
}

// Analyze returns a well formed response for every request. The only errors
// are *ai.ConfigurationError, and quota failures when SurfaceQuota is set.
func (s *Service) Analyze(ctx context.Context, req ai.AnalysisRequest) (*ai.AIResponse, error) {
	out, err := s.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return &out.Response, nil
}

// Run is Analyze with the pipeline details kept.
func (s *Service) Run(ctx context.Context, req ai.AnalysisRequest) (*Outcome, error) {
	start := s.now()
	log := s.logger()

	gen, err := s.Registry.CreateProvider()
	if err != nil {
		s.observe("none", metrics.OutcomeConfig, start)
		log.Error("ai provider not configured", zap.Error(err))
		return nil, err
	}
	name := gen.Name()
	log.Debug("ai provider selected", zap.String("provider", name))

	fp := req.Fingerprint(name)
	if s.Cache != nil {
		cached, hit, err := s.Cache.Get(ctx, fp)
		if err != nil {
			log.Warn("ai cache lookup failed", zap.Error(err))
		}
		if s.Metrics != nil {
			s.Metrics.ObserveCache(hit)
		}
		if hit {
			s.observe(name, metrics.OutcomeCached, start)
			return &Outcome{Response: *cached, Provider: name, Cached: true}, nil
		}
	}

	structured, reason, err := s.generate(ctx, gen, req)
	if err != nil {
		return nil, err
	}

	if structured == nil {
		s.observe(name, metrics.OutcomeFallback, start)
		if s.Metrics != nil {
			s.Metrics.ObserveFallback(reason)
		}
		fb := s.fallback().Generate(req)
		return &Outcome{
			Response:       normalize.Normalize(fb),
			Structured:     fb,
			Provider:       FallbackProvider,
			Degraded:       true,
			FallbackReason: reason,
		}, nil
	}

	resp := normalize.Normalize(structured)
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, fp, &resp); err != nil {
			log.Warn("ai cache store failed", zap.Error(err))
		}
	}
	s.observe(name, metrics.OutcomeSuccess, start)
	return &Outcome{Response: resp, Structured: structured, Provider: name}, nil
}

// generate returns a nil result and the failure reason when the fallback
// should be used.
func (s *Service) generate(ctx context.Context, gen ai.Generator, req ai.AnalysisRequest) (*ai.StructuredResult, string, error) {
	log := s.logger().With(zap.String("provider", gen.Name()))

	callCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	raw, err := s.Invoker.Invoke(callCtx, gen, prompt.Build(req))
	if err != nil {
		if s.SurfaceQuota && errors.Is(err, ai.ErrQuotaExceeded) {
			return nil, "", err
		}
		kind := ai.KindOf(err)
		if kind == "" {
			kind = ai.KindOther
		}
		log.Warn("ai invocation failed, using fallback", zap.String("kind", string(kind)), zap.Error(err))
		return nil, string(kind), nil
	}

	structured, err := parser.Parse(raw)
	if err != nil {
		log.Warn("ai output not parseable, using fallback", zap.Error(err))
		log.Debug("unparseable ai output", zap.String("raw", raw))
		return nil, "parse", nil
	}
	return structured, "", nil
}

// AnalyzeAndStore runs the pipeline and persists the result.
func (s *Service) AnalyzeAndStore(ctx context.Context, tenant string, req ai.AnalysisRequest) (*analyst.Analysis, error) {
	if s.Repo == nil {
		return nil, ErrStorageDisabled
	}
	out, err := s.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := json.Marshal(out.Response)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}

	a := &analyst.Analysis{
		ID:             analyst.AnalysisID(s.newID()),
		TenantID:       tenant,
		Prompt:         req.Prompt(),
		Action:         string(req.Action()),
		DocumentCount:  len(req.Documents()),
		Provider:       out.Provider,
		Degraded:       out.Degraded,
		FallbackReason: out.FallbackReason,
		Result:         string(result),
		CreatedAt:      s.now(),
	}

	if s.Reports != nil && out.Structured != nil {
		report, err := json.Marshal(out.Structured)
		if err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
		url, err := s.Reports.PutReport(ctx, reportKey(tenant, string(a.ID)), report)
		if err != nil {
			// not fatal: the record is saved without a report URL
			s.logger().Warn("report upload failed", zap.String("analysis_id", string(a.ID)), zap.Error(err))
		} else {
			a.ReportURL = url
		}
	}

	if err := s.Repo.Save(ctx, a); err != nil {
		return nil, err
	}
	s.logger().Info("analysis stored",
		zap.String("analysis_id", string(a.ID)),
		zap.String("tenant", tenant),
		zap.String("provider", a.Provider),
		zap.Bool("degraded", a.Degraded),
	)
	return a, nil
}

func (s *Service) ListAnalyses(ctx context.Context, tenant string, page, pageSize int) ([]*analyst.Analysis, error) {
	if s.Repo == nil {
		return nil, ErrStorageDisabled
	}
	return s.Repo.Paginate(ctx, tenant, page, pageSize)
}

func (s *Service) GetAnalysis(ctx context.Context, tenant string, id string) (*analyst.Analysis, error) {
	if s.Repo == nil {
		return nil, ErrStorageDisabled
	}
	return s.Repo.Get(ctx, tenant, analyst.AnalysisID(id))
}

// ProviderStatus is what the status endpoint reports.
type ProviderStatus struct {
	Default   string   `json:"default"`
	Available []string `json:"available"`
}

func (s *Service) Providers() ProviderStatus {
	return ProviderStatus{Default: s.Registry.Default(), Available: s.Registry.ListAvailable()}
}

func (s *Service) observe(provider, outcome string, start time.Time) {
	if s.Metrics != nil {
		s.Metrics.ObserveAnalysis(provider, outcome, s.now().Sub(start))
	}
}

func (s *Service) fallback() *fallback.Generator {
	if s.Fallback == nil {
		return fallback.New(s.now)
	}
	return s.Fallback
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func reportKey(tenant, id string) string {
	return "reports/" + tenant + "/" + id + ".json"
}
