package engine

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/germanamz/anmd/pkg/batch"
	"github.com/germanamz/anmd/pkg/modeladapter"
	"github.com/germanamz/anmd/pkg/modeladapter/usage"
	"github.com/germanamz/anmd/pkg/settings"
)

// Config holds process-wide options shared by every run.
type Config struct {
	Logger     *slog.Logger // nil uses slog.Default()
	TempDir    string       // scratch parent for batch runs; "" uses os.TempDir()
	HTTPClient *http.Client // nil uses modeladapter.DefaultClient

	// BeforeWrite is passed through to every batch.Processor.
	BeforeWrite func(path, old, new string)
}

// Engine turns a session into a batch run.
type Engine struct {
	cfg Config
}

// New creates an Engine.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Engine{cfg: cfg}
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger { return e.cfg.Logger }

// Result is the outcome of Run.
type Result struct {
	batch.Summary

	Usage     usage.TokenCount            // tokens spent across the run
	Calls     int                         // completion calls that reported usage
	RateLimit *modeladapter.RateLimitInfo // last quota seen, nil when unknown
	Elapsed   time.Duration               // wall time of the batch
}

// Run validates s, builds its completer, and processes the batch, sending
// progress to r. A *settings.ValidationError means nothing was touched.
func (e *Engine) Run(ctx context.Context, s settings.Session, r batch.Reporter) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	pc := ProviderConfigFromSession(s)
	pc.HTTPClient = e.cfg.HTTPClient

	completer, err := NewCompleter(pc)
	if err != nil {
		return Result{}, err
	}

	p := &batch.Processor{
		Completer:   completer,
		Reporter:    r,
		Logger:      e.cfg.Logger,
		TempDir:     e.cfg.TempDir,
		BeforeWrite: e.cfg.BeforeWrite,
	}

	e.cfg.Logger.Debug("batch starting", "provider", pc.Kind, "model", s.Model, "inputs", len(s.TextFiles))

	start := time.Now()
	sum, runErr := p.Run(ctx, batch.JobFromSession(s))

	res := Result{Summary: sum, Elapsed: time.Since(start)}
	if ur, ok := completer.(modeladapter.UsageReporter); ok {
		tracker := ur.UsageTracker()
		res.Usage = tracker.Total()
		res.Calls = tracker.Count()
	}
	if rr, ok := completer.(modeladapter.RateLimitInfoReporter); ok {
		res.RateLimit = rr.LastRateLimitInfo()
	}

	e.cfg.Logger.Debug("batch done", "calls", res.Calls, "tokens", res.Usage.String(), "elapsed", res.Elapsed)

	return res, runErr
}
