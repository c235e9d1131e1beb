package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/phishguard/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultCallTimeout bounds a single provider call when none is configured
const DefaultCallTimeout = 90 * time.Second

// AnalysisService orchestrates analysis calls across providers.
// It keeps no state between calls beyond the immutable registry and the
// strategies handed to it at construction.
type AnalysisService struct {
	registry      *Registry
	strategies    map[Provider]Strategy
	logger        *zap.Logger
	recorder      Recorder
	textProcessor *utils.TextProcessor
	timeout       time.Duration
	arenaWorkers  int
}

// ArenaEntry is one model's outcome in a comparison run
type ArenaEntry struct {
	ModelKey string
	Result   Result
}

// NewAnalysisService creates the orchestrator. Every provider used by a
// registered model must have exactly one strategy.
func NewAnalysisService(
	registry *Registry,
	strategies []Strategy,
	logger *zap.Logger,
	recorder Recorder,
	textProcessor *utils.TextProcessor,
	timeout time.Duration,
	arenaWorkers int,
) (*AnalysisService, error) {
	bound := make(map[Provider]Strategy, len(strategies))
	for _, s := range strategies {
		if _, dup := bound[s.Provider()]; dup {
			return nil, fmt.Errorf("more than one strategy for provider %s", s.Provider())
		}
		bound[s.Provider()] = s
	}

	for _, p := range registry.Providers() {
		if _, ok := bound[p]; !ok {
			return nil, fmt.Errorf("no strategy registered for provider %s", p)
		}
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if textProcessor == nil {
		textProcessor = utils.NewTextProcessor(logger)
	}
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	if arenaWorkers <= 0 {
		arenaWorkers = 2
	}

	return &AnalysisService{
		registry:      registry,
		strategies:    bound,
		logger:        logger,
		recorder:      recorder,
		textProcessor: textProcessor,
		timeout:       timeout,
		arenaWorkers:  arenaWorkers,
	}, nil
}

// Registry returns the model registry used by the service
func (s *AnalysisService) Registry() *Registry {
	return s.registry
}

// CloudAvailable reports whether the cloud provider has a usable credential
func (s *AnalysisService) CloudAvailable() bool {
	strategy, ok := s.strategies[ProviderCloud]
	return ok && strategy.Ready() == nil
}

// Analyze runs one analysis and returns its tagged result.
// It never panics and never returns a raw transport error.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) Result {
	start := time.Now()

	model, err := s.registry.Lookup(req.ModelKey)
	if err != nil {
		s.logger.Warn("Unknown model requested", zap.String("model", req.ModelKey))
		return ConfigFailure(fmt.Sprintf("Model '%s' not found.", req.ModelKey))
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeSingle
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return ConfigFailure(err.Error())
	}

	call := Call{
		Model:  model,
		Prompt: SelectPrompt(mode),
		Text:   req.Text,
		Image:  req.Image,
		Mode:   mode,
	}

	result := s.invoke(ctx, s.strategies[model.Provider], call)
	result.Text = s.textProcessor.SanitizeOutput(result.Text)
	elapsed := time.Since(start)

	s.recorder.ObserveAnalysis(model.Provider, model.ProviderModel, result.Kind, elapsed)

	fields := []zap.Field{
		zap.String("model", model.DisplayName),
		zap.String("provider", string(model.Provider)),
		zap.String("mode", string(mode)),
		zap.String("outcome", result.Kind.String()),
		zap.Bool("has_text", req.Text != ""),
		zap.Bool("has_image", req.Image != nil),
		zap.Duration("elapsed", elapsed),
	}
	if result.OK() {
		s.logger.Info("Analysis completed", fields...)
	} else {
		s.logger.Warn("Analysis did not produce a report", append(fields, zap.String("reason", result.Text))...)
	}

	return result
}

// AnalyzeText runs one analysis and renders it to the display string
func (s *AnalysisService) AnalyzeText(ctx context.Context, req AnalysisRequest) string {
	return s.Analyze(ctx, req).String()
}

// Compare runs a Compare-mode analysis of the same evidence against each
// model key. Entries are returned in the order of keys and carry their key.
func (s *AnalysisService) Compare(ctx context.Context, text string, image *Image, keys ...string) []ArenaEntry {
	entries := make([]ArenaEntry, len(keys))

	var g errgroup.Group
	g.SetLimit(s.arenaWorkers)
	for i, key := range keys {
		g.Go(func() error {
			entries[i] = ArenaEntry{
				ModelKey: key,
				Result: s.Analyze(ctx, AnalysisRequest{
					ModelKey: key,
					Text:     text,
					Image:    image,
					Mode:     ModeCompare,
				}),
			}
			return nil
		})
	}
	_ = g.Wait()

	return entries
}

// invoke runs the strategy under the call timeout. The call is detached from
// the caller's cancellation so an abandoned request still runs to completion.
func (s *AnalysisService) invoke(ctx context.Context, strategy Strategy, call Call) (result Result) {
	provider := strategy.Provider()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Provider strategy panicked",
				zap.String("provider", string(provider)),
				zap.Any("panic", r))
			result = ProviderFailure(provider, fmt.Sprintf("internal failure: %v", r))
		}
	}()

	if err := strategy.Ready(); err != nil {
		return ResultFromError(provider, err)
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	res, err := strategy.Invoke(callCtx, call)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return ProviderFailure(provider, fmt.Sprintf("no response within %s", s.timeout))
		}
		return ResultFromError(provider, err)
	}

	return res
}
