package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubStrategy struct {
	provider Provider
	ready    error
	invoke   func(ctx context.Context, call Call) (Result, error)

	calls atomic.Int32
	mu    sync.Mutex
	seen  []Call
}

func (s *stubStrategy) Provider() Provider { return s.provider }

func (s *stubStrategy) Ready() error { return s.ready }

func (s *stubStrategy) Invoke(ctx context.Context, call Call) (Result, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.seen = append(s.seen, call)
	s.mu.Unlock()
	if s.invoke == nil {
		return Success("ok"), nil
	}
	return s.invoke(ctx, call)
}

type recordedCall struct {
	provider Provider
	model    string
	kind     ResultKind
}

type stubRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *stubRecorder) ObserveAnalysis(provider Provider, model string, kind ResultKind, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{provider, model, kind})
}

func newTestService(t *testing.T, timeout time.Duration, strategies ...Strategy) *AnalysisService {
	t.Helper()
	registry, err := NewRegistry(DefaultModels()...)
	require.NoError(t, err)

	svc, err := NewAnalysisService(registry, strategies, zaptest.NewLogger(t), nil, nil, timeout, 2)
	require.NoError(t, err)
	return svc
}

func TestAnalyzeLocalReturnsReportVerbatim(t *testing.T) {
	local := &stubStrategy{provider: ProviderLocal, invoke: func(context.Context, Call) (Result, error) {
		return Success("Risk Score: 92"), nil
	}}
	cloud := &stubStrategy{provider: ProviderCloud}
	svc := newTestService(t, 0, local, cloud)

	got := svc.AnalyzeText(context.Background(), AnalysisRequest{
		ModelKey: "Local LLM",
		Text:     "URGENT: wire $5000 now",
		Mode:     ModeSingle,
	})

	assert.Equal(t, "Risk Score: 92", got)
	require.Len(t, local.seen, 1)
	assert.Equal(t, "local-model", local.seen[0].Model.ProviderModel)
	assert.Equal(t, SelectPrompt(ModeSingle), local.seen[0].Prompt)
	assert.Equal(t, int32(0), cloud.calls.Load())
}

func TestAnalyzeMissingCloudCredential(t *testing.T) {
	cloud := &stubStrategy{
		provider: ProviderCloud,
		ready:    &ConfigError{Message: "GEMINI_API_KEY not found in environment or .env file."},
	}
	svc := newTestService(t, 0, &stubStrategy{provider: ProviderLocal}, cloud)

	got := svc.AnalyzeText(context.Background(), AnalysisRequest{ModelKey: "Cloud: Gemini Flash (Fast)", Mode: ModeSingle})

	assert.True(t, strings.HasPrefix(got, ErrorMarker+" Configuration Error: "))
	assert.Contains(t, got, "GEMINI_API_KEY")
	assert.Equal(t, int32(0), cloud.calls.Load())
	assert.False(t, svc.CloudAvailable())
}

func TestAnalyzeUnknownModelNeverCallsProviders(t *testing.T) {
	local := &stubStrategy{provider: ProviderLocal}
	cloud := &stubStrategy{provider: ProviderCloud}
	svc := newTestService(t, 0, local, cloud)

	images := []*Image{nil, {Data: []byte{1}, MIMEType: "image/png"}}
	for _, text := range []string{"", "evidence"} {
		for _, img := range images {
			for _, mode := range []Mode{ModeSingle, ModeCompare, ""} {
				res := svc.Analyze(context.Background(), AnalysisRequest{ModelKey: "NotAModel", Text: text, Image: img, Mode: mode})
				assert.Equal(t, KindConfigError, res.Kind)
				assert.Equal(t, "❌ Configuration Error: Model 'NotAModel' not found.", res.String())
			}
		}
	}

	assert.Equal(t, int32(0), local.calls.Load())
	assert.Equal(t, int32(0), cloud.calls.Load())
}

func TestAnalyzeEmptyResponseIsDistinct(t *testing.T) {
	cloud := &stubStrategy{provider: ProviderCloud, invoke: func(context.Context, Call) (Result, error) {
		return Empty("Possible Safety Filter Trigger"), nil
	}}
	svc := newTestService(t, 0, &stubStrategy{provider: ProviderLocal}, cloud)

	got := svc.AnalyzeText(context.Background(), AnalysisRequest{ModelKey: "Cloud: Gemini Flash (Fast)", Text: "x"})

	assert.Equal(t, "⚠️ AI returned no text (Possible Safety Filter Trigger).", got)
	assert.True(t, strings.HasPrefix(got, WarningMarker))
	assert.False(t, strings.HasPrefix(got, ErrorMarker))
}

func TestAnalyzeProviderErrorNamesProvider(t *testing.T) {
	local := &stubStrategy{provider: ProviderLocal, invoke: func(context.Context, Call) (Result, error) {
		return Result{}, fmt.Errorf("failed to create chat completion: %w", errors.New("connection refused"))
	}}
	svc := newTestService(t, 0, local, &stubStrategy{provider: ProviderCloud})

	got := svc.AnalyzeText(context.Background(), AnalysisRequest{ModelKey: "Local LLM", Text: "x"})

	assert.True(t, strings.HasPrefix(got, "❌ Inference Error (LOCAL): "))
	assert.Contains(t, got, "connection refused")
}

func TestAnalyzeRecoversFromPanic(t *testing.T) {
	local := &stubStrategy{provider: ProviderLocal, invoke: func(context.Context, Call) (Result, error) {
		panic("nil map write")
	}}
	svc := newTestService(t, 0, local, &stubStrategy{provider: ProviderCloud})

	res := svc.Analyze(context.Background(), AnalysisRequest{ModelKey: "Local LLM", Text: "x"})

	assert.Equal(t, KindProviderError, res.Kind)
	assert.Equal(t, ProviderLocal, res.Provider)
	assert.Contains(t, res.Text, "nil map write")
}

func TestAnalyzeTimesOut(t *testing.T) {
	local := &stubStrategy{provider: ProviderLocal, invoke: func(ctx context.Context, _ Call) (Result, error) {
		<-ctx.Done()
		return Result{}, ctx.Err()
	}}
	svc := newTestService(t, 20*time.Millisecond, local, &stubStrategy{provider: ProviderCloud})

	res := svc.Analyze(context.Background(), AnalysisRequest{ModelKey: "Local LLM", Text: "x"})

	assert.Equal(t, KindProviderError, res.Kind)
	assert.Contains(t, res.Text, "no response within 20ms")
}

func TestAnalyzeIgnoresCallerCancellation(t *testing.T) {
	local := &stubStrategy{provider: ProviderLocal, invoke: func(ctx context.Context, _ Call) (Result, error) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		return Success("done"), nil
	}}
	svc := newTestService(t, time.Second, local, &stubStrategy{provider: ProviderCloud})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := svc.Analyze(ctx, AnalysisRequest{ModelKey: "Local LLM", Text: "x"})
	assert.Equal(t, Success("done"), res)
}

func TestAnalyzeIsIdempotentWithDeterministicProviders(t *testing.T) {
	local := &stubStrategy{provider: ProviderLocal, invoke: func(_ context.Context, call Call) (Result, error) {
		return Success(fmt.Sprintf("%s|%s|%s", call.Model.ProviderModel, call.Mode, call.Text)), nil
	}}
	svc := newTestService(t, 0, local, &stubStrategy{provider: ProviderCloud})

	req := AnalysisRequest{ModelKey: "Local LLM", Text: "same evidence", Mode: ModeCompare}
	first := svc.AnalyzeText(context.Background(), req)
	second := svc.AnalyzeText(context.Background(), req)

	assert.Equal(t, first, second)
	assert.Equal(t, "local-model|COMPARE|same evidence", first)
}

func TestAnalyzeDefaultsToSingleMode(t *testing.T) {
	local := &stubStrategy{provider: ProviderLocal}
	svc := newTestService(t, 0, local, &stubStrategy{provider: ProviderCloud})

	svc.Analyze(context.Background(), AnalysisRequest{ModelKey: "Local LLM", Text: "x"})

	require.Len(t, local.seen, 1)
	assert.Equal(t, ModeSingle, local.seen[0].Mode)
	assert.Equal(t, SelectPrompt(ModeSingle), local.seen[0].Prompt)
}

func TestAnalyzeRejectsUnknownMode(t *testing.T) {
	local := &stubStrategy{provider: ProviderLocal}
	svc := newTestService(t, 0, local, &stubStrategy{provider: ProviderCloud})

	res := svc.Analyze(context.Background(), AnalysisRequest{ModelKey: "Local LLM", Text: "x", Mode: "DEEP"})

	assert.Equal(t, KindConfigError, res.Kind)
	assert.Equal(t, int32(0), local.calls.Load())
}

func TestAnalyzeSanitizesReport(t *testing.T) {
	local := &stubStrategy{provider: ProviderLocal, invoke: func(context.Context, Call) (Result, error) {
		return Success("Risk\x00 Score:\x1b 10\n\tok\xff"), nil
	}}
	svc := newTestService(t, 0, local, &stubStrategy{provider: ProviderCloud})

	got := svc.AnalyzeText(context.Background(), AnalysisRequest{ModelKey: "Local LLM", Text: "x"})
	assert.Equal(t, "Risk Score: 10\n\tok", got)
}

func TestAnalyzeRecordsEveryCall(t *testing.T) {
	rec := &stubRecorder{}
	registry, err := NewRegistry(DefaultModels()...)
	require.NoError(t, err)
	svc, err := NewAnalysisService(registry, []Strategy{
		&stubStrategy{provider: ProviderLocal},
		&stubStrategy{provider: ProviderCloud, ready: &ConfigError{Message: "no key"}},
	}, zaptest.NewLogger(t), rec, nil, 0, 1)
	require.NoError(t, err)

	svc.Analyze(context.Background(), AnalysisRequest{ModelKey: "Local LLM", Text: "x"})
	svc.Analyze(context.Background(), AnalysisRequest{ModelKey: "Cloud: Gemini 3 pro (thinking)", Text: "x"})

	assert.Equal(t, []recordedCall{
		{ProviderLocal, "local-model", KindSuccess},
		{ProviderCloud, "gemini-3-pro-preview", KindConfigError},
	}, rec.calls)
}

func TestCompareAssociatesResultsWithKeys(t *testing.T) {
	respond := func(_ context.Context, call Call) (Result, error) {
		if call.Model.ProviderModel == "gemini-flash-latest" {
			time.Sleep(10 * time.Millisecond)
		}
		return Success("report from " + call.Model.ProviderModel), nil
	}
	local := &stubStrategy{provider: ProviderLocal, invoke: respond}
	cloud := &stubStrategy{provider: ProviderCloud, invoke: respond}
	svc := newTestService(t, 0, local, cloud)

	entries := svc.Compare(context.Background(), "evidence", nil,
		"Cloud: Gemini Flash (Fast)", "Local LLM", "Missing")

	require.Len(t, entries, 3)
	assert.Equal(t, "Cloud: Gemini Flash (Fast)", entries[0].ModelKey)
	assert.Equal(t, "report from gemini-flash-latest", entries[0].Result.Text)
	assert.Equal(t, "Local LLM", entries[1].ModelKey)
	assert.Equal(t, "report from local-model", entries[1].Result.Text)
	assert.Equal(t, "Missing", entries[2].ModelKey)
	assert.Equal(t, KindConfigError, entries[2].Result.Kind)

	for _, c := range append(local.seen, cloud.seen...) {
		assert.Equal(t, ModeCompare, c.Mode)
		assert.Equal(t, SelectPrompt(ModeCompare), c.Prompt)
	}
}

func TestNewAnalysisServiceRequiresStrategyPerProvider(t *testing.T) {
	registry, err := NewRegistry(DefaultModels()...)
	require.NoError(t, err)

	_, err = NewAnalysisService(registry, []Strategy{&stubStrategy{provider: ProviderLocal}}, nil, nil, nil, 0, 0)
	assert.ErrorContains(t, err, "GOOGLE")

	_, err = NewAnalysisService(registry, []Strategy{
		&stubStrategy{provider: ProviderLocal},
		&stubStrategy{provider: ProviderLocal},
		&stubStrategy{provider: ProviderCloud},
	}, nil, nil, nil, 0, 0)
	assert.ErrorContains(t, err, "more than one strategy")
}
