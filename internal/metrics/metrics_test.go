package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAnalysisCountsByOutcome(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveAnalysis(core.ProviderLocal, "local-model", core.KindSuccess, 2*time.Second)
	m.ObserveAnalysis(core.ProviderLocal, "local-model", core.KindSuccess, time.Second)
	m.ObserveAnalysis(core.ProviderCloud, "gemini-flash-latest", core.KindConfigError, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.providerReqs.WithLabelValues("LOCAL", "local-model", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerReqs.WithLabelValues("GOOGLE", "gemini-flash-latest", "config_error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.providerLatency))
}

func TestObserveIntake(t *testing.T) {
	m := New(nil)

	m.ObserveIntake("reported")
	m.ObserveIntake("rejected")
	m.ObserveIntake("reported")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.intakeMessages.WithLabelValues("reported")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveAnalysis(core.ProviderBedrock, "anthropic.claude", core.KindProviderError, time.Second)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, "phishguard_provider_requests_total"))
	assert.True(t, strings.Contains(body, `outcome="provider_error"`))
}
