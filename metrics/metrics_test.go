package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsAreIndependent(t *testing.T) {
	a := New()
	b := New()

	a.BlocksForged.Inc()
	a.Resolutions.WithLabelValues(OutcomeReplaced).Inc()

	require.Equal(t, 1.0, testutil.ToFloat64(a.BlocksForged))
	require.Equal(t, 0.0, testutil.ToFloat64(b.BlocksForged))
	require.Equal(t, 1.0, testutil.ToFloat64(a.Resolutions.WithLabelValues(OutcomeReplaced)))
	require.Equal(t, 0.0, testutil.ToFloat64(a.Resolutions.WithLabelValues(OutcomeKept)))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ChainLength.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "ledger_chain_length 3")
	require.Contains(t, string(body), "ledger_blocks_forged_total 0")
}
