package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ObserveIndexed(3)
	m.ObserveIndexed(2)
	m.SetIndexSize(5)
	m.ObserveSearch(OutcomeHit, time.Millisecond)
	m.ObserveSearch(OutcomeMiss, time.Millisecond)
	m.ObserveSearch(OutcomeHit, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.documentsIndexed))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.chunksIndexed))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.indexChunks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.searchTotal.WithLabelValues(OutcomeHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searchTotal.WithLabelValues(OutcomeMiss)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.searchDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveIndexed(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "lexrag_documents_indexed_total 1"))
}
