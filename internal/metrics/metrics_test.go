package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveExternalCall_Outcome(t *testing.T) {
	ObserveExternalCall("test-ok", time.Now(), nil)
	ObserveExternalCall("test-failing", time.Now(), errors.New("boom"))

	body := scrape(t)

	assert.Contains(t, body, `cooked_external_calls_total{collaborator="test-ok",outcome="ok"} 1`)
	assert.Contains(t, body, `cooked_external_calls_total{collaborator="test-failing",outcome="error"} 1`)
}

func TestObserveHTTPRequest_Labels(t *testing.T) {
	ObserveHTTPRequest(http.MethodPost, "POST /test", http.StatusUnprocessableEntity, time.Millisecond)

	body := scrape(t)

	assert.Contains(t, body, `cooked_http_requests_total{method="POST",route="POST /test",status="422"} 1`)
}

func TestObserveOverallScore_Histogram(t *testing.T) {
	ObserveOverallScore(7)

	assert.Contains(t, scrape(t), "cooked_overall_score_bucket")
}
