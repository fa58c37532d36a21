package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersAndHandler(t *testing.T) {
	before := testutil.ToFloat64(DecodeErrors.WithLabelValues("dao", "Voted"))
	DecodeErrors.WithLabelValues("dao", "Voted").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(DecodeErrors.WithLabelValues("dao", "Voted")))

	Events.WithLabelValues("dao").Set(4)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.Contains(body, `activity_events{set="dao"} 4`))
	require.Contains(t, body, "activity_decode_errors_total")
}
