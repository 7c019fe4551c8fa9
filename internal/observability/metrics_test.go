package observability

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/auth/users/login", http.MethodPost, http.StatusOK, 5*time.Millisecond)
	m.RecordRequest("/auth/users/login", http.MethodPost, http.StatusOK, 7*time.Millisecond)
	m.RecordRequest("/auth/users/login", http.MethodPost, http.StatusUnauthorized, 3*time.Millisecond)

	require.EqualValues(t, 2, m.RequestTotal("/auth/users/login", http.MethodPost, http.StatusOK))
	require.EqualValues(t, 1, m.RequestTotal("/auth/users/login", http.MethodPost, http.StatusUnauthorized))
	require.Zero(t, m.RequestTotal("/auth/logout", http.MethodPost, http.StatusOK))
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/x", http.MethodGet, http.StatusOK, 0)
	m.RecordError("/x", http.MethodGet, "INTERNAL_ERROR")
	require.Zero(t, m.RequestTotal("/x", http.MethodGet, http.StatusOK))
}
