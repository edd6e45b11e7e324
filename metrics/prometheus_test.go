package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOperation(t *testing.T) {
	m := New("test")
	m.ObserveOperation("reserve", time.Now(), nil)
	m.ObserveOperation("reserve", time.Now(), errors.New("boom"))
	m.ObserveOperation("reserve", time.Now(), errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("reserve", ResultOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("reserve", ResultError)))
}

func TestRoomCounters(t *testing.T) {
	m := New("test")
	m.RoomsListed(4)
	m.RoomSkipped(SkipDeleted)
	m.RoomSkipped(SkipDecode)
	m.RoomSkipped(SkipDecode)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.roomsListed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.roomsSkipped.WithLabelValues(SkipDeleted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.roomsSkipped.WithLabelValues(SkipDecode)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("list", time.Now(), nil)
		m.RoomsListed(1)
		m.RoomSkipped(SkipLookup)
		m.HTTPRequest("GET", "/api/rooms", 200)
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("hotel")
	m.HTTPRequest("GET", "/api/rooms", 200)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hotel_http_requests_total{method="GET",route="/api/rooms",status="200"} 1`)
}
