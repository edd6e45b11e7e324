package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hotel-chain/controllers"
	"hotel-chain/metrics"
	"hotel-chain/models"
	"hotel-chain/services"
)

type emptyGateway struct{}

func (emptyGateway) ListRooms(context.Context) ([]models.Room, error) { return nil, nil }
func (emptyGateway) GetRoom(context.Context, uint64) (models.Room, error) {
	return models.Room{}, services.ErrRoomNotFound
}
func (emptyGateway) CreateRoom(context.Context, string, models.RoomFields) (uint64, error) {
	return 1, nil
}
func (emptyGateway) Reserve(context.Context, string, models.Room, int) error { return nil }
func (emptyGateway) EndReservation(context.Context, string, models.Room) error { return nil }
func (emptyGateway) DeleteRoom(context.Context, string, uint64) (uint64, error) { return 1, nil }
func (emptyGateway) Balance(context.Context, string) (uint64, error) { return 0, nil }

func newTestRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gw := emptyGateway{}
	return SetupRouter(
		controllers.NewRoomController(gw, nil),
		controllers.NewAccountController(gw),
		controllers.NewTransactionController(services.NopJournal{}),
		Options{CORSOrigins: origins, Logger: zap.NewNop(), Metrics: metrics.New("test")},
	)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestAPIRoutesRegistered(t *testing.T) {
	r := newTestRouter(nil)
	want := map[string]bool{
		"GET /api/rooms":                     false,
		"POST /api/rooms":                    false,
		"DELETE /api/rooms/:id":              false,
		"POST /api/rooms/:id/reservations":   false,
		"DELETE /api/rooms/:id/reservations": false,
		"GET /api/accounts/:address/balance": false,
		"GET /api/transactions":              false,
	}
	for _, route := range r.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, found := range want {
		assert.True(t, found, route)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	r := newTestRouter([]string{"https://hotel.example"})

	req := httptest.NewRequest(http.MethodOptions, "/api/rooms", nil)
	req.Header.Set("Origin", "https://hotel.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://hotel.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	assert.False(t, corsConfig(nil).AllowCredentials)
	assert.Equal(t, []string{"*"}, corsConfig(nil).AllowOrigins)
}
