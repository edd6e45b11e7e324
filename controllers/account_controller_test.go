package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-chain/models"
)

type stubJournal struct {
	records []models.TxRecord
	err     error
	limit   int
}

func (s *stubJournal) Record(context.Context, *models.TxRecord) error { return nil }

func (s *stubJournal) Recent(_ context.Context, limit int) ([]models.TxRecord, error) {
	s.limit = limit
	return s.records, s.err
}

func TestGetBalance(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/accounts/:address/balance", NewAccountController(&fakeGateway{balance: 2_000_001}).GetBalance)

	code, env := do(t, r, http.MethodGet, "/api/accounts/"+sender+"/balance", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"address":"`+sender+`","balance":2000001,"balanceText":"2.000001"}`, string(env.Data))
}

func TestGetTransactions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	j := &stubJournal{records: []models.TxRecord{{ID: 3, Kind: models.TxKindReserve, Status: models.TxStatusConfirmed}}}
	r := gin.New()
	r.GET("/api/transactions", NewTransactionController(j).GetTransactions)

	code, env := do(t, r, http.MethodGet, "/api/transactions?limit=5", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5, j.limit)
	assert.Contains(t, string(env.Data), `"kind":"reserve"`)

	j.err = errors.New("db gone")
	code, _ = do(t, r, http.MethodGet, "/api/transactions", "")
	assert.Equal(t, http.StatusInternalServerError, code)

	code, _ = do(t, r, http.MethodGet, "/api/transactions?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, code)
}
