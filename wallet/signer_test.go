package wallet

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() types.SuggestedParams {
	return types.SuggestedParams{
		Fee:             0,
		GenesisID:       "testnet-v1.0",
		GenesisHash:     make([]byte, 32),
		FirstRoundValid: 1,
		LastRoundValid:  1001,
		MinFee:          1000,
	}
}

func paymentFrom(t *testing.T, from types.Address) types.Transaction {
	to := crypto.GenerateAccount()
	tx, err := transaction.MakePaymentTxn(from.String(), to.Address.String(), 1000, nil, "", testParams())
	require.NoError(t, err)
	return tx
}

func TestAccountSigner_FromMnemonic(t *testing.T) {
	acct := crypto.GenerateAccount()
	phrase, err := mnemonic.FromPrivateKey(acct.PrivateKey)
	require.NoError(t, err)

	s, err := NewAccountSigner(phrase)
	require.NoError(t, err)
	assert.Equal(t, acct.Address.String(), s.Address())

	signed, err := s.SignTransactions(context.Background(), []types.Transaction{paymentFrom(t, acct.Address)})
	require.NoError(t, err)
	require.Len(t, signed, 1)

	var stx types.SignedTxn
	require.NoError(t, msgpack.Decode(signed[0], &stx))
	assert.Equal(t, acct.Address, stx.Txn.Sender)
}

func TestAccountSigner_RejectsForeignSender(t *testing.T) {
	acct := crypto.GenerateAccount()
	other := crypto.GenerateAccount()
	s, err := NewAccountSignerFromKey(acct.PrivateKey)
	require.NoError(t, err)

	_, err = s.SignTransactions(context.Background(), []types.Transaction{paymentFrom(t, other.Address)})
	require.ErrorIs(t, err, ErrRejected)
}

func TestAccountSigner_BadMnemonic(t *testing.T) {
	_, err := NewAccountSigner("not a real phrase")
	require.Error(t, err)
}

func TestRemoteSigner(t *testing.T) {
	acct := crypto.GenerateAccount()
	tx := paymentFrom(t, acct.Address)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sign", r.URL.Path)
		var req signRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) || !assert.Len(t, req.Txns, 1) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		raw, err := base64.StdEncoding.DecodeString(req.Txns[0])
		assert.NoError(t, err)
		var got types.Transaction
		assert.NoError(t, msgpack.Decode(raw, &got))
		assert.Equal(t, acct.Address, got.Sender)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(signResponse{Signed: []string{base64.StdEncoding.EncodeToString([]byte("signed"))}})
	}))
	defer srv.Close()

	signed, err := NewRemoteSigner(srv.URL, 0).SignTransactions(context.Background(), []types.Transaction{tx})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("signed")}, signed)
}

func TestRemoteSigner_UserRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(signResponse{Message: "user cancelled"})
	}))
	defer srv.Close()

	acct := crypto.GenerateAccount()
	_, err := NewRemoteSigner(srv.URL, 0).SignTransactions(context.Background(), []types.Transaction{paymentFrom(t, acct.Address)})
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "user cancelled")
}

func TestRemoteSigner_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	acct := crypto.GenerateAccount()
	_, err := NewRemoteSigner(srv.URL, 0).SignTransactions(context.Background(), []types.Transaction{paymentFrom(t, acct.Address)})
	require.ErrorIs(t, err, ErrUnavailable)
}
