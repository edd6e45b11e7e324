package ledger

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/go-resty/resty/v2"
)

// validityWindow matches the SDK default for suggested params.
const validityWindow = 1000

// NodeClient talks to the ledger node REST API.
type NodeClient struct {
	http *resty.Client
}

func NewNodeClient(baseURL, token string, timeout time.Duration) *NodeClient {
	return &NodeClient{http: newRestClient(baseURL, "X-Algo-API-Token", token, timeout)}
}

type paramsResponse struct {
	ConsensusVersion string `json:"consensus-version"`
	Fee              uint64 `json:"fee"`
	GenesisHash      []byte `json:"genesis-hash"`
	GenesisID        string `json:"genesis-id"`
	LastRound        uint64 `json:"last-round"`
	MinFee           uint64 `json:"min-fee"`
}

func (c *NodeClient) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	var p paramsResponse
	resp, err := c.http.R().SetContext(ctx).Get("/v2/transactions/params")
	if err := decode(resp, err, &p); err != nil {
		return types.SuggestedParams{}, fmt.Errorf("suggested params: %w", err)
	}
	return types.SuggestedParams{
		Fee:              types.MicroAlgos(p.Fee),
		GenesisID:        p.GenesisID,
		GenesisHash:      p.GenesisHash,
		FirstRoundValid:  types.Round(p.LastRound),
		LastRoundValid:   types.Round(p.LastRound + validityWindow),
		ConsensusVersion: p.ConsensusVersion,
		MinFee:           p.MinFee,
	}, nil
}

// Compile sends program source to the node and returns the compiled bytes.
func (c *NodeClient) Compile(ctx context.Context, source []byte) ([]byte, error) {
	var out struct {
		Hash   string `json:"hash"`
		Result string `json:"result"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain").
		SetBody(source).
		Post("/v2/teal/compile")
	if err := decode(resp, err, &out); err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	program, err := base64.StdEncoding.DecodeString(out.Result)
	if err != nil {
		return nil, fmt.Errorf("compile: decode result: %w", err)
	}
	return program, nil
}

// SendRawTransaction submits one signed transaction or a concatenated group.
func (c *NodeClient) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	var out struct {
		TxID string `json:"txId"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-binary").
		SetBody(raw).
		Post("/v2/transactions")
	if err := decode(resp, err, &out); err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return out.TxID, nil
}

func (c *NodeClient) PendingTransaction(ctx context.Context, txID string) (PendingTransaction, error) {
	var out PendingTransaction
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("txid", txID).
		SetQueryParam("format", "json").
		Get("/v2/transactions/pending/{txid}")
	if err := decode(resp, err, &out); err != nil {
		return PendingTransaction{}, fmt.Errorf("pending transaction %s: %w", txID, err)
	}
	return out, nil
}

func (c *NodeClient) Status(ctx context.Context) (NodeStatus, error) {
	var out NodeStatus
	resp, err := c.http.R().SetContext(ctx).Get("/v2/status")
	if err := decode(resp, err, &out); err != nil {
		return NodeStatus{}, fmt.Errorf("status: %w", err)
	}
	return out, nil
}

// StatusAfterBlock blocks on the node until a round after round is reached.
func (c *NodeClient) StatusAfterBlock(ctx context.Context, round uint64) (NodeStatus, error) {
	var out NodeStatus
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("round", strconv.FormatUint(round, 10)).
		Get("/v2/status/wait-for-block-after/{round}")
	if err := decode(resp, err, &out); err != nil {
		return NodeStatus{}, fmt.Errorf("wait for block after %d: %w", round, err)
	}
	return out, nil
}

// WaitForConfirmation polls the pending pool for at most rounds rounds.
func (c *NodeClient) WaitForConfirmation(ctx context.Context, txID string, rounds uint64) (PendingTransaction, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return PendingTransaction{}, err
	}
	start := status.LastRound + 1
	for current := start; current < start+rounds; current++ {
		pt, err := c.PendingTransaction(ctx, txID)
		switch {
		case err != nil && !IsNotFound(err):
			return PendingTransaction{}, err
		case err == nil && pt.ConfirmedRound > 0:
			return pt, nil
		case err == nil && pt.PoolError != "":
			return pt, fmt.Errorf("%w: %s", ErrPoolRejected, pt.PoolError)
		}
		if _, err := c.StatusAfterBlock(ctx, current); err != nil {
			return PendingTransaction{}, err
		}
	}
	return PendingTransaction{}, fmt.Errorf("%w: %s after %d rounds", ErrNotConfirmed, txID, rounds)
}

func (c *NodeClient) Account(ctx context.Context, address string) (Account, error) {
	var out Account
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("address", address).
		Get("/v2/accounts/{address}")
	if err := decode(resp, err, &out); err != nil {
		return Account{}, fmt.Errorf("account %s: %w", address, err)
	}
	return out, nil
}
