package wallet

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/go-resty/resty/v2"
)

type signRequest struct {
	Txns []string `json:"txns"`
}

type signResponse struct {
	Signed  []string `json:"signed"`
	Message string   `json:"message,omitempty"`
}

// RemoteSigner hands unsigned transactions to an external wallet bridge and
// waits for the user to approve them there.
type RemoteSigner struct {
	http *resty.Client
}

func NewRemoteSigner(baseURL string, timeout time.Duration) *RemoteSigner {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &RemoteSigner{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
}

func (s *RemoteSigner) SignTransactions(ctx context.Context, txns []types.Transaction) ([][]byte, error) {
	req := signRequest{Txns: make([]string, len(txns))}
	for i, tx := range txns {
		req.Txns[i] = base64.StdEncoding.EncodeToString(msgpack.Encode(tx))
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/sign")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var out signResponse
	decodeErr := json.Unmarshal(resp.Body(), &out)
	switch code := resp.StatusCode(); {
	case code >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, code)
	case code >= http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrRejected, out.Message)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("wallet response: %w", decodeErr)
	}

	if len(out.Signed) != len(txns) {
		return nil, fmt.Errorf("%w: got %d signatures for %d transactions", ErrRejected, len(out.Signed), len(txns))
	}
	signed := make([][]byte, len(out.Signed))
	for i, blob := range out.Signed {
		b, err := base64.StdEncoding.DecodeString(blob)
		if err != nil {
			return nil, fmt.Errorf("signed txn %d: %w", i, err)
		}
		signed[i] = b
	}
	return signed, nil
}
