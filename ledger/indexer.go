package ledger

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// IndexerClient talks to the indexer REST API.
type IndexerClient struct {
	http *resty.Client
}

func NewIndexerClient(baseURL, token string, timeout time.Duration) *IndexerClient {
	return &IndexerClient{http: newRestClient(baseURL, "X-Indexer-API-Token", token, timeout)}
}

type transactionsPage struct {
	CurrentRound uint64 `json:"current-round"`
	NextToken    string `json:"next-token"`
	Transactions []struct {
		ID                      string `json:"id"`
		CreatedApplicationIndex uint64 `json:"created-application-index"`
	} `json:"transactions"`
}

// SearchAppCreations returns ids of applications created by app-call
// transactions whose note starts with notePrefix, from minRound on.
func (c *IndexerClient) SearchAppCreations(ctx context.Context, notePrefix []byte, minRound uint64) ([]uint64, error) {
	var ids []uint64
	next := ""
	for {
		req := c.http.R().
			SetContext(ctx).
			SetQueryParam("note-prefix", base64.StdEncoding.EncodeToString(notePrefix)).
			SetQueryParam("tx-type", "appl").
			SetQueryParam("min-round", strconv.FormatUint(minRound, 10))
		if next != "" {
			req.SetQueryParam("next", next)
		}

		var page transactionsPage
		resp, err := req.Get("/v2/transactions")
		if err := decode(resp, err, &page); err != nil {
			return nil, fmt.Errorf("search transactions: %w", err)
		}
		for _, tx := range page.Transactions {
			if tx.CreatedApplicationIndex != 0 {
				ids = append(ids, tx.CreatedApplicationIndex)
			}
		}
		if page.NextToken == "" || len(page.Transactions) == 0 {
			return ids, nil
		}
		next = page.NextToken
	}
}

// LookupApplication fetches an application including deleted ones.
func (c *IndexerClient) LookupApplication(ctx context.Context, appID uint64) (Application, error) {
	var out struct {
		Application  Application `json:"application"`
		CurrentRound uint64      `json:"current-round"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatUint(appID, 10)).
		SetQueryParam("include-all", "true").
		Get("/v2/applications/{id}")
	if err := decode(resp, err, &out); err != nil {
		return Application{}, fmt.Errorf("lookup application %d: %w", appID, err)
	}
	return out.Application, nil
}
