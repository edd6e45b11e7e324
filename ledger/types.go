package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolRejected means the node dropped the transaction from its pool.
	ErrPoolRejected = errors.New("transaction rejected by pool")
	// ErrNotConfirmed means the wait window elapsed without a confirmed round.
	ErrNotConfirmed = errors.New("transaction not confirmed")
)

// APIError is a non-2xx answer from the node or the indexer.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ledger api: status %d", e.Status)
	}
	return fmt.Sprintf("ledger api: status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from either service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

// TEAL value types as reported in global state.
const (
	TealBytesType uint64 = 1
	TealUintType  uint64 = 2
)

type TealValue struct {
	Type  uint64 `json:"type"`
	Bytes string `json:"bytes"`
	Uint  uint64 `json:"uint"`
}

// TealKeyValue is one global-state entry; Key and Value.Bytes are base64.
type TealKeyValue struct {
	Key   string    `json:"key"`
	Value TealValue `json:"value"`
}

type ApplicationParams struct {
	Creator     string         `json:"creator"`
	GlobalState []TealKeyValue `json:"global-state"`
}

type Application struct {
	ID             uint64            `json:"id"`
	Deleted        bool              `json:"deleted"`
	CreatedAtRound uint64            `json:"created-at-round"`
	Params         ApplicationParams `json:"params"`
}

type PendingTransaction struct {
	ConfirmedRound   uint64 `json:"confirmed-round"`
	PoolError        string `json:"pool-error"`
	ApplicationIndex uint64 `json:"application-index"`
	Txn              struct {
		Txn struct {
			ApplicationID uint64 `json:"apid"`
			Type          string `json:"type"`
		} `json:"txn"`
	} `json:"txn"`
}

type NodeStatus struct {
	LastRound uint64 `json:"last-round"`
}

type Account struct {
	Address    string `json:"address"`
	Amount     uint64 `json:"amount"`
	MinBalance uint64 `json:"min-balance"`
}
