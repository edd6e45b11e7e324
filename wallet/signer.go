// Package wallet signs transactions on behalf of a user account.
package wallet

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

var (
	// ErrRejected means the wallet refused to sign.
	ErrRejected = errors.New("wallet rejected signing request")
	// ErrUnavailable means the wallet could not be reached.
	ErrUnavailable = errors.New("wallet unavailable")
)

// Signer returns one signed blob per transaction, in order.
type Signer interface {
	SignTransactions(ctx context.Context, txns []types.Transaction) ([][]byte, error)
}

// AccountSigner holds a single account key in process.
type AccountSigner struct {
	address types.Address
	key     ed25519.PrivateKey
}

func NewAccountSigner(phrase string) (*AccountSigner, error) {
	sk, err := mnemonic.ToPrivateKey(strings.TrimSpace(phrase))
	if err != nil {
		return nil, fmt.Errorf("wallet mnemonic: %w", err)
	}
	return NewAccountSignerFromKey(sk)
}

func NewAccountSignerFromKey(sk ed25519.PrivateKey) (*AccountSigner, error) {
	acct, err := crypto.AccountFromPrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("wallet key: %w", err)
	}
	return &AccountSigner{address: acct.Address, key: acct.PrivateKey}, nil
}

func (s *AccountSigner) Address() string { return s.address.String() }

func (s *AccountSigner) SignTransactions(ctx context.Context, txns []types.Transaction) ([][]byte, error) {
	signed := make([][]byte, 0, len(txns))
	for i, tx := range txns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if tx.Sender != s.address {
			return nil, fmt.Errorf("%w: txn %d sender %s is not %s", ErrRejected, i, tx.Sender, s.address)
		}
		_, blob, err := crypto.SignTransaction(s.key, tx)
		if err != nil {
			return nil, fmt.Errorf("sign txn %d: %w", i, err)
		}
		signed = append(signed, blob)
	}
	return signed, nil
}
