// Package contracts holds the reservation contract programs and the
// global-state contract shared with the client.
package contracts

import (
	_ "embed"
	"encoding/binary"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

//go:embed teal/hotel_approval.teal
var approvalSource []byte

//go:embed teal/hotel_clear.teal
var clearSource []byte

// Note tags every creation transaction so rooms can be found by prefix search.
const Note = "hotel-reservation:uv1"

// HoldingFee is paid with every reservation and refunded when it ends.
const HoldingFee uint64 = 1_000_000

// MinTxnFee is the network minimum flat fee in micro-units.
const MinTxnFee uint64 = 1_000

const (
	MethodMake = "make"
	MethodEnd  = "end"
)

var (
	GlobalSchema = types.StateSchema{NumUint: 3, NumByteSlice: 4}
	LocalSchema  = types.StateSchema{NumUint: 0, NumByteSlice: 0}
)

// ApprovalSource returns a copy of the approval program text.
func ApprovalSource() []byte { return append([]byte(nil), approvalSource...) }

// ClearSource returns a copy of the clear-state program text.
func ClearSource() []byte { return append([]byte(nil), clearSource...) }

func NoteBytes() []byte { return []byte(Note) }

// Uint64Arg encodes n the way the contract's btoi reads it.
func Uint64Arg(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
