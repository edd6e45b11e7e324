package contracts

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"hotel-chain/ledger"
	"hotel-chain/models"
)

// Global-state keys written by the approval program.
const (
	KeyName        = "NAME"
	KeyImage       = "IMAGE"
	KeyDescription = "DESCRIPTION"
	KeyPrice       = "PRICE"
	KeyReserveEnds = "RESERVE_ENDS"
	KeyReserved    = "RESERVED"
	KeyReservedTo  = "RESERVED_TO"
)

// ErrDecode wraps every failure to read a room out of global state.
var ErrDecode = errors.New("decode room state")

type fieldKind int

const (
	kindString fieldKind = iota
	kindUint
	kindAddress
)

// stateField describes one key: how it is typed and where it lands on a Room.
// Absent keys leave the Room field at its zero value, which is the default.
// Fields marked reservedOnly are not read at all unless RESERVED is 1.
type stateField struct {
	key          string
	kind         fieldKind
	reservedOnly bool
	apply        func(r *models.Room, v decodedValue)
}

type decodedValue struct {
	str  string
	num  uint64
	addr string
}

// roomSchema is ordered: RESERVED must precede the fields that depend on it.
var roomSchema = []stateField{
	{KeyName, kindString, false, func(r *models.Room, v decodedValue) { r.Name = v.str }},
	{KeyImage, kindString, false, func(r *models.Room, v decodedValue) { r.ImageURL = v.str }},
	{KeyDescription, kindString, false, func(r *models.Room, v decodedValue) { r.Description = v.str }},
	{KeyPrice, kindUint, false, func(r *models.Room, v decodedValue) { r.PricePerNight = v.num }},
	{KeyReserved, kindUint, false, func(r *models.Room, v decodedValue) { r.IsReserved = v.num == 1 }},
	{KeyReserveEnds, kindUint, true, func(r *models.Room, v decodedValue) { r.ReservationEndTime = v.num }},
	{KeyReservedTo, kindAddress, true, func(r *models.Room, v decodedValue) { r.ReservedToAddress = v.addr }},
}

// DecodeRoom projects an indexer application record onto a Room.
func DecodeRoom(app ledger.Application) (models.Room, error) {
	room := models.Room{
		ID:              app.ID,
		CreatorAddress:  app.Params.Creator,
		ContractAddress: crypto.GetApplicationAddress(app.ID).String(),
	}

	state := make(map[string]ledger.TealValue, len(app.Params.GlobalState))
	for _, kv := range app.Params.GlobalState {
		key, err := base64.StdEncoding.DecodeString(kv.Key)
		if err != nil {
			return models.Room{}, fmt.Errorf("%w: app %d: key %q: %v", ErrDecode, app.ID, kv.Key, err)
		}
		state[string(key)] = kv.Value
	}

	for _, f := range roomSchema {
		if f.reservedOnly && !room.IsReserved {
			continue
		}
		raw, ok := state[f.key]
		if !ok {
			continue
		}
		v, err := decodeValue(f, raw)
		if err != nil {
			return models.Room{}, fmt.Errorf("%w: app %d: %s: %v", ErrDecode, app.ID, f.key, err)
		}
		f.apply(&room, v)
	}
	return room, nil
}

func decodeValue(f stateField, raw ledger.TealValue) (decodedValue, error) {
	switch f.kind {
	case kindUint:
		if raw.Type != ledger.TealUintType {
			return decodedValue{}, fmt.Errorf("want uint, got type %d", raw.Type)
		}
		if f.key == KeyReserved && raw.Uint > 1 {
			return decodedValue{}, fmt.Errorf("flag out of range: %d", raw.Uint)
		}
		return decodedValue{num: raw.Uint}, nil
	case kindString, kindAddress:
		if raw.Type != ledger.TealBytesType {
			return decodedValue{}, fmt.Errorf("want bytes, got type %d", raw.Type)
		}
		b, err := base64.StdEncoding.DecodeString(raw.Bytes)
		if err != nil {
			return decodedValue{}, err
		}
		if f.kind == kindString {
			return decodedValue{str: string(b)}, nil
		}
		if len(b) != len(types.Address{}) {
			return decodedValue{}, fmt.Errorf("address is %d bytes", len(b))
		}
		var addr types.Address
		copy(addr[:], b)
		return decodedValue{addr: addr.String()}, nil
	}
	return decodedValue{}, fmt.Errorf("unknown field kind %d", f.kind)
}

// EncodeState is the inverse of DecodeRoom for the contract-owned keys.
func EncodeState(room models.Room) ([]ledger.TealKeyValue, error) {
	bytesKV := func(key string, b []byte) ledger.TealKeyValue {
		return ledger.TealKeyValue{
			Key:   base64.StdEncoding.EncodeToString([]byte(key)),
			Value: ledger.TealValue{Type: ledger.TealBytesType, Bytes: base64.StdEncoding.EncodeToString(b)},
		}
	}
	uintKV := func(key string, n uint64) ledger.TealKeyValue {
		return ledger.TealKeyValue{
			Key:   base64.StdEncoding.EncodeToString([]byte(key)),
			Value: ledger.TealValue{Type: ledger.TealUintType, Uint: n},
		}
	}

	var reserved, ends uint64
	var reservedTo []byte
	if room.IsReserved {
		addr, err := types.DecodeAddress(room.ReservedToAddress)
		if err != nil {
			return nil, fmt.Errorf("reserved-to address: %w", err)
		}
		reserved, ends, reservedTo = 1, room.ReservationEndTime, addr[:]
	}

	return []ledger.TealKeyValue{
		bytesKV(KeyName, []byte(room.Name)),
		bytesKV(KeyImage, []byte(room.ImageURL)),
		bytesKV(KeyDescription, []byte(room.Description)),
		uintKV(KeyPrice, room.PricePerNight),
		uintKV(KeyReserved, reserved),
		uintKV(KeyReserveEnds, ends),
		bytesKV(KeyReservedTo, reservedTo),
	}, nil
}

// CreateArgs orders the creation arguments as the approval program reads them.
func CreateArgs(f models.RoomFields) [][]byte {
	return [][]byte{
		[]byte(f.Name),
		[]byte(f.ImageURL),
		[]byte(f.Description),
		Uint64Arg(f.PricePerNight),
	}
}

func ReserveArgs(nights uint64) [][]byte {
	return [][]byte{[]byte(MethodMake), Uint64Arg(nights)}
}

func EndArgs() [][]byte {
	return [][]byte{[]byte(MethodEnd)}
}
