package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-chain/models"
)

const (
	creator = "CREATORCREATORCREATORCREATORCREATORCREATORCREATORCREATO"
	guest   = "GUESTGUESTGUESTGUESTGUESTGUESTGUESTGUESTGUESTGUESTGUESTG"
	other   = "OTHEROTHEROTHEROTHEROTHEROTHEROTHEROTHEROTHEROTHEROTHERO"
)

var now = time.Unix(1_700_000_000, 0).UTC()

func reservedRoom(ends int64) models.Room {
	return models.Room{
		ID:                 3,
		CreatorAddress:     creator,
		Name:               "Suite",
		PricePerNight:      5_000_000,
		IsReserved:         true,
		ReservedToAddress:  guest,
		ReservationEndTime: uint64(ends),
	}
}

func TestCardFor_Available(t *testing.T) {
	room := models.Room{ID: 1, CreatorAddress: creator, PricePerNight: 5_000_000}

	card := CardFor(room, other, now, 2)
	assert.Equal(t, StatusAvailable, card.Status)
	assert.Equal(t, ControlReserve, card.Control)
	assert.True(t, card.Enabled)
	assert.Equal(t, 2, card.Nights)
	assert.EqualValues(t, 11_000_000, card.TotalPrice)
	assert.Equal(t, "11", card.TotalPriceText)
	assert.Equal(t, "5", card.PriceText)
	assert.False(t, card.CanDelete)
	assert.Empty(t, card.ReservedToShort)
	assert.Empty(t, card.EndsText)
}

func TestCardFor_DefaultNights(t *testing.T) {
	room := models.Room{ID: 1, PricePerNight: 2_000_000}
	for _, n := range []int{0, -4} {
		card := CardFor(room, other, now, n)
		assert.Equal(t, DefaultNights, card.Nights)
		assert.EqualValues(t, 3_000_000, card.TotalPrice)
	}
}

func TestCardFor_Controls(t *testing.T) {
	past := now.Add(-time.Minute).Unix()
	future := now.Add(time.Hour).Unix()

	tests := []struct {
		name    string
		room    models.Room
		viewer  string
		control Control
		enabled bool
	}{
		{"holder after end", reservedRoom(past), guest, ControlEndReservation, true},
		{"holder at end", reservedRoom(now.Unix()), guest, ControlEndReservation, true},
		{"holder before end", reservedRoom(future), guest, ControlReserved, false},
		{"someone else after end", reservedRoom(past), other, ControlReserved, false},
		{"anonymous", reservedRoom(past), "", ControlReserved, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := CardFor(tt.room, tt.viewer, now, 1)
			assert.Equal(t, StatusReserved, card.Status)
			assert.Equal(t, tt.control, card.Control)
			assert.Equal(t, tt.enabled, card.Enabled)
			assert.Zero(t, card.TotalPrice)
		})
	}
}

func TestCardFor_ReservedDisplay(t *testing.T) {
	card := CardFor(reservedRoom(1_700_000_000), creator, now, 1)
	assert.Equal(t, "GUEST...UESTG", card.ReservedToShort)
	assert.Equal(t, "14 Nov 2023, 22:13 UTC", card.EndsText)
	assert.True(t, card.CanDelete)
}

func TestCardFor_PriceOverflowDisablesReserve(t *testing.T) {
	card := CardFor(models.Room{ID: 1, PricePerNight: ^uint64(0)}, other, now, 2)
	assert.Equal(t, ControlReserve, card.Control)
	assert.False(t, card.Enabled)
	assert.Zero(t, card.TotalPrice)
}

func TestNewBoard(t *testing.T) {
	rooms := []models.Room{
		{ID: 9, CreatorAddress: creator, PricePerNight: 1_000_000},
		reservedRoom(now.Unix()),
		{ID: 2, PricePerNight: 1_500_000},
	}
	board := NewBoard(rooms, creator, now, 1)
	require.Len(t, board.Cards, 3)
	assert.EqualValues(t, 2, board.Cards[0].Room.ID)
	assert.EqualValues(t, 3, board.Cards[1].Room.ID)
	assert.EqualValues(t, 9, board.Cards[2].Room.ID)
	assert.True(t, board.Cards[2].CanDelete)
	assert.Equal(t, "Each reservation holds 1 ALGO, refunded when the reservation is ended.", board.Notice)

	empty := NewBoard(nil, "", now, 1)
	assert.NotNil(t, empty.Cards)
	assert.Empty(t, empty.Cards)
}
