// Package views computes what a viewer sees for each room: the status badge,
// the one control that applies to them and the display strings.
package views

import (
	"fmt"
	"sort"
	"time"

	"hotel-chain/contracts"
	"hotel-chain/models"
	"hotel-chain/services"
	"hotel-chain/utils"
)

const (
	StatusReserved  = "RESERVED"
	StatusAvailable = "AVAILABLE"
)

// Control is the single action offered on a room card.
type Control string

const (
	ControlEndReservation Control = "end_reservation"
	ControlReserved       Control = "reserved"
	ControlReserve        Control = "reserve"
)

// DefaultNights is the pre-filled night count of the reserve control.
const DefaultNights = 1

type RoomCard struct {
	Room    models.Room `json:"room"`
	Status  string      `json:"status"`
	Control Control     `json:"control"`
	// Enabled is false for the reserved indicator.
	Enabled   bool `json:"enabled"`
	CanDelete bool `json:"canDelete"`

	Nights         int    `json:"nights,omitempty"`
	TotalPrice     uint64 `json:"totalPrice,omitempty"`
	TotalPriceText string `json:"totalPriceText,omitempty"`

	PriceText       string `json:"priceText"`
	ReservedToShort string `json:"reservedToShort,omitempty"`
	EndsText        string `json:"endsText,omitempty"`
}

// CardFor computes the card of room for viewer at now. nights below one
// falls back to DefaultNights.
func CardFor(room models.Room, viewer string, now time.Time, nights int) RoomCard {
	card := RoomCard{
		Room:      room,
		Status:    StatusAvailable,
		CanDelete: viewer != "" && viewer == room.CreatorAddress,
		PriceText: utils.MicroToString(room.PricePerNight),
	}

	if room.IsReserved {
		card.Status = StatusReserved
		card.ReservedToShort = utils.TruncateAddress(room.ReservedToAddress)
		card.EndsText = utils.ConvertTime(room.ReservationEndTime, now.Location())

		ended := now.Unix() >= int64(room.ReservationEndTime)
		if viewer != "" && viewer == room.ReservedToAddress && ended {
			card.Control = ControlEndReservation
			card.Enabled = true
		} else {
			card.Control = ControlReserved
		}
		return card
	}

	if nights < 1 {
		nights = DefaultNights
	}
	card.Control = ControlReserve
	card.Nights = nights
	total, err := services.ReservationAmount(room.PricePerNight, uint64(nights))
	if err != nil {
		return card
	}
	card.Enabled = true
	card.TotalPrice = total
	card.TotalPriceText = utils.MicroToString(total)
	return card
}

// Board is the whole listing as seen by one viewer.
type Board struct {
	Viewer string     `json:"viewer,omitempty"`
	Cards  []RoomCard `json:"cards"`
	Notice string     `json:"notice"`
}

// HoldingFeeNotice explains the refundable part of every reservation payment.
func HoldingFeeNotice() string {
	return fmt.Sprintf("Each reservation holds %s ALGO, refunded when the reservation is ended.",
		utils.MicroToString(contracts.HoldingFee))
}

// NewBoard builds cards for rooms, ordered by room id.
func NewBoard(rooms []models.Room, viewer string, now time.Time, nights int) Board {
	cards := make([]RoomCard, 0, len(rooms))
	for _, r := range rooms {
		cards = append(cards, CardFor(r, viewer, now, nights))
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Room.ID < cards[j].Room.ID })
	return Board{Viewer: viewer, Cards: cards, Notice: HoldingFeeNotice()}
}
