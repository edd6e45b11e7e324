package models

// Room is a read-only snapshot of one reservation contract's global state.
// It is rebuilt on every listing and never written back.
type Room struct {
	ID              uint64 `json:"appId"`
	CreatorAddress  string `json:"appCreator"`
	ContractAddress string `json:"appAddress"`

	Name        string `json:"name"`
	ImageURL    string `json:"image"`
	Description string `json:"description"`

	// PricePerNight is in micro-units.
	PricePerNight uint64 `json:"price"`

	// ReservedToAddress and ReservationEndTime are zero unless IsReserved.
	ReservedToAddress  string `json:"reservedTo,omitempty"`
	ReservationEndTime uint64 `json:"reserveEnds,omitempty"`
	IsReserved         bool   `json:"isReserved"`
}

// RoomFields are the creator-supplied fields of a new room.
type RoomFields struct {
	Name          string `json:"name" binding:"required"`
	ImageURL      string `json:"image"`
	Description   string `json:"description"`
	PricePerNight uint64 `json:"price" binding:"required"`
}
