package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TxKindCreate  = "create"
	TxKindReserve = "reserve"
	TxKindEnd     = "end"
	TxKindDelete  = "delete"

	TxStatusConfirmed = "confirmed"
	TxStatusFailed    = "failed"
)

// TxRecord is one journal row per submitted gateway operation.
type TxRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Kind           string         `gorm:"column:kind;size:16;index" json:"kind"`
	Sender         string         `gorm:"column:sender;size:64;index" json:"sender"`
	RoomID         uint64         `gorm:"column:room_id;index" json:"roomId,omitempty"`
	TxIDs          datatypes.JSON `gorm:"column:tx_ids" json:"txIds,omitempty"`
	Amount         uint64         `gorm:"column:amount" json:"amount,omitempty"`
	ConfirmedRound uint64         `gorm:"column:confirmed_round" json:"confirmedRound,omitempty"`
	Status         string         `gorm:"column:status;size:16;index" json:"status"`
	Error          string         `gorm:"column:error;type:text" json:"error,omitempty"`
}

func (TxRecord) TableName() string {
	return "tx_records"
}
