// services/journal_service.go
package services

import (
	"context"

	"gorm.io/gorm"

	"hotel-chain/models"
)

// Journal keeps an audit trail of submitted operations.
type Journal interface {
	Record(ctx context.Context, rec *models.TxRecord) error
	Recent(ctx context.Context, limit int) ([]models.TxRecord, error)
}

// JournalService stores TxRecords through gorm.
type JournalService struct {
	DB *gorm.DB
}

func NewJournalService(db *gorm.DB) *JournalService {
	return &JournalService{DB: db}
}

func (s *JournalService) Record(ctx context.Context, rec *models.TxRecord) error {
	if rec == nil {
		return gorm.ErrInvalidData
	}
	if rec.Status == "" {
		rec.Status = models.TxStatusConfirmed
	}
	return s.DB.WithContext(ctx).Create(rec).Error
}

// Recent returns the newest records first; limit is clamped to 1..100.
func (s *JournalService) Recent(ctx context.Context, limit int) ([]models.TxRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	var records []models.TxRecord
	err := s.DB.WithContext(ctx).Order("id DESC").Limit(limit).Find(&records).Error
	return records, err
}

// NopJournal is used when no database is configured.
type NopJournal struct{}

func (NopJournal) Record(context.Context, *models.TxRecord) error { return nil }

func (NopJournal) Recent(context.Context, int) ([]models.TxRecord, error) {
	return []models.TxRecord{}, nil
}
