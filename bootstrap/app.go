// Package bootstrap wires the clients and the gateway from a Config. Both
// the HTTP server and hotelctl own exactly one App for their lifetime.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hotel-chain/config"
	"hotel-chain/ledger"
	"hotel-chain/metrics"
	"hotel-chain/services"
	"hotel-chain/wallet"
)

type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Node    *ledger.NodeClient
	Indexer *ledger.IndexerClient
	Signer  wallet.Signer
	Journal services.Journal
	Gateway *services.ReservationService

	db *gorm.DB
}

func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New("hotel_chain"),
		Node:    ledger.NewNodeClient(cfg.Algod.URL, cfg.Algod.Token, cfg.Algod.Timeout),
		Indexer: ledger.NewIndexerClient(cfg.Indexer.URL, cfg.Indexer.Token, cfg.Indexer.Timeout),
		Journal: services.NopJournal{},
	}

	signer, err := NewSigner(cfg.Wallet)
	if err != nil {
		return nil, err
	}
	app.Signer = signer

	if cfg.Database.Enabled {
		db, err := config.ConnectDatabase(cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("journal database: %w", err)
		}
		app.db = db
		app.Journal = services.NewJournalService(db)
		logger.Info("transaction journal enabled")
	}

	app.Gateway = services.NewReservationService(
		app.Node, app.Indexer, app.Signer, app.Journal, app.Metrics, logger,
		services.Options{
			MinRound:         cfg.Reservation.MinRound,
			ConfirmRounds:    cfg.Reservation.ConfirmRounds,
			FetchConcurrency: cfg.Reservation.FetchConcurrency,
		},
	)
	return app, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewSigner prefers the remote wallet bridge over a local mnemonic. With
// neither configured every signing request fails with wallet.ErrUnavailable.
func NewSigner(cfg config.WalletConfig) (wallet.Signer, error) {
	switch {
	case cfg.RemoteURL != "":
		return wallet.NewRemoteSigner(cfg.RemoteURL, cfg.Timeout), nil
	case cfg.Mnemonic != "":
		s, err := wallet.NewAccountSigner(cfg.Mnemonic)
		if err != nil {
			return nil, fmt.Errorf("wallet mnemonic: %w", err)
		}
		return s, nil
	default:
		return noSigner{}, nil
	}
}

type noSigner struct{}

func (noSigner) SignTransactions(context.Context, []types.Transaction) ([][]byte, error) {
	return nil, fmt.Errorf("%w: no wallet configured", wallet.ErrUnavailable)
}
