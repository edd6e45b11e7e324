// services/reservation_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/bits"
	"strings"
	"sync"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"hotel-chain/contracts"
	"hotel-chain/ledger"
	"hotel-chain/metrics"
	"hotel-chain/models"
	"hotel-chain/wallet"
)

var (
	ErrInvalidNights  = errors.New("number of nights must be positive")
	ErrInvalidRoom    = errors.New("invalid room")
	ErrInvalidSender  = errors.New("invalid sender address")
	ErrRoomNotFound   = errors.New("room not found")
	ErrAmountOverflow = errors.New("reservation amount overflows")
)

// LedgerNode is the subset of the node API the gateway needs.
type LedgerNode interface {
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)
	Compile(ctx context.Context, source []byte) ([]byte, error)
	SendRawTransaction(ctx context.Context, raw []byte) (string, error)
	WaitForConfirmation(ctx context.Context, txID string, rounds uint64) (ledger.PendingTransaction, error)
	Account(ctx context.Context, address string) (ledger.Account, error)
}

// RoomIndexer finds reservation contracts and reads their state.
type RoomIndexer interface {
	SearchAppCreations(ctx context.Context, notePrefix []byte, minRound uint64) ([]uint64, error)
	LookupApplication(ctx context.Context, appID uint64) (ledger.Application, error)
}

type Options struct {
	// MinRound bounds the indexer search; rooms created earlier are not listed.
	MinRound uint64
	// ConfirmRounds is how many rounds to wait for a submitted transaction.
	ConfirmRounds uint64
	// FetchConcurrency caps parallel application lookups during a listing.
	FetchConcurrency int
}

// ReservationService builds, signs, submits and confirms reservation
// transactions, and lists rooms from the indexer.
type ReservationService struct {
	node    LedgerNode
	indexer RoomIndexer
	signer  wallet.Signer
	journal Journal
	metrics *metrics.Metrics
	logger  *zap.Logger
	opts    Options
}

func NewReservationService(
	node LedgerNode,
	indexer RoomIndexer,
	signer wallet.Signer,
	journal Journal,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts Options,
) *ReservationService {
	if journal == nil {
		journal = NopJournal{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ConfirmRounds == 0 {
		opts.ConfirmRounds = 4
	}
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = 8
	}
	return &ReservationService{
		node:    node,
		indexer: indexer,
		signer:  signer,
		journal: journal,
		metrics: m,
		logger:  logger.Named("gateway"),
		opts:    opts,
	}
}

// ReservationAmount is what a guest pays the contract for nights nights.
func ReservationAmount(pricePerNight, nights uint64) (uint64, error) {
	hi, lo := bits.Mul64(pricePerNight, nights)
	if hi != 0 {
		return 0, ErrAmountOverflow
	}
	total, carry := bits.Add64(lo, contracts.HoldingFee, 0)
	if carry != 0 {
		return 0, ErrAmountOverflow
	}
	return total, nil
}

// CreateRoom deploys a new reservation contract and returns its id.
func (s *ReservationService) CreateRoom(ctx context.Context, sender string, fields models.RoomFields) (appID uint64, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(models.TxKindCreate, start, err) }()

	from, err := parseAddress(sender)
	if err != nil {
		return 0, err
	}
	fields.Name = strings.TrimSpace(fields.Name)
	if fields.Name == "" || fields.PricePerNight == 0 {
		return 0, fmt.Errorf("%w: name and price are required", ErrInvalidRoom)
	}

	s.logger.Info("adding room", zap.String("sender", sender), zap.String("name", fields.Name))

	sp, err := s.node.SuggestedParams(ctx)
	if err != nil {
		return 0, err
	}
	approval, err := s.node.Compile(ctx, contracts.ApprovalSource())
	if err != nil {
		return 0, fmt.Errorf("approval program: %w", err)
	}
	clearProg, err := s.node.Compile(ctx, contracts.ClearSource())
	if err != nil {
		return 0, fmt.Errorf("clear program: %w", err)
	}

	tx, err := transaction.MakeApplicationCreateTx(
		false, approval, clearProg,
		contracts.GlobalSchema, contracts.LocalSchema,
		contracts.CreateArgs(fields), nil, nil, nil,
		sp, from, contracts.NoteBytes(),
		types.Digest{}, [32]byte{}, types.ZeroAddress,
	)
	if err != nil {
		return 0, fmt.Errorf("build create txn: %w", err)
	}

	pt, ids, err := s.submit(ctx, []types.Transaction{tx})
	appID = pt.ApplicationIndex
	if err == nil && appID == 0 {
		err = errors.New("confirmed create txn carries no application id")
	}
	s.record(ctx, &models.TxRecord{Kind: models.TxKindCreate, Sender: sender, RoomID: appID}, ids, pt, err)
	if err != nil {
		return 0, fmt.Errorf("create room: %w", err)
	}

	s.logger.Info("created new room", zap.Uint64("app_id", appID))
	return appID, nil
}

// Reserve submits the app call and the payment as one atomic group.
func (s *ReservationService) Reserve(ctx context.Context, sender string, room models.Room, nights int) (err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(models.TxKindReserve, start, err) }()

	if nights <= 0 {
		return ErrInvalidNights
	}
	if room.ID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvalidRoom)
	}
	from, err := parseAddress(sender)
	if err != nil {
		return err
	}
	amount, err := ReservationAmount(room.PricePerNight, uint64(nights))
	if err != nil {
		return err
	}
	contractAddr := room.ContractAddress
	if contractAddr == "" {
		contractAddr = crypto.GetApplicationAddress(room.ID).String()
	}

	s.logger.Info("reserving room",
		zap.Uint64("app_id", room.ID),
		zap.String("sender", sender),
		zap.Int("nights", nights),
		zap.Uint64("amount", amount),
	)

	sp, err := s.node.SuggestedParams(ctx)
	if err != nil {
		return err
	}

	call, err := transaction.MakeApplicationNoOpTx(
		room.ID, contracts.ReserveArgs(uint64(nights)), nil, nil, nil,
		sp, from, nil, types.Digest{}, [32]byte{}, types.ZeroAddress,
	)
	if err != nil {
		return fmt.Errorf("build app call: %w", err)
	}
	pay, err := transaction.MakePaymentTxn(from.String(), contractAddr, amount, nil, "", sp)
	if err != nil {
		return fmt.Errorf("build payment: %w", err)
	}

	gid, err := crypto.ComputeGroupID([]types.Transaction{call, pay})
	if err != nil {
		return fmt.Errorf("group id: %w", err)
	}
	call.Group = gid
	pay.Group = gid

	pt, ids, err := s.submit(ctx, []types.Transaction{call, pay})
	s.record(ctx, &models.TxRecord{Kind: models.TxKindReserve, Sender: sender, RoomID: room.ID, Amount: amount}, ids, pt, err)
	if err != nil {
		return fmt.Errorf("reserve room %d: %w", room.ID, err)
	}
	return nil
}

// EndReservation pays double the minimum fee so the contract can refund the
// holding fee with an inner payment.
func (s *ReservationService) EndReservation(ctx context.Context, sender string, room models.Room) (err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(models.TxKindEnd, start, err) }()

	if room.ID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvalidRoom)
	}
	from, err := parseAddress(sender)
	if err != nil {
		return err
	}

	s.logger.Info("ending reservation", zap.Uint64("app_id", room.ID), zap.String("sender", sender))

	sp, err := s.node.SuggestedParams(ctx)
	if err != nil {
		return err
	}
	minFee := contracts.MinTxnFee
	if sp.MinFee > minFee {
		minFee = sp.MinFee
	}
	sp.FlatFee = true
	sp.Fee = types.MicroAlgos(2 * minFee)

	tx, err := transaction.MakeApplicationNoOpTx(
		room.ID, contracts.EndArgs(), nil, nil, nil,
		sp, from, nil, types.Digest{}, [32]byte{}, types.ZeroAddress,
	)
	if err != nil {
		return fmt.Errorf("build app call: %w", err)
	}

	pt, ids, err := s.submit(ctx, []types.Transaction{tx})
	s.record(ctx, &models.TxRecord{Kind: models.TxKindEnd, Sender: sender, RoomID: room.ID}, ids, pt, err)
	if err != nil {
		return fmt.Errorf("end reservation %d: %w", room.ID, err)
	}
	return nil
}

// DeleteRoom deletes the contract; the contract itself refuses non-creators.
func (s *ReservationService) DeleteRoom(ctx context.Context, sender string, roomID uint64) (deleted uint64, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation(models.TxKindDelete, start, err) }()

	if roomID == 0 {
		return 0, fmt.Errorf("%w: missing id", ErrInvalidRoom)
	}
	from, err := parseAddress(sender)
	if err != nil {
		return 0, err
	}

	s.logger.Info("deleting room", zap.Uint64("app_id", roomID), zap.String("sender", sender))

	sp, err := s.node.SuggestedParams(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := transaction.MakeApplicationDeleteTx(
		roomID, nil, nil, nil, nil,
		sp, from, nil, types.Digest{}, [32]byte{}, types.ZeroAddress,
	)
	if err != nil {
		return 0, fmt.Errorf("build delete txn: %w", err)
	}

	pt, ids, err := s.submit(ctx, []types.Transaction{tx})
	s.record(ctx, &models.TxRecord{Kind: models.TxKindDelete, Sender: sender, RoomID: roomID}, ids, pt, err)
	if err != nil {
		return 0, fmt.Errorf("delete room %d: %w", roomID, err)
	}

	deleted = pt.Txn.Txn.ApplicationID
	if deleted == 0 {
		deleted = roomID
	}
	s.logger.Info("deleted room", zap.Uint64("app_id", deleted))
	return deleted, nil
}

// ListRooms returns every live room created with the tag note. Contracts
// that are deleted or cannot be read are left out; order is unspecified.
func (s *ReservationService) ListRooms(ctx context.Context) (rooms []models.Room, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("list", start, err) }()

	ids, err := s.indexer.SearchAppCreations(ctx, contracts.NoteBytes(), s.opts.MinRound)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	var mu sync.Mutex
	rooms = make([]models.Room, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))

	var g errgroup.Group
	g.SetLimit(s.opts.FetchConcurrency)
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		id := id
		g.Go(func() error {
			room, ok := s.fetchRoom(ctx, id)
			if ok {
				mu.Lock()
				rooms = append(rooms, room)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	skipped := len(seen) - len(rooms)
	s.metrics.RoomsListed(len(rooms))
	s.logger.Info("rooms fetched", zap.Int("rooms", len(rooms)), zap.Int("skipped", skipped))
	return rooms, nil
}

// GetRoom reads one live room.
func (s *ReservationService) GetRoom(ctx context.Context, roomID uint64) (models.Room, error) {
	app, err := s.indexer.LookupApplication(ctx, roomID)
	if err != nil {
		if ledger.IsNotFound(err) {
			return models.Room{}, fmt.Errorf("%w: %d", ErrRoomNotFound, roomID)
		}
		return models.Room{}, err
	}
	if app.Deleted {
		return models.Room{}, fmt.Errorf("%w: %d", ErrRoomNotFound, roomID)
	}
	return contracts.DecodeRoom(app)
}

// Balance returns the account's balance in micro-units.
func (s *ReservationService) Balance(ctx context.Context, address string) (uint64, error) {
	if _, err := parseAddress(address); err != nil {
		return 0, err
	}
	acct, err := s.node.Account(ctx, address)
	if err != nil {
		return 0, err
	}
	return acct.Amount, nil
}

func (s *ReservationService) fetchRoom(ctx context.Context, id uint64) (models.Room, bool) {
	app, err := s.indexer.LookupApplication(ctx, id)
	if err != nil {
		s.metrics.RoomSkipped(metrics.SkipLookup)
		s.logger.Warn("skipping room: lookup failed", zap.Uint64("app_id", id), zap.Error(err))
		return models.Room{}, false
	}
	if app.Deleted {
		s.metrics.RoomSkipped(metrics.SkipDeleted)
		s.logger.Debug("skipping deleted room", zap.Uint64("app_id", id))
		return models.Room{}, false
	}
	room, err := contracts.DecodeRoom(app)
	if err != nil {
		s.metrics.RoomSkipped(metrics.SkipDecode)
		s.logger.Warn("skipping room: undecodable state", zap.Uint64("app_id", id), zap.Error(err))
		return models.Room{}, false
	}
	return room, true
}

// submit signs txns, sends them in one request and waits for the first one
// to be confirmed. A group confirms as a whole.
func (s *ReservationService) submit(ctx context.Context, txns []types.Transaction) (ledger.PendingTransaction, []string, error) {
	ids := make([]string, len(txns))
	for i, tx := range txns {
		ids[i] = crypto.GetTxID(tx)
	}

	signed, err := s.signer.SignTransactions(ctx, txns)
	if err != nil {
		return ledger.PendingTransaction{}, ids, fmt.Errorf("sign: %w", err)
	}
	if len(signed) != len(txns) {
		return ledger.PendingTransaction{}, ids, fmt.Errorf("sign: %w: %d of %d signed", wallet.ErrRejected, len(signed), len(txns))
	}
	s.logger.Debug("signed transactions", zap.Strings("tx_ids", ids))

	txID, err := s.node.SendRawTransaction(ctx, bytes.Join(signed, nil))
	if err != nil {
		return ledger.PendingTransaction{}, ids, fmt.Errorf("submit: %w", err)
	}

	pt, err := s.node.WaitForConfirmation(ctx, txID, s.opts.ConfirmRounds)
	if err != nil {
		return pt, ids, fmt.Errorf("confirm %s: %w", txID, err)
	}
	s.logger.Info("transaction confirmed", zap.String("tx_id", txID), zap.Uint64("round", pt.ConfirmedRound))
	return pt, ids, nil
}

// record writes the journal row. Journal failures never fail the operation.
func (s *ReservationService) record(ctx context.Context, rec *models.TxRecord, ids []string, pt ledger.PendingTransaction, opErr error) {
	if raw, err := json.Marshal(ids); err == nil {
		rec.TxIDs = datatypes.JSON(raw)
	}
	rec.ConfirmedRound = pt.ConfirmedRound
	rec.Status = models.TxStatusConfirmed
	if opErr != nil {
		rec.Status = models.TxStatusFailed
		rec.Error = opErr.Error()
	}
	if err := s.journal.Record(ctx, rec); err != nil {
		s.logger.Warn("journal write failed", zap.String("kind", rec.Kind), zap.Error(err))
	}
}

func parseAddress(address string) (types.Address, error) {
	addr, err := types.DecodeAddress(strings.TrimSpace(address))
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %v", ErrInvalidSender, err)
	}
	return addr, nil
}
