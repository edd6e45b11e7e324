// controllers/room_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-chain/models"
	"hotel-chain/services"
	"hotel-chain/utils"
	"hotel-chain/views"
)

// RoomGateway is what the handlers need from services.ReservationService.
type RoomGateway interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	GetRoom(ctx context.Context, roomID uint64) (models.Room, error)
	CreateRoom(ctx context.Context, sender string, fields models.RoomFields) (uint64, error)
	Reserve(ctx context.Context, sender string, room models.Room, nights int) error
	EndReservation(ctx context.Context, sender string, room models.Room) error
	DeleteRoom(ctx context.Context, sender string, roomID uint64) (uint64, error)
	Balance(ctx context.Context, address string) (uint64, error)
}

const (
	msgFetchFailed   = "Failed to fetch rooms."
	msgCreated       = "Room added successfully."
	msgCreateFailed  = "Failed to create room."
	msgReserved      = "Reservation made successfully."
	msgReserveFailed = "Failed to make reservation."
	msgEnded         = "Reservation ended successfully."
	msgEndFailed     = "Failed to end reservation."
	msgDeleted       = "Room deleted successfully."
	msgDeleteFailed  = "Failed to delete room."
)

// ---------------------------
// Payloads
// ---------------------------

type CreateRoomRequest struct {
	Sender string `json:"sender" binding:"required"`
	models.RoomFields
}

type ReserveRequest struct {
	Sender string `json:"sender" binding:"required"`
	Nights int    `json:"nights"`
}

// Refreshed is the state reloaded after every mutating call.
type Refreshed struct {
	RoomID      uint64       `json:"roomId,omitempty"`
	Board       *views.Board `json:"board,omitempty"`
	Balance     *uint64      `json:"balance,omitempty"`
	BalanceText string       `json:"balanceText,omitempty"`
}

// ---------------------------
// Controller
// ---------------------------

type RoomController struct {
	Gateway RoomGateway
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewRoomController(gw RoomGateway, logger *zap.Logger) *RoomController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomController{Gateway: gw, Logger: logger.Named("rooms"), Now: time.Now}
}

// GetRooms (GET /api/rooms?viewer=&nights=)
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	viewer := strings.TrimSpace(c.Query("viewer"))
	nights, _ := strconv.Atoi(c.DefaultQuery("nights", "1"))

	rooms, err := ctrl.Gateway.ListRooms(c.Request.Context())
	if err != nil {
		ctrl.Logger.Error("list rooms failed", zap.Error(err))
		_ = c.Error(err)
		utils.JSONError(c, http.StatusBadGateway, msgFetchFailed)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, views.NewBoard(rooms, viewer, ctrl.Now(), nights))
}

// CreateRoom (POST /api/rooms)
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid room payload: "+err.Error())
		return
	}

	appID, err := ctrl.Gateway.CreateRoom(c.Request.Context(), req.Sender, req.RoomFields)
	out := ctrl.refresh(c.Request.Context(), req.Sender)
	out.RoomID = appID
	ctrl.respond(c, err, http.StatusCreated, msgCreated, msgCreateFailed, out)
}

// ReserveRoom (POST /api/rooms/:id/reservations)
func (ctrl *RoomController) ReserveRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid reservation payload: "+err.Error())
		return
	}
	if req.Nights <= 0 {
		utils.JSONError(c, http.StatusBadRequest, services.ErrInvalidNights.Error())
		return
	}

	err := ctrl.withRoom(c.Request.Context(), id, func(room models.Room) error {
		return ctrl.Gateway.Reserve(c.Request.Context(), req.Sender, room, req.Nights)
	})
	out := ctrl.refresh(c.Request.Context(), req.Sender)
	out.RoomID = id
	ctrl.respond(c, err, http.StatusOK, msgReserved, msgReserveFailed, out)
}

// EndReservation (DELETE /api/rooms/:id/reservations?sender=)
func (ctrl *RoomController) EndReservation(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}
	sender, ok := senderParam(c)
	if !ok {
		return
	}

	err := ctrl.withRoom(c.Request.Context(), id, func(room models.Room) error {
		return ctrl.Gateway.EndReservation(c.Request.Context(), sender, room)
	})
	out := ctrl.refresh(c.Request.Context(), sender)
	out.RoomID = id
	ctrl.respond(c, err, http.StatusOK, msgEnded, msgEndFailed, out)
}

// DeleteRoom (DELETE /api/rooms/:id?sender=)
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}
	sender, ok := senderParam(c)
	if !ok {
		return
	}

	deleted, err := ctrl.Gateway.DeleteRoom(c.Request.Context(), sender, id)
	out := ctrl.refresh(c.Request.Context(), sender)
	out.RoomID = deleted
	ctrl.respond(c, err, http.StatusOK, msgDeleted, msgDeleteFailed, out)
}

func (ctrl *RoomController) withRoom(ctx context.Context, id uint64, fn func(models.Room) error) error {
	room, err := ctrl.Gateway.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	return fn(room)
}

// refresh reloads the listing and the sender balance. Failures here only
// leave the corresponding part out.
func (ctrl *RoomController) refresh(ctx context.Context, sender string) Refreshed {
	var out Refreshed
	if rooms, err := ctrl.Gateway.ListRooms(ctx); err != nil {
		ctrl.Logger.Warn("reload rooms failed", zap.Error(err))
	} else {
		board := views.NewBoard(rooms, sender, ctrl.Now(), views.DefaultNights)
		out.Board = &board
	}
	if bal, err := ctrl.Gateway.Balance(ctx, sender); err != nil {
		ctrl.Logger.Warn("reload balance failed", zap.String("address", sender), zap.Error(err))
	} else {
		out.Balance = &bal
		out.BalanceText = utils.MicroToString(bal)
	}
	return out
}

func (ctrl *RoomController) respond(c *gin.Context, err error, okCode int, okMsg, failMsg string, out Refreshed) {
	if err != nil {
		ctrl.Logger.Error(failMsg, zap.Uint64("app_id", out.RoomID), zap.Error(err))
		_ = c.Error(err)
		utils.JSONOutcome(c, statusFor(err), failMsg, out)
		return
	}
	utils.JSONOutcome(c, okCode, okMsg, out)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidNights),
		errors.Is(err, services.ErrInvalidRoom),
		errors.Is(err, services.ErrInvalidSender),
		errors.Is(err, services.ErrAmountOverflow):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrRoomNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func roomIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid room id")
		return 0, false
	}
	return id, true
}

func senderParam(c *gin.Context) (string, bool) {
	sender := strings.TrimSpace(c.Query("sender"))
	if sender == "" {
		utils.JSONError(c, http.StatusBadRequest, "sender is required")
		return "", false
	}
	return sender, true
}
