package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-chain/services"
	"hotel-chain/utils"
)

type BalanceReader interface {
	Balance(ctx context.Context, address string) (uint64, error)
}

type AccountController struct {
	Accounts BalanceReader
}

func NewAccountController(r BalanceReader) *AccountController {
	return &AccountController{Accounts: r}
}

// GetBalance (GET /api/accounts/:address/balance)
func (ctrl *AccountController) GetBalance(c *gin.Context) {
	address := c.Param("address")
	bal, err := ctrl.Accounts.Balance(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSender) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid address")
			return
		}
		_ = c.Error(err)
		utils.JSONError(c, http.StatusBadGateway, "Failed to fetch balance.")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"address":     address,
		"balance":     bal,
		"balanceText": utils.MicroToString(bal),
	})
}
