package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-chain/models"
	"hotel-chain/services"
	"hotel-chain/utils"
)

type TransactionController struct {
	Journal services.Journal
}

func NewTransactionController(j services.Journal) *TransactionController {
	return &TransactionController{Journal: j}
}

// GetTransactions (GET /api/transactions?limit=)
func (ctrl *TransactionController) GetTransactions(c *gin.Context) {
	var q struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid limit")
		return
	}
	records, err := ctrl.Journal.Recent(c.Request.Context(), q.Limit)
	if err != nil {
		_ = c.Error(err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load transactions.")
		return
	}
	if records == nil {
		records = []models.TxRecord{}
	}
	utils.JSONSuccess(c, http.StatusOK, records)
}
