package handler

import (
	"net/http"
	"time"

	"despensa-backend/internal/ledger"
	"despensa-backend/internal/models"
	"despensa-backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	Ledger *ledger.Service
}

func (h *PaymentHandler) List(c *gin.Context) {
	userID := c.GetUint("userID")
	payments := []models.Payment{}

	query := database.DB.Preload("Customer").
		Where("user_id = ?", userID).Order("created_at desc")
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	if err := query.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment history"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) Register(c *gin.Context) {
	userID := c.GetUint("userID")
	var req struct {
		CustomerID uint            `json:"customer_id" binding:"required"`
		Amount     decimal.Decimal `json:"amount" binding:"required"`
		Reference  string          `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.Ledger.RegisterPayment(c.Request.Context(), userID, req.CustomerID, req.Amount, req.Reference)
	if err != nil {
		ledgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) Stats(c *gin.Context) {
	userID := c.GetUint("userID")
	stats, err := h.Ledger.Stats(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute payment stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
