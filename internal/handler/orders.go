package handler

import (
	"net/http"
	"time"

	"despensa-backend/internal/ledger"
	"despensa-backend/internal/models"
	"despensa-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Ledger *ledger.Service
}

func (h *OrderHandler) List(c *gin.Context) {
	userID := c.GetUint("userID")
	orders := []models.Order{}

	query := database.DB.Preload("Customer").Preload("Items.Product").
		Where("user_id = ?", userID).Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if origin := c.Query("origin"); origin != "" {
		query = query.Where("origin = ?", origin)
	}

	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Create places an order through the ledger: stock decrement, line items and
// any debt increase happen in one transaction.
func (h *OrderHandler) Create(c *gin.Context) {
	userID := c.GetUint("userID")
	var input ledger.PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Ledger.PlaceOrder(c.Request.Context(), userID, input)
	if err != nil {
		ledgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// validTransitions encodes the one-directional lifecycle; cancellation is the
// only sideways move.
var validTransitions = map[string][]string{
	models.OrderPending:   {models.OrderInTransit, models.OrderDelivered, models.OrderCancelled},
	models.OrderInTransit: {models.OrderDelivered, models.OrderCancelled},
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	userID := c.GetUint("userID")
	id := c.Param("id")
	var req struct {
		Status  string `json:"status" binding:"required,oneof=PENDING IN_TRANSIT DELIVERED CANCELLED"`
		Courier string `json:"courier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	allowed := false
	for _, next := range validTransitions[order.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot move order from " + order.Status + " to " + req.Status})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"status": req.Status}
	switch req.Status {
	case models.OrderInTransit:
		updates["dispatched_at"] = now
		if req.Courier != "" {
			updates["courier"] = req.Courier
		}
	case models.OrderDelivered:
		updates["delivered_at"] = now
	}

	if err := database.DB.Model(&order).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	userID := c.GetUint("userID")
	id := c.Param("id")
	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required,oneof=PAID PENDING DEBT"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := database.DB.Model(&models.Order{}).
		Where("id = ? AND user_id = ?", id, userID).Update("payment_status", req.PaymentStatus)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated"})
}

// DeliveryStats covers the delivery board: phone orders still on the road and
// those delivered today.
func (h *OrderHandler) DeliveryStats(c *gin.Context) {
	userID := c.GetUint("userID")
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var pending, deliveredToday int64
	database.DB.Model(&models.Order{}).
		Where("user_id = ? AND origin = ? AND status IN ?", userID, models.OriginPhone,
			[]string{models.OrderPending, models.OrderInTransit}).
		Count(&pending)
	database.DB.Model(&models.Order{}).
		Where("user_id = ? AND origin = ? AND status = ? AND delivered_at >= ?",
			userID, models.OriginPhone, models.OrderDelivered, dayStart).
		Count(&deliveredToday)

	c.JSON(http.StatusOK, gin.H{
		"pending":         pending,
		"delivered_today": deliveredToday,
	})
}
