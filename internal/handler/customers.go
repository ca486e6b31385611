package handler

import (
	"net/http"
	"strconv"
	"time"

	"despensa-backend/internal/ledger"
	"despensa-backend/internal/models"
	"despensa-backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CustomerHandler struct {
	Ledger *ledger.Service
}

func (h *CustomerHandler) List(c *gin.Context) {
	userID := c.GetUint("userID")
	customers := []models.Customer{}

	query := database.DB.Where("user_id = ?", userID).Order("id desc")
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ? OR national_id LIKE ?", "%"+q+"%", "%"+q+"%")
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) Stats(c *gin.Context) {
	userID := c.GetUint("userID")
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var total, active, withDebt, newThisMonth int64
	database.DB.Model(&models.Customer{}).Where("user_id = ?", userID).Count(&total)
	database.DB.Model(&models.Customer{}).Where("user_id = ? AND status = ?", userID, models.CustomerActive).Count(&active)
	database.DB.Model(&models.Customer{}).Where("user_id = ? AND debt > 0", userID).Count(&withDebt)
	database.DB.Model(&models.Customer{}).Where("user_id = ? AND created_at >= ?", userID, monthStart).Count(&newThisMonth)

	c.JSON(http.StatusOK, gin.H{
		"total":          total,
		"active":         active,
		"with_debt":      withDebt,
		"new_this_month": newThisMonth,
	})
}

type CreateCustomerRequest struct {
	Name       string `json:"name" binding:"required"`
	NationalID string `json:"national_id" binding:"required"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	userID := c.GetUint("userID")
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	database.DB.Model(&models.Customer{}).
		Where("user_id = ? AND national_id = ?", userID, req.NationalID).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A customer with this national ID already exists"})
		return
	}

	customer := models.Customer{
		UserID:     userID,
		Name:       req.Name,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		Debt:       decimal.Zero,
		Status:     models.CustomerActive,
	}

	if err := database.DB.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	userID := c.GetUint("userID")
	id := c.Param("id")
	var req struct {
		Name       string `json:"name" binding:"required"`
		NationalID string `json:"national_id" binding:"required"`
		Phone      string `json:"phone"`
		Email      string `json:"email"`
		Address    string `json:"address"`
		Status     string `json:"status" binding:"omitempty,oneof=Active Inactive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Debt is deliberately not editable here; it only moves through the
	// ledger (orders and payments).
	updates := map[string]interface{}{
		"name":        req.Name,
		"national_id": req.NationalID,
		"phone":       req.Phone,
		"email":       req.Email,
		"address":     req.Address,
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	res := database.DB.Model(&models.Customer{}).
		Where("id = ? AND user_id = ?", id, userID).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated"})
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	userID := c.GetUint("userID")
	id := c.Param("id")

	res := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Customer{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}

type RegisterPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference"`
}

// RegisterPayment settles part of a customer's debt through the ledger.
func (h *CustomerHandler) RegisterPayment(c *gin.Context) {
	userID := c.GetUint("userID")
	customerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}

	var req RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.Ledger.RegisterPayment(c.Request.Context(), userID, uint(customerID), req.Amount, req.Reference)
	if err != nil {
		ledgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}
