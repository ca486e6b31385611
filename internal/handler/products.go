package handler

import (
	"net/http"

	"despensa-backend/internal/models"
	"despensa-backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductHandler struct{}

func (h *ProductHandler) List(c *gin.Context) {
	userID := c.GetUint("userID")
	products := []models.Product{}

	query := database.DB.Preload("Category").Where("user_id = ?", userID).Order("id desc")
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if code := c.Query("code"); code != "" {
		query = query.Where("code = ?", code)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}

	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Stats(c *gin.Context) {
	userID := c.GetUint("userID")

	var total, lowStock, critical int64
	inventoryValue := decimal.Zero

	database.DB.Model(&models.Product{}).
		Where("user_id = ? AND is_active = ?", userID, true).Count(&total)
	database.DB.Model(&models.Product{}).
		Where("user_id = ? AND is_active = ? AND stock <= stock_minimum", userID, true).Count(&lowStock)
	database.DB.Model(&models.Product{}).
		Where("user_id = ? AND is_active = ? AND stock < stock_minimum", userID, true).Count(&critical)
	database.DB.Model(&models.Product{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Select("COALESCE(SUM(sale_price * stock), 0)").Scan(&inventoryValue)

	c.JSON(http.StatusOK, gin.H{
		"total":           total,
		"low_stock":       lowStock,
		"critical":        critical,
		"inventory_value": inventoryValue,
	})
}

type CreateProductRequest struct {
	CategoryID   *uint           `json:"category_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name" binding:"required"`
	SalePrice    decimal.Decimal `json:"sale_price" binding:"required"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	Stock        int             `json:"stock"`
	StockMinimum int             `json:"stock_minimum"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	userID := c.GetUint("userID")
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Code != "" {
		var count int64
		database.DB.Model(&models.Product{}).
			Where("user_id = ? AND code = ?", userID, req.Code).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "A product with this code already exists"})
			return
		}
	}

	stockMinimum := req.StockMinimum
	if stockMinimum <= 0 {
		stockMinimum = 5
	}

	product := models.Product{
		UserID:       userID,
		CategoryID:   req.CategoryID,
		Code:         req.Code,
		Name:         req.Name,
		SalePrice:    req.SalePrice,
		CostPrice:    req.CostPrice,
		Stock:        req.Stock,
		StockMinimum: stockMinimum,
		IsActive:     true,
	}

	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	userID := c.GetUint("userID")
	id := c.Param("id")
	var req struct {
		CategoryID   *uint           `json:"category_id"`
		Code         string          `json:"code"`
		Name         string          `json:"name" binding:"required"`
		SalePrice    decimal.Decimal `json:"sale_price" binding:"required"`
		CostPrice    decimal.Decimal `json:"cost_price"`
		StockMinimum int             `json:"stock_minimum"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Stock is excluded on purpose: it only moves through orders and the
	// add-stock endpoint.
	res := database.DB.Model(&models.Product{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"category_id":   req.CategoryID,
			"code":          req.Code,
			"name":          req.Name,
			"sale_price":    req.SalePrice,
			"cost_price":    req.CostPrice,
			"stock_minimum": req.StockMinimum,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// Delete is a soft delete; the row survives for order history and restore.
func (h *ProductHandler) Delete(c *gin.Context) {
	h.setActive(c, false, "Product deactivated")
}

func (h *ProductHandler) Restore(c *gin.Context) {
	h.setActive(c, true, "Product restored")
}

func (h *ProductHandler) setActive(c *gin.Context, active bool, message string) {
	userID := c.GetUint("userID")
	id := c.Param("id")

	res := database.DB.Model(&models.Product{}).
		Where("id = ? AND user_id = ?", id, userID).Update("is_active", active)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

type AddStockRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

func (h *ProductHandler) AddStock(c *gin.Context) {
	userID := c.GetUint("userID")
	id := c.Param("id")
	var req AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := database.DB.Model(&models.Product{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("stock", gorm.Expr("stock + ?", req.Quantity))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock added"})
}
