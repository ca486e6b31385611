package handler

import (
	"net/http"
	"time"

	"despensa-backend/internal/models"
	"despensa-backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ReportHandler struct{}

// rangeStart anchors a report window at the start of the current month,
// quarter or year.
func rangeStart(rng string, now time.Time) time.Time {
	switch rng {
	case "quarter":
		quarterMonth := time.Month(((int(now.Month())-1)/3)*3 + 1)
		return time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, now.Location())
	case "year":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default: // month
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

func (h *ReportHandler) Summary(c *gin.Context) {
	userID := c.GetUint("userID")
	start := rangeStart(c.DefaultQuery("range", "month"), time.Now())

	totalSales := decimal.Zero
	var orderCount int64

	if err := database.DB.Model(&models.Order{}).
		Where("user_id = ? AND created_at >= ? AND status != ?", userID, start, models.OrderCancelled).
		Select("COALESCE(SUM(total), 0)").Scan(&totalSales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute sales report"})
		return
	}
	database.DB.Model(&models.Order{}).
		Where("user_id = ? AND created_at >= ? AND status != ?", userID, start, models.OrderCancelled).
		Count(&orderCount)

	averageTicket := decimal.Zero
	if orderCount > 0 {
		averageTicket = totalSales.DivRound(decimal.NewFromInt(orderCount), 2)
	}

	// Daily trend within the window
	type trendRow struct {
		Day   string
		Sales decimal.Decimal
	}
	trend := []trendRow{}
	rows, err := database.DB.Model(&models.Order{}).
		Where("user_id = ? AND created_at >= ? AND status != ?", userID, start, models.OrderCancelled).
		Select("DATE(created_at) as day, COALESCE(SUM(total), 0) as sales").
		Group("DATE(created_at)").Order("day").Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var r trendRow
			rows.Scan(&r.Day, &r.Sales)
			trend = append(trend, r)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_sales":    totalSales,
		"order_count":    orderCount,
		"average_ticket": averageTicket,
		"trend":          trend,
	})
}

func (h *ReportHandler) TopProducts(c *gin.Context) {
	userID := c.GetUint("userID")
	start := rangeStart(c.DefaultQuery("range", "month"), time.Now())

	type topProduct struct {
		Name     string          `json:"name"`
		Quantity int64           `json:"quantity"`
		Total    decimal.Decimal `json:"total"`
	}
	top := []topProduct{}

	rows, err := database.DB.Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.user_id = ? AND orders.created_at >= ? AND orders.status != ?",
			userID, start, models.OrderCancelled).
		Select("products.name, SUM(order_items.quantity), SUM(order_items.subtotal)").
		Group("products.name").
		Order("SUM(order_items.subtotal) desc").
		Limit(5).Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute top products"})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var p topProduct
		rows.Scan(&p.Name, &p.Quantity, &p.Total)
		top = append(top, p)
	}
	c.JSON(http.StatusOK, top)
}

func (h *ReportHandler) TopCustomers(c *gin.Context) {
	userID := c.GetUint("userID")
	start := rangeStart(c.DefaultQuery("range", "month"), time.Now())

	type topCustomer struct {
		Name   string          `json:"name"`
		Orders int64           `json:"orders"`
		Total  decimal.Decimal `json:"total"`
	}
	top := []topCustomer{}

	rows, err := database.DB.Table("orders").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("orders.user_id = ? AND orders.created_at >= ? AND orders.status != ?",
			userID, start, models.OrderCancelled).
		Select("customers.name, COUNT(orders.id), COALESCE(SUM(orders.total), 0)").
		Group("customers.name").
		Order("SUM(orders.total) desc").
		Limit(5).Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute top customers"})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var t topCustomer
		rows.Scan(&t.Name, &t.Orders, &t.Total)
		top = append(top, t)
	}
	c.JSON(http.StatusOK, top)
}
