package handler

import (
	"net/http"

	"despensa-backend/internal/models"
	"despensa-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct{}

func (h *CategoryHandler) List(c *gin.Context) {
	userID := c.GetUint("userID")
	categories := []models.Category{}

	query := database.DB.Where("user_id = ?", userID).Order("name")
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	userID := c.GetUint("userID")
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	database.DB.Model(&models.Category{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, req.Name).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists"})
		return
	}

	category := models.Category{UserID: userID, Name: req.Name, IsActive: true}
	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	userID := c.GetUint("userID")
	id := c.Param("id")
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := database.DB.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", id, userID).Update("name", req.Name)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	h.setActive(c, false, "Category deactivated")
}

func (h *CategoryHandler) Restore(c *gin.Context) {
	h.setActive(c, true, "Category restored")
}

func (h *CategoryHandler) setActive(c *gin.Context, active bool, message string) {
	userID := c.GetUint("userID")
	id := c.Param("id")

	res := database.DB.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", id, userID).Update("is_active", active)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
