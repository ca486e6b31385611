package handler

import (
	"encoding/json"
	"net/http"

	"despensa-backend/internal/models"
	"despensa-backend/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

type SettingsHandler struct{}

func (h *SettingsHandler) Get(c *gin.Context) {
	userID := c.GetUint("userID")

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	var settings models.Settings
	database.DB.Where("user_id = ?", userID).First(&settings)

	c.JSON(http.StatusOK, gin.H{
		"business": gin.H{
			"name":  user.BusinessName,
			"email": user.Email,
			"phone": user.Phone,
		},
		"settings": settings.Data,
	})
}

type UpdateSettingsRequest struct {
	Business *struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"business"`
	Settings map[string]interface{} `json:"settings"`
}

func (h *SettingsHandler) Update(c *gin.Context) {
	userID := c.GetUint("userID")
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Business != nil {
		updates := map[string]interface{}{}
		if req.Business.Name != "" {
			updates["business_name"] = req.Business.Name
		}
		if req.Business.Email != "" {
			updates["email"] = req.Business.Email
		}
		if req.Business.Phone != "" {
			updates["phone"] = req.Business.Phone
		}
		if len(updates) > 0 {
			if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update business info"})
				return
			}
		}
	}

	if req.Settings != nil {
		payload, err := json.Marshal(req.Settings)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings payload"})
			return
		}
		settings := models.Settings{UserID: userID, Data: datatypes.JSON(payload)}
		if err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(&settings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings saved"})
}
