package main

import (
	"log"
	"time"

	"despensa-backend/config"
	"despensa-backend/internal/handler"
	"despensa-backend/internal/ledger"
	"despensa-backend/internal/middleware"
	"despensa-backend/internal/models"
	"despensa-backend/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	config.LoadConfig()

	// 2. Connect to Database
	database.Connect()

	// 3. Auto-Migrate Models
	log.Println("Running migrations...")
	err := database.DB.AutoMigrate(
		&models.User{},
		&models.Settings{},
		&models.Category{},
		&models.Product{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed.")

	// 3a. Seed Data
	database.SeedAdminAndDefaults()

	// 4. Initialize Router
	r := gin.Default()
	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Security-Pin"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	ledgerService := ledger.NewService(ledger.NewGormStore(database.DB))

	// 5. Setup Routes
	authHandler := &handler.AuthHandler{}
	authRoutes := r.Group("/api/v1/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	accountRoutes := r.Group("/api/v1/account")
	accountRoutes.Use(middleware.AuthMiddleware())
	{
		accountRoutes.PUT("/password", authHandler.ChangePassword)
		accountRoutes.PUT("/pin", authHandler.ChangePin)
		accountRoutes.POST("/verify-pin", authHandler.VerifyPin)
	}

	customerHandler := &handler.CustomerHandler{Ledger: ledgerService}
	customerRoutes := r.Group("/api/v1/customers")
	customerRoutes.Use(middleware.AuthMiddleware())
	{
		customerRoutes.GET("/stats", customerHandler.Stats)
		customerRoutes.GET("", customerHandler.List)
		customerRoutes.POST("", customerHandler.Create)
		customerRoutes.PUT("/:id", customerHandler.Update)
		customerRoutes.DELETE("/:id", customerHandler.Delete)
		customerRoutes.POST("/:id/payments", customerHandler.RegisterPayment)
	}

	productHandler := &handler.ProductHandler{}
	productRoutes := r.Group("/api/v1/products")
	productRoutes.Use(middleware.AuthMiddleware())
	{
		productRoutes.GET("/stats", productHandler.Stats)
		productRoutes.GET("", productHandler.List)
		productRoutes.POST("", productHandler.Create)
		productRoutes.PUT("/:id", productHandler.Update)
		productRoutes.PATCH("/:id/stock", productHandler.AddStock)
		productRoutes.DELETE("/:id", middleware.RequirePin(), productHandler.Delete)
		productRoutes.PATCH("/:id/restore", middleware.RequirePin(), productHandler.Restore)
	}

	categoryHandler := &handler.CategoryHandler{}
	categoryRoutes := r.Group("/api/v1/categories")
	categoryRoutes.Use(middleware.AuthMiddleware())
	{
		categoryRoutes.GET("", categoryHandler.List)
		categoryRoutes.POST("", categoryHandler.Create)
		categoryRoutes.PUT("/:id", categoryHandler.Update)
		categoryRoutes.DELETE("/:id", middleware.RequirePin(), categoryHandler.Delete)
		categoryRoutes.PATCH("/:id/restore", middleware.RequirePin(), categoryHandler.Restore)
	}

	orderHandler := &handler.OrderHandler{Ledger: ledgerService}
	orderRoutes := r.Group("/api/v1/orders")
	orderRoutes.Use(middleware.AuthMiddleware())
	{
		orderRoutes.GET("/stats/deliveries", orderHandler.DeliveryStats)
		orderRoutes.GET("", orderHandler.List)
		orderRoutes.POST("", orderHandler.Create)
		orderRoutes.PATCH("/:id/status", orderHandler.UpdateStatus)
		orderRoutes.PATCH("/:id/payment", orderHandler.UpdatePaymentStatus)
	}

	paymentHandler := &handler.PaymentHandler{Ledger: ledgerService}
	paymentRoutes := r.Group("/api/v1/payments")
	paymentRoutes.Use(middleware.AuthMiddleware())
	{
		paymentRoutes.GET("/stats", paymentHandler.Stats)
		paymentRoutes.GET("", paymentHandler.List)
		paymentRoutes.POST("", paymentHandler.Register)
	}

	reportHandler := &handler.ReportHandler{}
	reportRoutes := r.Group("/api/v1/reports")
	reportRoutes.Use(middleware.AuthMiddleware())
	{
		reportRoutes.GET("/summary", reportHandler.Summary)
		reportRoutes.GET("/top-products", reportHandler.TopProducts)
		reportRoutes.GET("/top-customers", reportHandler.TopCustomers)
	}

	settingsHandler := &handler.SettingsHandler{}
	settingsRoutes := r.Group("/api/v1/settings")
	settingsRoutes.Use(middleware.AuthMiddleware())
	{
		settingsRoutes.GET("", settingsHandler.Get)
		settingsRoutes.PUT("", settingsHandler.Update)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 6. Start Server
	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
