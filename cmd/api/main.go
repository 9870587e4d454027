package main

import (
	"context"
	"log"
	"os"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Membership Dashboard API
// @version         1.0
// @description     Tier-gated link dashboard with membership applications, category permissions and ordered content.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if err := database.Seed(context.Background(), db); err != nil {
		log.Fatalf("Seeding default tiers failed: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	tierRepo := repository.NewTierRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	txManager := repository.NewTransactionManager(db)

	tierService := service.NewTierService(tierRepo)
	permissionService := service.NewPermissionService(tierRepo, categoryRepo, permissionRepo, profileRepo, txManager)
	membershipService := service.NewMembershipService(profileRepo, tierRepo, txManager)
	categoryService := service.NewCategoryService(db, categoryRepo, itemRepo, permissionRepo, txManager, wsHub)
	itemService := service.NewItemService(db, itemRepo, categoryRepo, txManager, wsHub)
	announcementService := service.NewAnnouncementService(announcementRepo, wsHub)

	// Initialize Handlers
	tierHandler := handler.NewTierHandler(tierService)
	permissionHandler := handler.NewPermissionHandler(permissionService)
	membershipHandler := handler.NewMembershipHandler(membershipService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	itemHandler := handler.NewItemHandler(itemService, categoryService, permissionService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	tierHandler.RegisterRoutes(router.Group(""))
	permissionHandler.RegisterRoutes(router.Group(""))
	membershipHandler.RegisterRoutes(router.Group(""))
	categoryHandler.RegisterRoutes(router.Group(""))
	itemHandler.RegisterRoutes(router.Group(""))
	announcementHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
