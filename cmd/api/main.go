package main

import (
	"log"
	"os"
	"strings"

	"github.com/asadfd/erp-deployment/internal/database"
	"github.com/asadfd/erp-deployment/internal/handler"
	"github.com/asadfd/erp-deployment/internal/middleware"
	"github.com/asadfd/erp-deployment/internal/repository"
	"github.com/asadfd/erp-deployment/internal/service"
	"github.com/asadfd/erp-deployment/internal/storage"
	"github.com/asadfd/erp-deployment/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           ERP Backend API
// @version         1.0
// @description     Employee, project, inventory, purchase order and approval workflow API.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dbHost := envOr("DB_HOST", "localhost")
		dbPort := envOr("DB_PORT", "5432")
		dbUser := envOr("DB_USER", "postgres")
		dbPassword := envOr("DB_PASSWORD", "postgres")
		dbName := envOr("DB_NAME", "erp")
		dbSslMode := envOr("DB_SSLMODE", "disable")
		dsn = "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode
	}

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// WebSocket hub for notification pushes
	wsHub := websocket.NewHub()
	go wsHub.Run()

	docs := storage.NewDocStore(os.Getenv("UPLOAD_DIR"))

	// Repositories
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	employeeReqRepo := repository.NewEmployeeRequestRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	inventoryReqRepo := repository.NewInventoryRequestRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)
	projectInvRepo := repository.NewProjectInventoryRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	mrfRepo := repository.NewMRFRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services (notification service first, the workflow services push through it)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, wsHub)
	userService := service.NewUserService(userRepo)
	employeeService := service.NewEmployeeService(employeeRepo)
	employeeReqService := service.NewEmployeeRequestService(employeeReqRepo, employeeRepo, auditRepo, txManager, notificationService, docs)
	inventoryService := service.NewInventoryService(inventoryRepo, inventoryReqRepo, auditRepo, txManager, notificationService)
	mrfService := service.NewMRFService(mrfRepo, auditRepo, txManager, notificationService)
	poService := service.NewPurchaseOrderService(poRepo, projectRepo, inventoryRepo, projectInvRepo, auditRepo, txManager, notificationService)
	projectService := service.NewProjectService(projectRepo, employeeRepo, timesheetRepo, projectInvRepo, inventoryRepo, poRepo, cashFlowRepo, txManager)
	reportService := service.NewReportService(projectRepo, timesheetRepo, poRepo, projectInvRepo, cashFlowRepo)
	auditService := service.NewAuditService(auditRepo)

	// Handlers
	userHandler := handler.NewUserHandler(userService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	employeeReqHandler := handler.NewEmployeeRequestHandler(employeeReqService, docs)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	mrfHandler := handler.NewMRFHandler(mrfService)
	poHandler := handler.NewPurchaseOrderHandler(poService)
	projectHandler := handler.NewProjectHandler(projectService, poService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	reportHandler := handler.NewReportHandler(reportService)
	auditHandler := handler.NewAuditHandler(auditService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	api := router.Group("/api")
	userHandler.RegisterRoutes(api)
	employeeHandler.RegisterRoutes(api)
	employeeReqHandler.RegisterRoutes(api)
	inventoryHandler.RegisterRoutes(api)
	mrfHandler.RegisterRoutes(api)
	poHandler.RegisterRoutes(api)
	projectHandler.RegisterRoutes(api)
	notificationHandler.RegisterRoutes(api)
	reportHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	port := envOr("PORT", "8080")
	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func corsOrigins() []string {
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		return strings.Split(origins, ",")
	}
	return []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"}
}
