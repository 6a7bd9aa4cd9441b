package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/logger"
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; variables may come from the environment directly.
	_ = godotenv.Load()

	log := logger.NewWithDefaults()
	defer log.Sync()

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Supplier{},
		&model.User{},
		&model.Product{},
		&model.Transaction{},
	); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	hub := ws.NewHub(log)
	go hub.Run()

	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	initialStatus := model.TransactionStatus(os.Getenv("LEDGER_INITIAL_STATUS"))

	txService := service.NewTransactionService(db, productRepo, txRepo, supplierRepo, userRepo, hub, log, initialStatus)
	reportService := service.NewReportService(txService)
	productService := service.NewProductService(productRepo, categoryRepo, log)
	authService := service.NewAuthService(userRepo, log)

	txHandler := handler.NewTransactionHandler(txService, log)
	reportHandler := handler.NewReportHandler(reportService, log)
	productHandler := handler.NewProductHandler(productService, log)
	authHandler := handler.NewAuthHandler(authService, log)

	app := fiber.New(fiber.Config{
		AppName: "Inventory Ledger v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	protected := api.Group("", middleware.RequireAuth(userRepo))
	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", middleware.RequireAdmin(), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireAdmin(), productHandler.UpdateProduct)

	protected.Post("/transactions/restock", txHandler.Restock)
	protected.Post("/transactions/sell", txHandler.Sell)
	protected.Post("/transactions/return", txHandler.ReturnToSupplier)
	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Get("/transactions/by-month", txHandler.GetTransactionsByMonth)
	protected.Get("/transactions/:id", txHandler.GetTransaction)
	protected.Put("/transactions/:id/status", middleware.RequireAdmin(), txHandler.UpdateStatus)

	protected.Get("/reports/monthly", reportHandler.MonthlySummary)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
