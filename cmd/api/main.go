package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-storefront-api/internal/config"
	"go-storefront-api/internal/event"
	"go-storefront-api/internal/handler"
	"go-storefront-api/internal/kafka"
	"go-storefront-api/internal/repository"
	"go-storefront-api/internal/service"
	"go-storefront-api/internal/ws"
	"go-storefront-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Event sinks: websocket hub, plus Kafka when brokers are configured
	wsHub := ws.NewHub()
	go wsHub.Run()

	publishers := event.Multi{wsHub}
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, 1024)
		producer.Start()
		publishers = append(publishers, producer)
		log.Printf("Publishing events to Kafka topic %s", cfg.KafkaTopic)
	}

	// 4. Dependency Injection (Wiring Layers)
	customerRepo := repository.NewCustomerRepo(db)
	accountRepo := repository.NewAccountRepo(db)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)

	ledger := service.NewStockLedger(db, productRepo, movementRepo, publishers)
	customerService := service.NewCustomerService(customerRepo, accountRepo, orderRepo)
	accountService := service.NewAccountService(accountRepo, customerRepo)
	productService := service.NewProductService(db, productRepo, ledger)
	orderService := service.NewOrderService(db, orderRepo, customerRepo, productRepo, ledger, publishers)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New())

	// 6. Routes
	app.Get("/healthz", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "database unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok", "ws_clients": wsHub.ClientCount()})
	})

	handler.NewCustomerHandler(customerService).Register(app)
	handler.NewAccountHandler(accountService).Register(app)
	handler.NewProductHandler(productService).Register(app)
	handler.NewOrderHandler(orderService).Register(app)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	if producer != nil {
		producer.Close()
		producer.WaitClosed()
	}

	log.Println("Server exited")
}
