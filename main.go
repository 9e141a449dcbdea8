package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"farmmarket/internal/api"
	"farmmarket/internal/config"
	"farmmarket/internal/handlers"
	"farmmarket/internal/middleware"
	"farmmarket/internal/models"
	"farmmarket/internal/repositories"
	"farmmarket/internal/services"
	"farmmarket/internal/workspace"
	"farmmarket/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	v := viper.New()
	config.SetDefaults(v)
	v.AutomaticEnv()

	cfg, err := config.Load(v)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Order events (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeOrderEvents(logOrderEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set, order events are disabled")
	}

	// --- Backend ---
	var backend workspace.BackendFactory
	switch cfg.BackendMode {
	case config.BackendMemory:
		mock := repositories.NewMockBackend()
		seedCatalogue(mock)
		backend = workspace.MemoryBackend(mock)
		log.Println("Using in-memory backend")
	default:
		backend = workspace.RemoteBackend(api.Config{
			BaseURL: cfg.BackendURL,
			Timeout: cfg.RequestTimeout,
			Debug:   cfg.Debug,
		})
		log.Printf("Using backend at %s", cfg.BackendURL)
	}

	registry := workspace.NewRegistry(backend, workspace.Options{
		IdleTTL:         cfg.WorkspaceIdleTTL,
		NotificationTTL: cfg.NotificationTTL,
		Cart:            services.CartStoreOptions{DropStaleResponses: cfg.DropStaleCartResponses},
		Publisher:       publisher,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go registry.Run(ctx, time.Minute)

	// --- Fiber App ---
	app := NewApp(cfg, registry)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	stop()
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp builds the storefront's Fiber app on top of registry.
func NewApp(cfg config.Config, registry *workspace.Registry) *fiber.App {
	app := fiber.New()
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":     "healthy",
			"time":       time.Now().Format(time.RFC3339),
			"backend":    cfg.BackendMode,
			"workspaces": registry.Len(),
		})
	})

	v1 := app.Group("/v1", middleware.Session(registry, cfg.WorkspaceIdleTTL))

	// Public routes
	handlers.NewAuthHandler().RegisterRoutes(v1)
	handlers.NewProductHandler(cfg.MediaBaseURL).RegisterRoutes(v1)
	handlers.NewNotificationHandler().RegisterRoutes(v1)

	// Signed-in routes
	signedIn := v1.Group("", middleware.IdentityRequired())
	handlers.NewCartHandler(cfg.MediaBaseURL).RegisterRoutes(signedIn)
	handlers.NewOrderHandler(cfg.MediaBaseURL).RegisterRoutes(signedIn)

	// Farmer routes
	farmer := v1.Group("", middleware.FarmerRequired())
	handlers.NewFarmerHandler(cfg.MediaBaseURL).RegisterRoutes(farmer)

	return app
}

func logOrderEvent(event models.OrderEvent) error {
	log.Printf("Received order event %s: order=%d user=%d total=%s %s",
		event.Type, event.OrderID, event.UserID, event.TotalAmount.StringFixed(2), event.Error)
	return nil
}

// seedCatalogue fills the in-memory backend with a demo farmer and catalogue.
func seedCatalogue(b *repositories.MockBackend) {
	farmer, err := b.AddUser(models.RegisterRequest{
		Username:    "farmer",
		Email:       "farmer@example.com",
		Password:    "farmer123",
		FirstName:   "Demo",
		LastName:    "Farmer",
		PhoneNumber: "+000000000",
		Address:     "Green Valley 1",
		UserType:    models.UserTypeFarmer,
	})
	if err != nil {
		log.Printf("Error seeding farmer: %v", err)
		return
	}

	vegetables := b.AddCategory(models.Category{Name: "Vegetables", Description: "Fresh seasonal vegetables"})
	fruits := b.AddCategory(models.Category{Name: "Fruits", Description: "Orchard fruits"})
	dairy := b.AddCategory(models.Category{Name: "Dairy", Description: "Milk, cheese and eggs"})

	products := []models.Product{
		{Category: vegetables.ID, Name: "Carrots", Description: "Organic carrots", Price: decimal.RequireFromString("2.50"), QuantityAvailable: 100, Unit: "kg", IsAvailable: true, Image: "products/carrots.jpg"},
		{Category: vegetables.ID, Name: "Tomatoes", Description: "Vine ripened", Price: decimal.RequireFromString("3.20"), QuantityAvailable: 80, Unit: "kg", IsAvailable: true},
		{Category: fruits.ID, Name: "Apples", Description: "Crisp red apples", Price: decimal.RequireFromString("4.00"), QuantityAvailable: 60, Unit: "kg", IsAvailable: true},
		{Category: dairy.ID, Name: "Goat Cheese", Description: "Aged two months", Price: decimal.RequireFromString("10.00"), QuantityAvailable: 20, Unit: "piece", IsAvailable: true},
	}
	for _, p := range products {
		p.Farmer = farmer.ID
		p.FarmerName = farmer.Username
		seeded := b.AddProduct(p)
		log.Printf("Seeded product: %s (ID: %d)", seeded.Name, seeded.ID)
	}
}
