package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/matyasmehes/szakdolgozat/internal/handlers"
	"github.com/matyasmehes/szakdolgozat/internal/middleware"
	"github.com/matyasmehes/szakdolgozat/internal/models"
	"github.com/matyasmehes/szakdolgozat/internal/repositories"
	"github.com/matyasmehes/szakdolgozat/internal/services"
)

// appConfig holds the process-wide settings resolved once at startup.
type appConfig struct {
	Port       string
	PostgresDS string
	SQLitePath string
	Tokens     services.TokenConfig
}

func loadConfig() appConfig {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("SQLITE_PATH", "szakdolgozat.db")
	viper.SetDefault("JWT_SECRET", "dev-only-secret-change-me")
	viper.SetDefault("JWT_ISSUER", "myapp")
	viper.SetDefault("JWT_AUDIENCE", "myclient")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)
	viper.AutomaticEnv() // Load environment variables

	return appConfig{
		Port:       viper.GetString("APP_PORT"),
		PostgresDS: viper.GetString("DATABASE_URL"),
		SQLitePath: viper.GetString("SQLITE_PATH"),
		Tokens: services.TokenConfig{
			Secret:   []byte(viper.GetString("JWT_SECRET")),
			Issuer:   viper.GetString("JWT_ISSUER"),
			Audience: viper.GetString("JWT_AUDIENCE"),
			TTL:      time.Duration(viper.GetInt("TOKEN_TTL_HOURS")) * time.Hour,
		},
	}
}

// openDatabase connects to PostgreSQL when DATABASE_URL is set and falls
// back to a local SQLite file otherwise, then migrates the schema.
func openDatabase(cfg appConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.PostgresDS != "" {
		dialector = postgres.Open(cfg.PostgresDS)
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.MenuItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		return nil, err
	}
	return db, nil
}

// newApp wires repositories, services and handlers into a Fiber app.
func newApp(db *gorm.DB, cfg appConfig) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)
	menuRepo := repositories.NewGORMMenuItemRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	seedMenuItems(menuRepo)

	authService := services.NewAuthService(userRepo, cfg.Tokens)
	pricingService := services.NewPricingService(menuRepo)
	orderService := services.NewOrderService(orderRepo, menuRepo, userRepo, pricingService)

	authHandler := handlers.NewAuthHandler(authService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	app.Use(logger.New())
	app.Use(recover.New())

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(authService)
	authHandler.RegisterRoutes(api, authRequired)
	orderHandler.RegisterRoutes(api, authRequired)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// seedMenuItems populates the menu on first start so a fresh deployment has
// something to order.
func seedMenuItems(repo repositories.MenuItemRepository) {
	count, err := repo.Count()
	if err != nil {
		log.Printf("Error checking menu items: %v", err)
		return
	}
	if count > 0 {
		return
	}

	items := []models.MenuItem{
		{Name: "Gulyásleves", Price: decimal.NewFromInt(1500)},
		{Name: "Rántott sajt", Price: decimal.NewFromInt(2200)},
		{Name: "Lángos", Price: decimal.NewFromInt(900)},
		{Name: "Palacsinta", Price: decimal.NewFromInt(700)},
	}
	for i := range items {
		if err := repo.Create(&items[i]); err != nil {
			log.Printf("Error seeding menu item %s: %v", items[i].Name, err)
		} else {
			log.Printf("Seeded menu item: %s (ID: %d)", items[i].Name, items[i].ID)
		}
	}
}

func main() {
	cfg := loadConfig()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	app := newApp(db, cfg)

	log.Printf("Starting server on port %s", cfg.Port)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.Port); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
