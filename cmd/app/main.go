package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"pedidos/cmd"
	httpin "pedidos/internal/adapters/in/http"
	"pedidos/internal/adapters/out/postgres/catalogrepo"
	"pedidos/internal/adapters/out/postgres/orderrepo"
	"pedidos/internal/adapters/out/postgres/userrepo"
	"pedidos/internal/adapters/out/redisfeed"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	mustMigrate(gormDB)

	feed, err := redisfeed.NewFeed(configs.RedisAddr, configs.RedisPassword, configs.RedisDB, logger)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer func() { _ = feed.Close() }()

	root := cmd.NewCompositionRoot(configs, gormDB, feed, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := root.Collection().Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Order collection stopped", "error", err)
		}
	}()
	go func() {
		if err := root.Dispatcher().Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Notification dispatcher stopped", "error", err)
		}
	}()

	jobManager := root.CreateJobManager(configs)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, root.CreateHTTPServer(), configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:      goDotEnvVariable("HTTP_PORT"),
		DBHost:        goDotEnvVariable("DB_HOST"),
		DBPort:        goDotEnvVariable("DB_PORT"),
		DBUser:        goDotEnvVariable("DB_USER"),
		DBPassword:    goDotEnvVariable("DB_PASSWORD"),
		DBName:        goDotEnvVariable("DB_NAME"),
		DBSslMode:     goDotEnvVariable("DB_SSLMODE"),
		RedisAddr:     goDotEnvVariable("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB"),
		ResyncSpec:    os.Getenv("RESYNC_CRON_SPEC"),
	}
}

func goDotEnvVariable(key string) string {
	if err := godotenv.Load(".env"); err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func envInt(key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid integer for %s: %q", key, raw)
	}
	return value
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func mustMigrate(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.OrderLogDTO{},
		&orderrepo.OrderCommentDTO{},
		&userrepo.UserDTO{},
		&userrepo.UserCityDTO{},
		&userrepo.UserUnavailableDateDTO{},
		&catalogrepo.CatalogEntryDTO{},
		&catalogrepo.CityDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Order numbers come from a dedicated sequence, not from the table.
	if err := gormDB.Exec("CREATE SEQUENCE IF NOT EXISTS order_number_seq").Error; err != nil {
		log.Fatalf("Failed to create order number sequence: %v", err)
	}
}

func startWebServer(ctx context.Context, server *httpin.Server, port string, logger *slog.Logger) {
	e := echo.New()
	server.RegisterRoutes(e)

	go func() {
		<-ctx.Done()
		if err := e.Shutdown(context.Background()); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
	}()

	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil {
		logger.Info("HTTP server stopped", "error", err)
	}
}
