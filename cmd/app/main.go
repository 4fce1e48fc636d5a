package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"backoffice/cmd"
	httpin "backoffice/internal/adapters/in/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := connectDB(configs)
	redisClient := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Failed to close composition root", "error", err)
		}
	}()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		PaymentAPIBaseURL:  goDotEnvVariable("PAYMENT_API_BASE_URL"),
		PaymentAPIToken:    goDotEnvVariable("PAYMENT_API_TOKEN"),
		RoutingAPIBaseURL:  goDotEnvVariable("ROUTING_API_BASE_URL"),
		RoutingAPIKey:      goDotEnvVariable("ROUTING_API_KEY"),
		RedisAddr:          goDotEnvVariable("REDIS_ADDR"),
		KafkaHost:          goDotEnvVariable("KAFKA_HOST"),
		NotificationsTopic: goDotEnvVariable("KAFKA_NOTIFICATIONS_TOPIC"),

		WebhookDedupTTL:    durationEnvVariable("WEBHOOK_DEDUP_TTL", 24*time.Hour),
		ReconcileThreshold: durationEnvVariable("PAYMENT_RECONCILE_THRESHOLD", 10*time.Minute),
		WorkflowRetryDelay: durationEnvVariable("WORKFLOW_RETRY_DELAY", 2*time.Second),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func durationEnvVariable(key string, fallback time.Duration) time.Duration {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid duration for %s: %v", key, err)
	}
	return d
}

func connectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gorm_postgres.New(gorm_postgres.Config{
		DriverName: "postgres",
		DSN:        dsn,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	return db
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.Use(middleware.Recover())

	server := httpin.NewServer(
		app.CreateTransitionOrderCommandHandler(),
		app.CreateTransitionOrdersCommandHandler(),
		app.CreateCreateShipmentCommandHandler(),
		app.CreateSendShipmentCommandHandler(),
		app.CreateFinishShipmentCommandHandler(),
		app.CreateReceiveStockCommandHandler(),
		app.CreateProcessPaymentWebhookCommandHandler(),
		app.CreateGetShippableOrdersQueryHandler(),
		app.CreateGetStockChangesQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
