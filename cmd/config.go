package cmd

import "time"

// Config carries every externally supplied setting, loaded from the
// environment by cmd/app.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	PaymentAPIBaseURL  string
	PaymentAPIToken    string
	RoutingAPIBaseURL  string
	RoutingAPIKey      string
	RedisAddr          string
	KafkaHost          string
	NotificationsTopic string

	WebhookDedupTTL    time.Duration
	ReconcileThreshold time.Duration
	WorkflowRetryDelay time.Duration
}
