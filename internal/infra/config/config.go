// internal/infra/config/config.go
package config

import "os"

// Config holds the environment configuration for the whole application.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	GCSBucket string
	GCPCreds  string

	RedisAddr     string
	RedisPassword string

	// Postgres DSN for the order-history archive. Empty disables archiving
	// (orders still land in Firestore).
	PostgresDSN string

	// SendGrid. The API key may come from the environment directly or from
	// Secret Manager via SendGridSecretID.
	SendGridAPIKey   string
	SendGridSecretID string
	MailFrom         string

	// External insight services. An empty base URL disables the widget.
	WeatherBaseURL    string
	WeatherAPIKey     string
	NewsBaseURL       string
	NewsAPIKey        string
	AdvisoryBaseURL   string
	AdvisoryAPIKey    string
	PriceIndexBaseURL string
	PriceIndexAPIKey  string
}

// Load reads the environment and returns a Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "agrimarket-dev")

	cfg := &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		GCSBucket: os.Getenv("GCS_BUCKET"),
		GCPCreds:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		SendGridSecretID: getenvDefault("SENDGRID_SECRET_ID", "sendgrid-api-key"),
		MailFrom:         getenvDefault("MAIL_FROM", "orders@agrimarket.example.com"),

		WeatherBaseURL:    os.Getenv("WEATHER_BASE_URL"),
		WeatherAPIKey:     os.Getenv("WEATHER_API_KEY"),
		NewsBaseURL:       os.Getenv("NEWS_BASE_URL"),
		NewsAPIKey:        os.Getenv("NEWS_API_KEY"),
		AdvisoryBaseURL:   os.Getenv("ADVISORY_BASE_URL"),
		AdvisoryAPIKey:    os.Getenv("ADVISORY_API_KEY"),
		PriceIndexBaseURL: os.Getenv("PRICE_INDEX_BASE_URL"),
		PriceIndexAPIKey:  os.Getenv("PRICE_INDEX_API_KEY"),
	}

	return cfg
}

// GetFirestoreProjectID returns the Firestore/GCP project ID.
func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

func (c *Config) GetFirebaseProjectID() string {
	return c.FirebaseProjectID
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
