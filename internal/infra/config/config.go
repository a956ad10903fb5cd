// internal/infra/config/config.go
package config

import "os"

// Config holds environment-derived settings for the whole application.
type Config struct {
	Port                     string
	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Firebase Auth project (defaults to the GCP project)
	FirebaseProjectID string

	// Product image bucket (catalog / cart / order thumbnails)
	ProductImageBucket string

	// Optional Postgres mirror for order analytics (empty disables it)
	DatabaseURL string

	// Mail
	MailFromAddress string
	// Secret Manager secret id holding the SendGrid API key.
	// SENDGRID_API_KEY env wins when set (local dev).
	SendGridSecretID string
	SendGridAPIKey   string

	// Base URL of the storefront frontend (order tracking links in mail)
	SiteBaseURL string

	// Shared secret for the shipping webhook
	ShippingWebhookToken string
}

// Load reads environment variables and returns a Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "storefront-development")

	return &Config{
		Port:                     getenvDefault("PORT", "8080"),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		ProductImageBucket: getenvDefault("PRODUCT_IMAGE_BUCKET", "storefront-development_product_images"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		MailFromAddress:  getenvDefault("MAIL_FROM_ADDRESS", "no-reply@storefront.example.com"),
		SendGridSecretID: getenvDefault("SENDGRID_SECRET_ID", "storefront-sendgrid-api-key"),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),

		SiteBaseURL: os.Getenv("SITE_BASE_URL"),

		ShippingWebhookToken: os.Getenv("SHIPPING_WEBHOOK_TOKEN"),
	}
}

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
