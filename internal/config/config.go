package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Config struct {
	Port        string
	Environment string
	BaseURL     string
	CORSOrigins string
	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GoogleJWKSURL      string // empty disables id_token verification
	// Sessions and archives
	SessionSecret string
	SessionTTL    time.Duration
	ArchiveTTL    time.Duration
	// Conversion defaults
	OutputFolderName string
	OutputSuffix     string
	ExportFormat     string
	StylesheetPath   string // empty uses the embedded default
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool // Enables debug-level logging
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	port := getEnv("PORT", "8080")
	baseURL := strings.TrimSuffix(getEnv("BASE_URL", "http://localhost:"+port), "/")

	return &Config{
		Port:        port,
		Environment: env,
		BaseURL:     baseURL,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// Google OAuth
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", baseURL+"/auth/google/callback"),
		GoogleJWKSURL:      getEnv("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs"),
		// Sessions and archives
		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		ArchiveTTL:    getDuration("ARCHIVE_TTL", time.Hour),
		// Conversion defaults
		OutputFolderName: getEnv("OUTPUT_FOLDER_NAME", "Formatted Markdown"),
		OutputSuffix:     getEnv("OUTPUT_SUFFIX", " (Formatted)"),
		ExportFormat:     strings.ToLower(getEnv("EXPORT_FORMAT", "pdf")),
		StylesheetPath:   getEnv("STYLESHEET_PATH", ""),
		// Logging
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.GoogleClientID, validation.Required),
		validation.Field(&c.GoogleClientSecret, validation.Required),
		validation.Field(&c.GoogleRedirectURL, validation.Required),
		validation.Field(&c.SessionSecret,
			validation.Required,
			validation.Length(MinSessionSecretLength, 0),
		),
		validation.Field(&c.SessionTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.ArchiveTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.OutputFolderName,
			validation.Required,
			validation.Length(1, MaxFolderNameLength),
		),
		validation.Field(&c.ExportFormat, validation.Required, validation.In("pdf", "docx")),
		validation.Field(&c.LogMaxFiles, validation.Min(1)),
	)
}

// IsProduction reports whether the server runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a Go duration ("90m", "24h"); malformed values fall back to the default.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}
