package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"docbridge/internal/auth"
	"docbridge/internal/config"
	"docbridge/internal/handler"
	"docbridge/internal/middleware"
	"docbridge/internal/repository/google"
	"docbridge/internal/service/archive"
	serviceDocsys "docbridge/internal/service/docsystem"
	"docbridge/internal/service/docsystem/converter"
	"docbridge/internal/service/transformer"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// oauthStateTTL bounds how long a consent round trip may take.
const oauthStateTTL = 10 * time.Minute

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logOut, logCloser, err := config.LogOutput(cfg)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logCloser.Close()

	logger := config.NewLogger(cfg, logOut)
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"export_format", cfg.ExportFormat,
		"output_folder", cfg.OutputFolderName,
	)

	// Google OAuth and id_token verification
	ctx := context.Background()
	oauthConfig := auth.NewGoogleProvider(auth.OAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})

	var idVerifier auth.IDTokenVerifier
	if cfg.GoogleJWKSURL != "" {
		idVerifier, err = auth.NewGoogleIDVerifier(ctx, cfg.GoogleJWKSURL, cfg.GoogleClientID, logger)
		if err != nil {
			log.Fatalf("Failed to create id_token verifier: %v", err)
		}
		defer idVerifier.Close()
	} else {
		logger.Warn("GOOGLE_JWKS_URL is empty: id_token verification disabled")
	}

	// Sessions and archives
	sessions := auth.NewSessionStore(cfg.SessionTTL, oauthStateTTL)
	issuer, err := auth.NewSessionIssuer([]byte(cfg.SessionSecret), cfg.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to create session issuer: %v", err)
	}
	archives := archive.NewStore(cfg.ArchiveTTL, logger)

	// Remote document store
	storeFactory := google.NewStoreFactory(&google.RepositoryConfig{
		Logger:           logger,
		MaxListed:        config.MaxListedDocuments,
		MaxDownloadBytes: config.MaxDownloadBytes,
	})

	// Conversion pipeline
	var tf *transformer.Transformer
	if cfg.StylesheetPath != "" {
		sheet, err := transformer.LoadStyleSheetFile(cfg.StylesheetPath)
		if err != nil {
			log.Fatalf("Failed to load stylesheet: %v", err)
		}
		tf = transformer.NewWithStyleSheet(sheet)
		logger.Info("stylesheet loaded", "path", cfg.StylesheetPath)
	} else {
		tf, err = transformer.New()
		if err != nil {
			log.Fatalf("Failed to load default stylesheet: %v", err)
		}
	}

	registry := converter.NewConverterRegistry()
	conversionService := serviceDocsys.NewConversionService(
		serviceDocsys.ConversionConfig{
			OutputFolderName:  cfg.OutputFolderName,
			OutputSuffix:      cfg.OutputSuffix,
			ExportFormat:      cfg.ExportFormat,
			MaxArchiveEntries: config.MaxArchiveEntries,
		},
		registry,
		converter.NewMarkdownRenderer(),
		tf,
		logger,
	)

	// Create handlers
	authHandler := handler.NewAuthHandler(handler.AuthHandlerConfig{
		OAuth:         oauthConfig,
		Verifier:      idVerifier,
		Sessions:      sessions,
		Issuer:        issuer,
		Archives:      archives,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.IsProduction(),
		Logger:        logger,
	})
	stores := handler.NewStoreProvider(oauthConfig, sessions, storeFactory, logger)
	conversionHandler := handler.NewConversionHandler(conversionService, stores, archives, cfg.BaseURL, logger)

	logger.Info("services initialized", "converters", registry.SupportedExtensions())

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.HandleFunc("GET /auth/google", authHandler.Start)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("POST /auth/google/callback", authHandler.Callback)

	// Session-protected routes
	protected := http.NewServeMux()
	protected.HandleFunc("GET /api/docs", conversionHandler.ListDocuments)
	protected.HandleFunc("POST /api/convert", conversionHandler.Convert)
	protected.HandleFunc("GET /api/download-zip", conversionHandler.DownloadZip)
	protected.HandleFunc("POST /auth/logout", authHandler.Logout)

	requireSession := middleware.RequireSession(issuer, sessions, logger)
	mux.Handle("/api/", requireSession(protected))
	mux.Handle("POST /auth/logout", requireSession(protected))

	// Build middleware chain
	var handler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestLogger → Recovery → Routes
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestLogger(logger)(handler)

	// CORS - outermost so OPTIONS pre-flight requests never hit auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	handler = corsHandler.Handler(handler)

	// Create HTTP server
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// Batches run inside the request; allow long conversions
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port, "base_url", cfg.BaseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
