package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"dinarex/internal/auth"
	"dinarex/internal/domain"
	"dinarex/internal/events"
	"dinarex/internal/handler"
	"dinarex/internal/middleware"
	"dinarex/internal/notification"
	"dinarex/internal/order"
	"dinarex/internal/pricing"
	"dinarex/internal/repository/postgres"
	"dinarex/internal/upload"
	"dinarex/pkg/cache"
	"dinarex/pkg/config"
	"dinarex/pkg/logger"
	"dinarex/pkg/mailer"
	"dinarex/pkg/validator"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New("order-service")

	if err := cfg.ValidateCore(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Starting Order Service", map[string]interface{}{
		"port": cfg.Server.Port,
	})

	// Database connection
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	log.Info("Database connected", nil)

	// Redis connection
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Redis connected", nil)

	// Repositories
	orderRepo := postgres.NewOrderRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	// Storage
	var provider upload.StorageProvider
	switch cfg.Storage.Provider {
	case "hosted":
		provider = upload.NewHostedStorageProvider(cfg.Storage.BaseURL, cfg.Storage.Bucket, cfg.Storage.Token)
	default:
		provider = upload.NewLocalStorageProvider(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	}
	uploadCfg := upload.DefaultConfig()
	uploadCfg.MaxFileSize = cfg.Storage.MaxFileSize
	uploader := upload.NewService(provider, uploadCfg, log)

	// Pricing
	catalog := pricing.DefaultCatalog()
	defaultShipping, err := decimal.NewFromString(cfg.Pricing.DefaultShippingFee)
	if err != nil {
		log.Fatal("Invalid DEFAULT_SHIPPING_FEE", map[string]interface{}{"error": err.Error()})
	}
	bonus := bonusFromConfig(cfg.Pricing)

	// Notification
	smtp := mailer.New(mailer.Config{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.SMTPFrom,
		UseTLS:   cfg.Email.SMTPUseTLS,
	})
	notifier := notification.NewService(smtp, log, auditRepo, cfg.Email.StaffAddress)

	// Events
	hub := events.NewHub(log)

	orderService := order.NewService(orderRepo, uploader, notifier, hub, catalog, defaultShipping, bonus, log)

	authService := auth.NewService(auth.Credentials{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
		TOTPSecret:   cfg.Admin.TOTPSecret,
	}, cfg.JWT.Secret, cfg.JWT.Expiration)

	// Handlers
	val := validator.New()
	catalogCache := cache.NewRedisCache(redisClient)

	bank := domain.BankDetails{
		AccountName:   os.Getenv("BANK_ACCOUNT_NAME"),
		BSB:           os.Getenv("BANK_BSB"),
		AccountNumber: os.Getenv("BANK_ACCOUNT_NUMBER"),
		BankName:      os.Getenv("BANK_NAME"),
	}

	orderHandler := handler.NewOrderHandler(orderService, val, log)
	catalogHandler := handler.NewCatalogHandler(catalog, bank, bonus, catalogCache, log)
	uploadHandler := handler.NewUploadHandler(uploader, log, cfg.Storage.MaxFileSize)
	authHandler := handler.NewAuthHandler(authService, val, log)
	eventsHandler := handler.NewEventsHandler(hub, log)

	// Router
	r := mux.NewRouter()

	r.Use(middleware.CORS)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recovery)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.NewLoggingMiddleware(log).Log)
	r.Use(middleware.NewRateLimiter(redisClient, 150, time.Minute).Limit)

	authMW := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	idemMW := middleware.NewIdempotencyMiddleware(redisClient, 24*time.Hour)

	// Health check routes (no auth)
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/ready", readyCheck(db)).Methods("GET")

	// Public storefront routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Handle("/orders", middleware.BodyLimit(1<<20)(idemMW.Handle(http.HandlerFunc(orderHandler.Create)))).Methods("POST")
	api.HandleFunc("/orders/{id}/notify", orderHandler.Notify).Methods("POST")
	api.HandleFunc("/catalog", catalogHandler.Get).Methods("GET")
	api.HandleFunc("/uploads", uploadHandler.Upload).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Staff routes
	staff := api.NewRoute().Subrouter()
	staff.Use(authMW.Authenticate)
	staff.HandleFunc("/orders", orderHandler.List).Methods("GET")
	// Literal route before the {id} pattern so "events" never parses as an ID.
	staff.HandleFunc("/orders/events", eventsHandler.Stream).Methods("GET")
	staff.HandleFunc("/orders/{id}", orderHandler.Get).Methods("GET")
	staff.HandleFunc("/orders/{id}/status", orderHandler.UpdateStatus).Methods("PATCH")

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}

func bonusFromConfig(p config.PricingConfig) *domain.BonusConfig {
	if p.BonusMinAmount <= 0 {
		return nil
	}
	return &domain.BonusConfig{
		MinAmount:   p.BonusMinAmount,
		BonusAmount: p.BonusAmount,
		BonusLabel:  p.BonusLabel,
		BonusReason: p.BonusReason,
		BonusType:   p.BonusType,
	}
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func readyCheck(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	}
}
