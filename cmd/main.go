package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	kafka "github.com/segmentio/kafka-go"

	"github.com/dkravtsov/shop-backend/internal/facades"
	"github.com/dkravtsov/shop-backend/internal/handlers"
	"github.com/dkravtsov/shop-backend/internal/jwt"
	"github.com/dkravtsov/shop-backend/internal/logger"
	"github.com/dkravtsov/shop-backend/internal/middlewares"
	"github.com/dkravtsov/shop-backend/internal/migrations"
	"github.com/dkravtsov/shop-backend/internal/repositories"
	"github.com/dkravtsov/shop-backend/internal/services"
	"github.com/dkravtsov/shop-backend/internal/sessions"
	"github.com/dkravtsov/shop-backend/internal/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title shop-backend API
// @version 1.0.0
// @description Backend for a small product marketplace: accounts, product catalog, image uploads and hosted checkout
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in header
// @name Cookie
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, baseURL, logLevel, secretKey,
		sessionTTLSecond, rememberTTLSecond,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns,
		kafkaAddr, kafkaTopic,
		stripeSecretKey, uploadDir, frontendDir,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, baseURL, logLevel, secretKey,
		sessionTTLSecond, rememberTTLSecond,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns,
		kafkaAddr, kafkaTopic,
		stripeSecretKey, uploadDir, frontendDir,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, session, database, Redis, Kafka, payment, and static
// file configuration.
func parseConfig(path string) (
	appHost, appPort, baseURL, logLevel, secretKey string,
	sessionTTLSecond, rememberTTLSecond int,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns int,
	kafkaAddr, kafkaTopic string,
	stripeSecretKey, uploadDir, frontendDir string,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	baseURL = getEnv("APP_BASE_URL", fmt.Sprintf("http://%s:%s", appHost, appPort))
	logLevel = getEnv("APP_LOG_LEVEL", "info")
	secretKey = getEnv("APP_SECRET_KEY", "my_super_secret_key")

	// Session config
	if sessionTTLSecond, err = strconv.Atoi(getEnv("SESSION_TTL_SECOND", "86400")); err != nil {
		return
	}
	if rememberTTLSecond, err = strconv.Atoi(getEnv("SESSION_REMEMBER_TTL_SECOND", "2592000")); err != nil {
		return
	}

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "shop")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if redisPoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return
	}
	if redisMinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return
	}

	// Kafka config, empty address disables event publishing
	kafkaAddr = getEnv("KAFKA_ADDR", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "shop-events")

	// Payments and static files
	stripeSecretKey = getEnv("STRIPE_SECRET_KEY", "")
	uploadDir = getEnv("UPLOAD_DIR", "uploads")
	frontendDir = getEnv("FRONTEND_DIR", "frontend")

	return
}

// run initializes the logger, database, Redis, Kafka, payment facade,
// and HTTP server. It sets up routes, applies middleware, and handles
// graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, baseURL, logLevel, secretKey string,
	sessionTTLSecond, rememberTTLSecond int,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns int,
	kafkaAddr, kafkaTopic string,
	stripeSecretKey, uploadDir, frontendDir string,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d", pgHost, pgPort)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("postgres connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}

	// Apply migrations
	if err := migrations.Up(ctx, db.DB); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password:     redisPassword,
		DB:           redisDB,
		PoolSize:     redisPoolSize,
		MinIdleConns: redisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka event writer, left nil when no broker is configured
	var eventWriter services.KafkaWriter
	if kafkaAddr != "" {
		kw := &kafka.Writer{
			Addr:     kafka.TCP(kafkaAddr),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer kw.Close()
		eventWriter = kw
		logger.Log.Infof("Kafka events enabled, broker %s topic %s", kafkaAddr, kafkaTopic)
	}

	// Image uploads
	fileStore, err := storage.NewFileStore(uploadDir)
	if err != nil {
		return fmt.Errorf("upload dir init failed: %w", err)
	}

	// Initialize token and session providers
	tokens := jwt.New(secretKey)
	sessionStore := sessions.NewStore(rdb)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	productReadRepo := repositories.NewProductReadRepository(db)
	productWriteRepo := repositories.NewProductWriteRepository(db)

	// Initialize services
	authService := services.NewAuthService(
		userReadRepo, userWriteRepo, sessionStore, tokens,
		time.Duration(sessionTTLSecond)*time.Second,
		time.Duration(rememberTTLSecond)*time.Second,
	)
	productService := services.NewProductService(productWriteRepo, productReadRepo, eventWriter)
	checkoutFacade := facades.NewStripeCheckoutFacade(stripeSecretKey)
	checkoutService := services.NewCheckoutService(checkoutFacade, baseURL, eventWriter)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	logoutHandler := handlers.NewLogoutHandler(authService)
	currentUserHandler := handlers.NewCurrentUserHandler(tokens, authService)
	productCreateHandler := handlers.NewProductCreateHandler(productService, fileStore)
	productListHandler := handlers.NewProductListHandler(productService)
	myProductListHandler := handlers.NewMyProductListHandler(productService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	notFoundHandler := handlers.NewNotFoundHandler()
	frontendHandler := handlers.NewFrontendHandler(frontendDir)
	uploadsHandler := handlers.NewUploadsHandler(storage.URLPrefix, fileStore.Dir())

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{baseURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	authMiddleware := middlewares.AuthMiddleware(tokens, authService)

	r.Route("/api", func(r chi.Router) {
		r.NotFound(notFoundHandler)

		// Public routes
		r.Post("/register", registerHandler)
		r.Post("/login", loginHandler)
		r.Get("/user", currentUserHandler)
		r.Get("/products", productListHandler)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", logoutHandler)
			r.Post("/products", productCreateHandler)
			r.Get("/my-products", myProductListHandler)
			r.Post("/create-checkout-session", checkoutHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	r.Handle(storage.URLPrefix+"/*", uploadsHandler)
	r.Get("/*", frontendHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
