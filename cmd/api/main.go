package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fansubkit/metaparse/internal/config"
	"github.com/fansubkit/metaparse/internal/database"
	"github.com/fansubkit/metaparse/internal/database/migrations"
	"github.com/fansubkit/metaparse/internal/events"
	"github.com/fansubkit/metaparse/internal/handlers"
	"github.com/fansubkit/metaparse/internal/health"
	"github.com/fansubkit/metaparse/internal/learning"
	"github.com/fansubkit/metaparse/internal/parser"
	"github.com/fansubkit/metaparse/internal/releasegroups"
	"github.com/fansubkit/metaparse/internal/repository"
	"github.com/fansubkit/metaparse/internal/retry"
	"github.com/fansubkit/metaparse/internal/secrets"
	"github.com/fansubkit/metaparse/internal/services"

	// Import migrations to register them via init()
	_ "github.com/fansubkit/metaparse/internal/database/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg.LogConfigSources()

	log.Printf("Initializing database at %s", cfg.Database.Path)
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	log.Printf("Database initialized successfully with WAL mode: %v", cfg.Database.WALEnabled)

	log.Printf("Running database migrations...")
	migrationRunner, err := migrations.NewRunner(db.Conn())
	if err != nil {
		log.Fatalf("Failed to create migration runner: %v", err)
	}
	if err := migrationRunner.RegisterAll(migrations.GetAll()); err != nil {
		log.Fatalf("Failed to register migrations: %v", err)
	}

	ctx := context.Background()
	if err := migrationRunner.Up(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	migrationStatus, err := migrationRunner.Status(ctx)
	if err != nil {
		log.Fatalf("Failed to get migration status: %v", err)
	}
	appliedCount := 0
	for _, s := range migrationStatus {
		if s.Applied {
			appliedCount++
		}
	}
	log.Printf("Database migrations completed: %d/%d applied", appliedCount, len(migrationStatus))

	repos := repository.NewRepositories(db.Conn())

	secretsService, err := secrets.NewSecretsServiceWithKeyDerivation(repos.Secrets)
	if err != nil {
		log.Fatalf("Failed to initialize secrets service: %v", err)
	}
	settingsService := services.NewSettingsServiceWithSecrets(repos.Settings, secretsService)

	dict := parser.NewDictionary()

	rgClientConfig := releasegroups.DefaultConfig()
	rgClientConfig.RequestsPerSecond = cfg.ReleaseGroupFeedRequestsPerSec
	rgClientConfig.MaxRetries = cfg.ReleaseGroupFeedMaxRetries
	rgClientConfig.Enabled = cfg.ReleaseGroupFeedEnabled
	rgLogger := slog.Default()
	rgClient := releasegroups.NewClient(rgClientConfig, rgLogger)
	rgHarvester := releasegroups.NewHarvester(rgClient, rgLogger)

	if cfg.HasReleaseGroupFeedURL() && cfg.ReleaseGroupFeedEnabled {
		entries, err := rgHarvester.Refresh(ctx, cfg.ReleaseGroupFeedURL, dict)
		if err != nil {
			log.Printf("Initial release-group feed harvest failed, continuing with built-in dictionary: %v", err)
		} else {
			log.Printf("Harvested %d release groups from feed", len(entries))
		}
	} else {
		log.Printf("Release-group feed harvesting disabled or no feed URL configured")
	}

	patternExtractor := learning.NewPatternExtractor(dict)
	patternMatcher := learning.NewPatternMatcher(repos.Learning, patternExtractor, rgLogger)

	parserService := services.NewParserService(dict, patternMatcher)
	learningService := services.NewLearningService(repos.Learning, dict)
	mediaService := services.NewMediaService(parserService)

	retryRunner := &parseRetryRunner{parserService: parserService, harvester: rgHarvester, dict: dict}
	retryExecutor := retry.NewRetryExecutor(retryRunner, rgLogger)
	retryService := services.NewRetryService(repos.RetryQueue, retryExecutor, rgLogger)
	if err := retryService.StartScheduler(ctx); err != nil {
		log.Fatalf("Failed to start retry scheduler: %v", err)
	}
	defer retryService.StopScheduler()

	releaseGroupFeedPinger := &releaseGroupFeedPingable{client: rgClient, feedURL: cfg.ReleaseGroupFeedURL}
	healthChecker := health.NewServiceHealthChecker(db, releaseGroupFeedPinger)
	healthMonitor := health.NewHealthMonitor(healthChecker)

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	defer cancelMonitor()
	go healthMonitor.StartMonitoring(monitorCtx, 30*time.Second)
	go db.StartCheckpointLoop(monitorCtx)

	degradationService := services.NewDegradationService(healthMonitor)

	eventEmitter := events.NewChannelEmitter()
	defer eventEmitter.Close()

	dictionaryService := services.NewDictionaryService(dict, rgHarvester, cfg.ReleaseGroupFeedURL)

	parserHandler := handlers.NewParserHandler(parserService)
	learningHandler := handlers.NewLearningHandler(learningService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	retryHandler := handlers.NewRetryHandler(retryService)
	dictionaryHandler := handlers.NewDictionaryHandler(dictionaryService)
	serviceHealthHandler := handlers.NewServiceHealthHandler(degradationService)
	parseProgressHandler := handlers.NewParseProgressHandler(eventEmitter, parserService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", handlers.HealthCheckHandler(db))

	api := router.Group("/api/v1")
	{
		parserHandler.RegisterRoutes(api)
		learningHandler.RegisterRoutes(api)
		mediaHandler.RegisterRoutes(api)
		settingsHandler.RegisterRoutes(api)
		retryHandler.RegisterRoutes(api)
		dictionaryHandler.RegisterRoutes(api)
		parseProgressHandler.RegisterRoutes(api)
		api.GET("/health/services", serviceHealthHandler.GetServicesHealth)
	}

	addr := cfg.GetAddress()
	log.Printf("Starting metaparse API server on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	<-shutdownCtx.Done()
	log.Println("Server stopped gracefully")
}

// releaseGroupFeedPingable adapts the release-group feed client to
// health.Pingable by issuing a lightweight fetch against the configured
// feed URL.
type releaseGroupFeedPingable struct {
	client  *releasegroups.Client
	feedURL string
}

func (p *releaseGroupFeedPingable) Ping(ctx context.Context) error {
	if p.feedURL == "" {
		return fmt.Errorf("release group feed url not configured")
	}
	_, err := p.client.GetBody(ctx, p.feedURL)
	return err
}

// parseRetryRunner implements retry.RetryRunner: re-running a failed filename
// parse, or re-fetching the release-group feed, as queued retry tasks.
type parseRetryRunner struct {
	parserService services.ParserServiceInterface
	harvester     *releasegroups.Harvester
	dict          *parser.Dictionary
}

func (r *parseRetryRunner) ReparseFilename(ctx context.Context, filename string) error {
	result := r.parserService.ParseFilename(ctx, filename)
	if result == nil {
		return fmt.Errorf("parse failed for %q", filename)
	}
	return nil
}

func (r *parseRetryRunner) RefreshReleaseGroupFeed(ctx context.Context, feedURL string) error {
	_, err := r.harvester.Refresh(ctx, feedURL, r.dict)
	if err != nil {
		return releasegroups.ClassifyFeedError(err)
	}
	return nil
}

var _ retry.RetryRunner = (*parseRetryRunner)(nil)
