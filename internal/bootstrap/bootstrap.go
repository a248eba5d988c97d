package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appControllers "github.com/bizlink/alliance/internal/app/controllers"
	appMigrations "github.com/bizlink/alliance/internal/app/migrations"
	appRepos "github.com/bizlink/alliance/internal/app/repositories"
	appRoutes "github.com/bizlink/alliance/internal/app/routes"
	appServices "github.com/bizlink/alliance/internal/app/services"
	"github.com/bizlink/alliance/internal/config"
	"github.com/bizlink/alliance/internal/db"
	appMiddleware "github.com/bizlink/alliance/internal/middleware"
	pkgAuth "github.com/bizlink/alliance/internal/pkg/auth"
	"github.com/bizlink/alliance/internal/pkg/cron"
	"github.com/bizlink/alliance/internal/pkg/feed"
	"github.com/bizlink/alliance/internal/pkg/helpers"
	"github.com/bizlink/alliance/internal/pkg/liststore"
	"github.com/bizlink/alliance/internal/pkg/logger"
	"github.com/bizlink/alliance/internal/pkg/metrics"
	"github.com/bizlink/alliance/internal/pkg/validation"
	"github.com/bizlink/alliance/internal/pkg/webhook"
	"github.com/bizlink/alliance/internal/pkg/websocket"
)

// TokenCleanupSchedule runs the refresh token cleanup once a day
const TokenCleanupSchedule = "@daily"

// DefaultConfigPath is used when no --config flag is given
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	Store        liststore.Store
	JWTService   *pkgAuth.JWTService
	FeedClient   *feed.Client
	Webhook      *webhook.Client
	Hub          *websocket.Hub
	Scheduler    *cron.Scheduler
	AuthService  appServices.AuthService
	EventService appServices.EventService
	AdminService appServices.AdminService

	Controllers    *appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
		File: logger.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		},
	})

	lgr.Info().
		Str("logLevel", string(logLevel)).
		Str("logFormat", cfg.Logging.Format).
		Str("logFile", cfg.Logging.File).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to the gateway database and applies pending migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	dbPool, err := db.NewPostgresPool(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := RunMigrations(ctx, dbPool, lgr); err != nil {
		dbPool.Close()
		return nil, err
	}
	return dbPool, nil
}

// RunMigrations applies the migrations bundled into the binary
func RunMigrations(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupListStore opens the local list store selected by storage.driver
func SetupListStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (liststore.Store, error) {
	switch cfg.Storage.Driver {
	case "redis":
		lgr.Info().Str("addr", cfg.Storage.RedisAddr).Msg("Using redis list store")
		return liststore.NewRedisStore(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB)
	default:
		lgr.Info().Str("path", cfg.Storage.SQLitePath).Msg("Using sqlite list store")
		return liststore.NewSQLiteStore(ctx, cfg.Storage.SQLitePath)
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, store liststore.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Store: store}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.FeedClient = feed.NewClient(
		cfg.Integrations.EventsFeedURL,
		helpers.ParseDuration(cfg.Integrations.FeedTimeout, 10*time.Second),
	)
	deps.Webhook = webhook.NewClient(
		cfg.Integrations.InboundWebhookURL,
		helpers.ParseDuration(cfg.Integrations.WebhookTimeout, 15*time.Second),
	)

	repos := deps.Repos
	activity := appServices.NewActivityLog(store)

	deps.AuthService = appServices.NewAuthService(
		repos.AccountRepository,
		repos.ProfileRepository,
		repos.TokenRepository,
		deps.JWTService,
		lgr.With().Str("service", "auth").Logger(),
	)
	deps.EventService = appServices.NewEventService(
		deps.FeedClient,
		repos.EventRepository,
		lgr.With().Str("service", "events").Logger(),
	)
	deps.AdminService = appServices.NewAdminService(
		store,
		repos.ProfileRepository,
		repos.EventRepository,
		activity,
		lgr.With().Str("service", "admin").Logger(),
	)

	deps.Hub = websocket.NewHub(lgr)
	messageService := appServices.NewMessageService(store, repos.ProfileRepository, deps.Hub, lgr.With().Str("service", "messages").Logger())
	directoryService := appServices.NewDirectoryService(repos.ProfileRepository, messageService, lgr.With().Str("service", "directory").Logger())
	communityService := appServices.NewCommunityService(store, lgr.With().Str("service", "community").Logger())
	profileService := appServices.NewProfileService(repos.AccountRepository, repos.ProfileRepository, lgr.With().Str("service", "profile").Logger())
	membershipService := appServices.NewMembershipService(
		repos.AccountRepository,
		repos.ProfileRepository,
		store,
		activity,
		cfg.Membership.AllowSelfElevation,
		lgr.With().Str("service", "membership").Logger(),
	)
	waitlistService := appServices.NewWaitlistService(repos.WaitlistRepository, lgr.With().Str("service", "waitlist").Logger())
	registrationService := appServices.NewRegistrationService(deps.Webhook, lgr.With().Str("service", "registration").Logger())
	integrationService := appServices.NewIntegrationService(cfg.Integrations)

	// New accounts join the roster as soon as they sign up
	deps.AuthService.OnSessionChange(deps.AdminService.RecordSignUp)

	if err := deps.AdminService.SeedRoster(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed the member roster, proceeding anyway...")
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.ProfileRepository, repos.AccountRepository, lgr)

	deps.Controllers = &appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(deps.AuthService, lgr),
		Events:    appControllers.NewEventController(deps.EventService, lgr),
		Directory: appControllers.NewDirectoryController(directoryService, lgr),
		Messages:  appControllers.NewMessageController(messageService, deps.Hub, lgr),
		Community: appControllers.NewCommunityController(communityService, lgr),
		Admin:     appControllers.NewAdminController(deps.AdminService, deps.EventService, lgr),
		Members:   appControllers.NewMemberController(profileService, membershipService, lgr),
		Outreach:  appControllers.NewOutreachController(waitlistService, registrationService, integrationService, lgr),
	}

	lgr.Info().
		Bool("eventsFeed", deps.FeedClient.Configured()).
		Bool("inboundWebhook", deps.Webhook.Configured()).
		Bool("selfElevation", cfg.Membership.AllowSelfElevation).
		Msg("Dependencies built")
	return deps, nil
}

// StartScheduler registers the background jobs and starts the scheduler
func StartScheduler(deps *Dependencies) (*cron.Scheduler, error) {
	scheduler := cron.NewScheduler(deps.Logger)
	tokens := deps.Repos.TokenRepository

	_, err := scheduler.AddFunc(TokenCleanupSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		removed, err := tokens.CleanupExpiredTokens(ctx)
		if err != nil {
			deps.Logger.Error().Err(err).Msg("Refresh token cleanup failed")
			return
		}
		metrics.TokensPruned.Add(float64(removed))
		deps.Logger.Info().Int64("removed", removed).Msg("Expired refresh tokens pruned")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule token cleanup: %w", err)
	}

	scheduler.Start()
	deps.Scheduler = scheduler
	return scheduler, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
