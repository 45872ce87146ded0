package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/Saewt/university-visitor-system/internal/app/controllers"
	appMigrations "github.com/Saewt/university-visitor-system/internal/app/migrations"
	appRepos "github.com/Saewt/university-visitor-system/internal/app/repositories"
	appRoutes "github.com/Saewt/university-visitor-system/internal/app/routes"
	appServices "github.com/Saewt/university-visitor-system/internal/app/services"
	"github.com/Saewt/university-visitor-system/internal/config"
	"github.com/Saewt/university-visitor-system/internal/db"
	appMiddleware "github.com/Saewt/university-visitor-system/internal/middleware"
	pkgAuth "github.com/Saewt/university-visitor-system/internal/pkg/auth"
	"github.com/Saewt/university-visitor-system/internal/pkg/events"
	"github.com/Saewt/university-visitor-system/internal/pkg/helpers"
	"github.com/Saewt/university-visitor-system/internal/pkg/logger"
	"github.com/Saewt/university-visitor-system/internal/pkg/ratelimit"
	"github.com/Saewt/university-visitor-system/internal/pkg/telegram"
	"github.com/Saewt/university-visitor-system/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          *appServices.AuthService
	StudentService       *appServices.StudentService
	ManagementService    *appServices.ManagementService
	StatsService         *appServices.StatsService
	ExportService        *appServices.ExportService
	AuthController       *appControllers.AuthController
	StudentController    *appControllers.StudentController
	ManagementController *appControllers.ManagementController
	StatsController      *appControllers.StatsController
	ExportController     *appControllers.ExportController
	EventsController     *appControllers.EventsController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	LoginLimiter         *ratelimit.LoginLimiter
	EventHub             *events.Hub
	Notifier             *telegram.Client
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	maxAttempts := cfg.LoginThrottle.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	deps.LoginLimiter = ratelimit.NewLoginLimiter(
		maxAttempts,
		helpers.ParseDuration(cfg.LoginThrottle.Window, 5*time.Minute),
	)

	deps.Notifier = telegram.NewClient(telegram.Config{
		BotToken: cfg.Telegram.BotToken,
		Mock:     cfg.Telegram.Mock,
	}, lgr)

	deps.EventHub = events.NewHub(lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.JWTService,
		deps.LoginLimiter,
		lgr,
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.DepartmentRepository,
		deps.EventHub,
		deps.Notifier,
		lgr,
	)
	deps.ManagementService = appServices.NewManagementService(
		deps.Repos.UserRepository,
		deps.Repos.DepartmentRepository,
		deps.Repos.StudentRepository,
	)
	deps.StatsService = appServices.NewStatsService(deps.Repos.StatsRepository)
	deps.ExportService = appServices.NewExportService(
		deps.Repos.StudentRepository,
		deps.Repos.StatsRepository,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.ManagementController = appControllers.NewManagementController(deps.ManagementService)
	deps.StatsController = appControllers.NewStatsController(deps.StatsService)
	deps.ExportController = appControllers.NewExportController(deps.ExportService)
	deps.EventsController = appControllers.NewEventsController(deps.EventHub)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()
	router.Use(appMiddleware.RequestID())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.ManagementController,
		deps.StatsController,
		deps.ExportController,
		deps.EventsController,
		deps.AuthMiddleware,
	)

	return router
}
