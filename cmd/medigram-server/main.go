package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/config"
	"github.com/medigram/medigram/internal/domain/admin"
	"github.com/medigram/medigram/internal/domain/allergy"
	"github.com/medigram/medigram/internal/domain/condition"
	"github.com/medigram/medigram/internal/domain/consultation"
	"github.com/medigram/medigram/internal/domain/devicekey"
	"github.com/medigram/medigram/internal/domain/doctor"
	"github.com/medigram/medigram/internal/domain/measurement"
	"github.com/medigram/medigram/internal/domain/purchase"
	"github.com/medigram/medigram/internal/domain/user"
	"github.com/medigram/medigram/internal/platform/auth"
	"github.com/medigram/medigram/internal/platform/consent"
	"github.com/medigram/medigram/internal/platform/db"
	"github.com/medigram/medigram/internal/platform/middleware"
)

// deviceKeyLookup adapts the device key repository to the consent
// verifier, decoding the stored PEM key into a usable public key. It
// lives here to avoid a dependency between the devicekey and consent
// packages.
type deviceKeyLookup struct {
	repo devicekey.Repository
}

func (l *deviceKeyLookup) Lookup(ctx context.Context, deviceID uuid.UUID) (*consent.Key, error) {
	k, err := l.repo.Lookup(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, nil
	}
	pub, err := devicekey.ParsePublicKey(k.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("parsing stored public key for device %s: %w", deviceID, err)
	}
	return &consent.Key{
		UserID:    k.UserID,
		PublicKey: pub,
		RevokedAt: k.RevokedAt,
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "medigram-server",
		Short: "Medigram health record API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrations, err := db.LoadMigrations(dir)
			if err != nil {
				return err
			}

			count, err := db.NewMigrator(pool, migrations).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s).\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrations, err := db.LoadMigrations(dir)
			if err != nil {
				return err
			}

			lines, err := db.NewMigrator(pool, migrations).Status(ctx)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Println(line)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// In-memory caches and crypto
	sessions := auth.NewSessionCache(cfg.SessionTTL)
	defer sessions.Close()
	nonces := consent.NewNonceCache(cfg.NonceTTL)
	defer nonces.Close()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Repositories
	userRepo := user.NewRepo(pool)
	detailRepo := user.NewDetailRepo(pool)
	deviceRepo := devicekey.NewRepo(pool)
	profileRepo := doctor.NewProfileRepo(pool)
	locationRepo := doctor.NewLocationRepo(pool)
	adminRepo := admin.NewRepo(pool)
	allergyRepo := allergy.NewRepo(pool)
	conditionRepo := condition.NewRepo(pool)
	measurementRepo := measurement.NewRepo(pool)
	purchaseRepo := purchase.NewRepo(pool)
	consultationRepo := consultation.NewRepo(pool)

	// Services
	deviceSvc := devicekey.NewService(deviceRepo)
	userSvc := user.NewService(userRepo, detailRepo, sessions, tokens, deviceSvc)
	doctorSvc := doctor.NewService(profileRepo, locationRepo)
	doctorSvc.SetNameResolver(func(ctx context.Context, userID uuid.UUID) (string, error) {
		u, err := userRepo.GetByID(ctx, userID)
		if err != nil {
			return "", err
		}
		if u == nil {
			return "", nil
		}
		return u.Name, nil
	})
	adminSvc := admin.NewService(adminRepo, userRepo, profileRepo, locationRepo)
	allergySvc := allergy.NewService(allergyRepo)
	conditionSvc := condition.NewService(conditionRepo)
	measurementSvc := measurement.NewService(measurementRepo)
	purchaseSvc := purchase.NewService(purchaseRepo)

	verifier := consent.NewVerifier(nonces, &deviceKeyLookup{repo: deviceRepo}, cfg.RevocationGrace)
	runTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}
	consultationSvc := consultation.NewService(consultationRepo, verifier, doctorSvc, doctorSvc, runTx)

	resolver := auth.NewClinicianResolver(doctorSvc)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Route groups: public carries no auth, api requires a bearer
	// credential (session token or access token).
	public := e.Group("/api/v1")
	api := e.Group("/api/v1", auth.Middleware(sessions, tokens))

	user.NewHandler(userSvc, nonces, resolver).RegisterRoutes(public, api)
	devicekey.NewHandler(deviceSvc).RegisterRoutes(api)
	doctor.NewHandler(doctorSvc).RegisterRoutes(api)
	admin.NewHandler(adminSvc).RegisterRoutes(api)
	allergy.NewHandler(allergySvc, resolver).RegisterRoutes(api)
	condition.NewHandler(conditionSvc, resolver).RegisterRoutes(api)
	measurement.NewHandler(measurementSvc, resolver).RegisterRoutes(api)
	purchase.NewHandler(purchaseSvc).RegisterRoutes(api)
	consultation.NewHandler(consultationSvc, resolver).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
