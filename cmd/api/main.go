package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/satshine/satshine-backend/internal/config"
	"github.com/satshine/satshine-backend/internal/domain/audit"
	appHTTP "github.com/satshine/satshine-backend/internal/handler/http"
	"github.com/satshine/satshine-backend/internal/pkg/cron"
	"github.com/satshine/satshine-backend/internal/pkg/database"
	"github.com/satshine/satshine-backend/internal/pkg/i18n"
	"github.com/satshine/satshine-backend/internal/pkg/jwt"
	"github.com/satshine/satshine-backend/internal/pkg/oauth"
	"github.com/satshine/satshine-backend/internal/pkg/sse"
	"github.com/satshine/satshine-backend/internal/repository/mongodb"
	"github.com/satshine/satshine-backend/internal/repository/postgresql"
	attendanceService "github.com/satshine/satshine-backend/internal/service/attendance"
	auditService "github.com/satshine/satshine-backend/internal/service/audit"
	serviceAuth "github.com/satshine/satshine-backend/internal/service/auth"
	employeeService "github.com/satshine/satshine-backend/internal/service/employee"
	"github.com/satshine/satshine-backend/internal/service/maintenance"
	notificationService "github.com/satshine/satshine-backend/internal/service/notification"
	travelService "github.com/satshine/satshine-backend/internal/service/travel"
)

const version = "v1.0.0"

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := i18n.Init(cfg.Notification.DefaultLocale); err != nil {
		return err
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if _, err := postgresql.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	tx := postgresql.NewTxManager(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	regionRepo := postgresql.NewApproverRegionRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	travelRepo := postgresql.NewTravelRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)

	var archive audit.Archive
	if cfg.MongoDB.URI != "" {
		mongo, err := database.NewMongoDB(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongo.Close(closeCtx)
		}()
		archive, err = mongodb.NewAuditArchive(ctx, mongo)
		if err != nil {
			return err
		}
	} else {
		slog.Info("MONGODB_URI not set, audit archive disabled")
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.IsProduction())
	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	hub := sse.NewHub()
	notifier := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		TTL: cfg.Notification.TTL,
	})
	defer notifier.Stop()

	authSvc := serviceAuth.NewAuthService(tx, employeeRepo, JWTService, JWTRepository)
	employeeSvc := employeeService.NewEmployeeService(tx, employeeRepo, regionRepo, attendanceRepo, auditRepo)
	travelSvc := travelService.NewTravelService(tx, travelRepo, employeeRepo, regionRepo, auditRepo, notifier, cfg.App.Timezone)
	attendanceSvc := attendanceService.NewAttendanceService(tx, attendanceRepo, employeeRepo, travelRepo, auditRepo, notifier, attendanceService.Config{
		Location:          cfg.App.Timezone,
		MaxDistanceMeters: cfg.Attendance.MaxDistanceMeters,
	})
	auditSvc := auditService.NewAuditService(auditRepo, archive)
	maintenanceSvc := maintenance.NewService(tx, attendanceRepo, travelRepo, auditRepo)

	// Archiving runs only when MongoDB is configured
	var archiver cron.AuditArchiver
	if archive != nil {
		archiver = auditSvc
	}
	scheduler := cron.NewScheduler(ctx)
	cron.NewMaintenanceJobs(notifier, archiver, maintenanceSvc, cfg.MongoDB.ArchiveEvery).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:        "satshine",
		Version:        version,
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	}, JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, googleService, cfg.App.FrontendURL, cfg.App.IsProduction()),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Travel:       appHTTP.NewTravelHandler(travelSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Notification: appHTTP.NewNotificationHandler(notifier, JWTService),
		Audit:        appHTTP.NewAuditHandler(auditSvc, maintenanceSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
