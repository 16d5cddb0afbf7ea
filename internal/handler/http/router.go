package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/handler/http/middleware"
	"github.com/satshine/satshine-backend/internal/pkg/jwt"
)

// RouterConfig carries the values the router needs from application config.
type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
}

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth         AuthHandler
	Attendance   AttendanceHandler
	Travel       TravelHandler
	Employee     EmployeeHandler
	Notification NotificationHandler
	Audit        AuditHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.Locale)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/employee-code", h.Auth.LoginWithEmployeeCode)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", h.Auth.LoginWithGoogle)
				})
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			// EventSource cannot send headers, the stream authenticates with a query token
			r.Get("/stream", h.Notification.Stream)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/mark-read", h.Notification.MarkAsRead)
				r.Post("/mark-all-read", h.Notification.MarkAllAsRead)
				r.Delete("/{id}", h.Notification.Delete)
				r.Get("/preferences", h.Notification.GetPreferences)
				r.Put("/preferences", h.Notification.UpdatePreference)
				r.Post("/stream-token", h.Notification.GetSSEToken)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/me", h.Auth.Me)

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(employee.PermissionAttendanceMark)).Post("/", h.Attendance.Mark)
				r.With(middleware.RequirePermission(employee.PermissionAttendanceMark)).Post("/check-out", h.Attendance.CheckOut)
				r.With(middleware.RequirePermission(employee.PermissionAttendanceViewOwn)).Get("/me", h.Attendance.GetMyAttendance)

				r.With(middleware.RequirePermission(employee.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
				r.With(middleware.RequirePermission(employee.PermissionAttendanceExport)).Get("/export", h.Attendance.Export)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(employee.PermissionAttendanceConfirm))
					r.Get("/pending-confirmations", h.Attendance.PendingConfirmations)
					r.Post("/confirm-absent", h.Attendance.ConfirmAbsent)
					r.Post("/{id}/confirm", h.Attendance.Confirm)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(employee.PermissionAttendanceApprove))
					r.Post("/bulk-approve", h.Attendance.BulkApprove)
					r.Post("/{id}/approve", h.Attendance.Approve)
				})

				// Ownership and supervisor checks happen in the service
				r.Get("/{id}", h.Attendance.Get)
			})

			r.Route("/travel-requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(employee.PermissionTravelCreate)).Post("/", h.Travel.Create)
				r.With(middleware.RequirePermission(employee.PermissionTravelViewOwn)).Get("/me", h.Travel.ListMine)
				r.With(middleware.RequirePermission(employee.PermissionTravelDecide)).Get("/assigned", h.Travel.ListAssigned)
				r.With(middleware.RequirePermission(employee.PermissionTravelDecide)).Post("/{id}/decision", h.Travel.Decide)
				r.Get("/{id}", h.Travel.Get)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(employee.PermissionEmployeeViewAll)).Get("/", h.Employee.ListEmployees)
				r.Get("/{id}", h.Employee.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(employee.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Post("/{id}/deactivate", h.Employee.DeactivateEmployee)
				})
			})

			r.Route("/approver-regions", func(r chi.Router) {
				r.Use(middleware.RequirePermission(employee.PermissionRegionManage))
				r.Get("/", h.Employee.ListApproverRegions)
				r.Put("/{dccb}", h.Employee.UpsertApproverRegion)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/audit", h.Audit.List)
				r.Get("/admin/travel-overlaps", h.Audit.TravelOverlaps)
			})
		})
	})

	return r
}
