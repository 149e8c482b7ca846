package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/inout-manager/realtime-go/internal/handler/http/middleware"
	"github.com/inout-manager/realtime-go/internal/handler/http/response"
	"github.com/inout-manager/realtime-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	env string,
	corsOrigins []string,
	authHandler AuthHandler,
	realtimeHandler RealtimeHandler,
	attendanceHandler AttendanceHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "inout-gateway"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Channel auth happens in-band, not via the Authorization header
	r.Get("/ws/admin", realtimeHandler.ServeChannel)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
			response.Success(w, map[string]string{
				"message": "API de IN OUT MANAGER",
				"status":  "online",
				"env":     env,
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/realtime/token", authHandler.ChannelToken)
			r.Get("/realtime/stats", realtimeHandler.Stats)
			r.Get("/activity/recent", realtimeHandler.RecentActivity)

			r.Post("/attendance", attendanceHandler.Record)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/user/{id}", reportHandler.UserReport)
				r.Get("/general", reportHandler.GeneralReport)
			})
		})
	})
	return r
}
