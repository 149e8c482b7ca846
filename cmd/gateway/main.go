package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/inout-manager/realtime-go/internal/config"
	appHTTP "github.com/inout-manager/realtime-go/internal/handler/http"
	"github.com/inout-manager/realtime-go/internal/pkg/database"
	"github.com/inout-manager/realtime-go/internal/pkg/hub"
	"github.com/inout-manager/realtime-go/internal/pkg/jwt"
	"github.com/inout-manager/realtime-go/internal/repository/postgresql"
	ingestService "github.com/inout-manager/realtime-go/internal/service/ingest"
	reportService "github.com/inout-manager/realtime-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	if err := cfg.ValidateGateway(); err != nil {
		fmt.Println("Invalid gateway configuration:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "inout-gateway"),
	)

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	activityRepo := postgresql.NewActivityRepository(db)
	statsRepo := postgresql.NewStatsRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	broadcastHub := hub.NewHub()
	ingestSvc := ingestService.NewIngestService(activityRepo, statsRepo, broadcastHub, logger)
	reportGenerator := reportService.NewLocalGenerator(cfg.Gateway.ReportBaseURL)

	authHandler := appHTTP.NewAuthHandler(jwtService, cfg.Gateway.AdminEmail, cfg.Gateway.AdminPasswordHash)
	realtimeHandler := appHTTP.NewRealtimeHandler(ingestSvc, broadcastHub, jwtService, logger)
	attendanceHandler := appHTTP.NewAttendanceHandler(ingestSvc)
	reportHandler := appHTTP.NewReportHandler(reportGenerator)

	router := appHTTP.NewRouter(
		jwtService,
		cfg.App.Env,
		cfg.Gateway.CORSOrigins,
		authHandler,
		realtimeHandler,
		attendanceHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.Gateway.Port)
	fmt.Printf("Gateway running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatal("Gateway error: ", err)
	}
}
