package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academic-evaluator-api/internal/config"
	"github.com/noah-isme/academic-evaluator-api/internal/database"
	"github.com/noah-isme/academic-evaluator-api/internal/handler"
	"github.com/noah-isme/academic-evaluator-api/internal/middleware"
	"github.com/noah-isme/academic-evaluator-api/internal/repository"
	"github.com/noah-isme/academic-evaluator-api/internal/router"
	"github.com/noah-isme/academic-evaluator-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		logger = logger.Level(level)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, academic events stay on this node")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	markRepo := repository.NewMarkRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events := service.NewEventService(redisClient, natsConn, cfg.EventsSubject(), logger)
	events.Start(ctx)

	seedService := service.NewSeedService(userRepo, studentRepo, subjectRepo, markRepo, attendanceRepo, cfg.SeedEnabled, cfg.DefaultStudentPassword, logger)
	if cfg.SeedEnabled {
		if _, err := seedService.SeedDemo(ctx); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
		events.Invalidate(ctx)
	}

	activityService := service.NewActivityService(activityRepo, logger)
	authService := service.NewAuthService(userRepo, studentRepo, validate, cfg.JWTSecret, cfg.JWTTTL, logger)
	studentService := service.NewStudentService(studentRepo, subjectRepo, validate, activityService, events, cfg.DefaultStudentPassword, logger)
	subjectService := service.NewSubjectService(subjectRepo, studentRepo, validate, activityService, events, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, subjectRepo, validate, activityService, events, logger)
	markService := service.NewMarkService(markRepo, subjectRepo, validate, activityService, events, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, studentRepo, subjectRepo, validate, activityService, events, logger)
	studentDashboardService := service.NewStudentDashboardService(studentRepo, subjectRepo, markRepo, attendanceRepo, feedbackRepo, redisClient, cfg.DashboardCacheTTL, logger)
	staffDashboardService := service.NewStaffDashboardService(studentRepo, subjectRepo, markRepo, attendanceRepo, redisClient, cfg.DashboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:             handler.NewAuthHandler(authService, logger),
		StudentHandler:          handler.NewStudentHandler(studentService, logger),
		SubjectHandler:          handler.NewSubjectHandler(subjectService, logger),
		AcademicHandler:         handler.NewAcademicHandler(attendanceService, markService, logger),
		FeedbackHandler:         handler.NewFeedbackHandler(feedbackService, logger),
		ActivityHandler:         handler.NewActivityHandler(activityService, logger),
		StaffDashboardHandler:   handler.NewStaffDashboardHandler(staffDashboardService, logger),
		StudentDashboardHandler: handler.NewStudentDashboardHandler(studentDashboardService, logger),
		RealtimeHandler:         handler.NewRealtimeHandler(events, logger),
		SeedHandler:             handler.NewSeedHandler(seedService, events, logger),
		JWTMiddleware:           middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(ctx, app)
}

func waitForShutdown(shutdownCtx context.Context, app *fiber.App) {
	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
