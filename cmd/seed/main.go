package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/academic-evaluator-api/internal/config"
	"github.com/noah-isme/academic-evaluator-api/internal/database"
	"github.com/noah-isme/academic-evaluator-api/internal/repository"
	"github.com/noah-isme/academic-evaluator-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	seeder := service.NewSeedService(
		repository.NewUserRepository(db),
		repository.NewStudentRepository(db),
		repository.NewSubjectRepository(db),
		repository.NewMarkRepository(db),
		repository.NewAttendanceRepository(db),
		true,
		cfg.DefaultStudentPassword,
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := seeder.SeedDemo(ctx)
	if err != nil {
		log.Fatalf("failed to seed demo data: %v", err)
	}

	// Dashboards cached before the seed would hide the new rows.
	if cfg.RedisURL != "" {
		if redisClient, err := database.ConnectRedis(cfg.RedisURL); err == nil {
			service.NewEventService(redisClient, nil, "", logger).Invalidate(ctx)
			_ = redisClient.Close()
		} else {
			logger.Warn().Err(err).Msg("skipping dashboard cache reset")
		}
	}

	logger.Info().
		Int("subjects", report.SubjectsCreated).
		Int("students", report.StudentsCreated).
		Msg("seed complete")
}
