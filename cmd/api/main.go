package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/zron-max/momentum-gird/internal/adapters/cache"
	adapterHTTP "github.com/zron-max/momentum-gird/internal/adapters/handler/http"
	"github.com/zron-max/momentum-gird/internal/adapters/repository"
	"github.com/zron-max/momentum-gird/internal/core/domain"
	"github.com/zron-max/momentum-gird/internal/core/services"
	"github.com/zron-max/momentum-gird/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	// Missing .env is fine in containers; config arrives via real env vars.
	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	serverPort := getEnv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}

	weekStart := domain.WeekStartMonday
	if ws := os.Getenv("WEEK_START"); ws != "" {
		parsed, err := strconv.Atoi(ws)
		if err != nil || (parsed != domain.WeekStartSunday && parsed != domain.WeekStartMonday) {
			log.Fatalf("Critical: WEEK_START must be %d (Sunday) or %d (Monday), got %q",
				domain.WeekStartSunday, domain.WeekStartMonday, ws)
		}
		weekStart = parsed
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	var trackerRepo domain.TrackerRepository = repository.NewPostgresTrackerRepository(db)

	redisClient, err := cache.NewRedisClient(cache.Config{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
		redisClient = nil
	} else {
		log.Println("Redis connected successfully.")
		trackerRepo = repository.NewCachedTrackerRepository(trackerRepo, redisClient)
	}

	recordRepo := repository.NewPostgresRecordRepository(db)
	userRepo := repository.NewPostgresUserRepository(db.DB)
	blockRepo := repository.NewPostgresTimeBlockRepository(db)

	streakWorker := workers.NewStreakWorker(trackerRepo, recordRepo)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	streakWorker.Start(workerCtx)

	tokenService := services.NewTokenService(jwtSecret, "momentum-gird", 24*time.Hour, userRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(services.NewAuthService(userRepo), tokenService),
		TrackerHandler:   adapterHTTP.NewTrackerHandler(services.NewTrackerService(trackerRepo)),
		RecordHandler:    adapterHTTP.NewRecordHandler(services.NewRecordService(recordRepo, trackerRepo, streakWorker)),
		AnalyticsHandler: adapterHTTP.NewAnalyticsHandler(services.NewAnalyticsService(trackerRepo, recordRepo)),
		ScheduleHandler:  adapterHTTP.NewScheduleHandler(services.NewScheduleService(blockRepo, trackerRepo, recordRepo, streakWorker, weekStart)),
		TokenService:     tokenService,
		DB:               db,
		Redis:            redisClient,
		StartTime:        startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Momentum Gird API running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	stopWorker()

	log.Println("Server stopped gracefully.")
}
