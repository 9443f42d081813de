package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/krishanu7/battleship-ai/config"
	dbPkg "github.com/krishanu7/battleship-ai/db"
	"github.com/krishanu7/battleship-ai/internal/auth"
	"github.com/krishanu7/battleship-ai/internal/leaderboard"
	"github.com/krishanu7/battleship-ai/internal/session"
	"github.com/krishanu7/battleship-ai/internal/targeting"
	"github.com/krishanu7/battleship-ai/internal/ws"
	"github.com/krishanu7/battleship-ai/pkg/redis"
	wsPkg "github.com/krishanu7/battleship-ai/pkg/websocket"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	roster, err := config.LoadFleet(cfg.FleetFile)
	if err != nil {
		log.Fatal("Failed to load fleet: ", err)
	}
	if roster.Cells() > cfg.BoardSize*cfg.BoardSize {
		log.Fatalf("Fleet needs %d cells but a %dx%d board has %d", roster.Cells(), cfg.BoardSize, cfg.BoardSize, cfg.BoardSize*cfg.BoardSize)
	}
	strategy, err := targeting.ParseStrategy(cfg.AIStrategy)
	if err != nil {
		log.Fatal("Invalid AI_STRATEGY: ", err)
	}
	parity, err := targeting.ParseParityRule(cfg.ParityRule)
	if err != nil {
		log.Fatal("Invalid PARITY_RULE: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatal("Failed to connect database: ", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to reach database: ", err)
	}
	if err := dbPkg.Migrate(ctx, db); err != nil {
		log.Fatal(err)
	}

	rdb, err := redis.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal(err)
	}
	defer rdb.Close()

	authService := auth.NewService(db, cfg)
	authHandler := auth.NewAuthHandler(authService)

	leaderboardService := leaderboard.NewService(db)
	leaderboardHandler := leaderboard.NewHandler(leaderboardService)

	gameService := session.NewService(
		session.NewRedisStore(rdb, cfg.SessionTTL),
		leaderboardService,
		redis.NewPublisher(rdb, redis.NotificationsChannel),
		session.Options{
			BoardSize:   cfg.BoardSize,
			Roster:      roster,
			Strategy:    strategy,
			ParityRule:  parity,
			MaxAttempts: cfg.MaxAttempts,
		},
	)
	gameHandler := session.NewHandler(gameService)

	generalHub := wsPkg.NewGeneralHub()
	wsHandler := ws.NewHandler(gameService)
	generalHandler := ws.NewGeneralHandler(generalHub)
	worker := ws.NewNotificationWorker(rdb, generalHub, redis.NotificationsChannel)
	go worker.Run(ctx)

	protect := auth.Middleware(cfg.JWTSecret)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/v1/leaderboard", leaderboardHandler.GetLeaderboard)
	gameHandler.Routes(mux, protect)
	mux.Handle("GET /ws/game", protect(http.HandlerFunc(wsHandler.ServeWS)))
	mux.Handle("GET /ws/notifications", protect(http.HandlerFunc(generalHandler.ServeGeneralWS)))
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("Server started at :%s (board %dx%d, %d ships, AI %s)", cfg.Port, cfg.BoardSize, cfg.BoardSize, len(roster), strategy)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}
