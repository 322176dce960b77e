package main

import (
    "context"
    "log"
    "os"
    "os/signal"
    "syscall"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/performer-booking/internal/config"
    "github.com/iliyamo/performer-booking/internal/database"
    "github.com/iliyamo/performer-booking/internal/engine"
    "github.com/iliyamo/performer-booking/internal/handler"
    "github.com/iliyamo/performer-booking/internal/notify"
    "github.com/iliyamo/performer-booking/internal/queue"
    "github.com/iliyamo/performer-booking/internal/repository"
    "github.com/iliyamo/performer-booking/internal/router"
    queue_publisher "github.com/iliyamo/performer-booking/internal/service"
)

func main() {
    // Load a local .env when present; real deployments set the variables
    // in the environment.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; rate limiting disabled, refresh signals stay in-process")
    }

    // Observer refresh channel: Redis pub/sub when available so all
    // instances see each other's changes, in-process otherwise.
    var notifier notify.Notifier
    if rdb != nil {
        notifier = notify.NewRedisNotifier(rdb, "")
    } else {
        notifier = notify.NewMemoryNotifier()
    }

    repo := repository.NewBookingRepo(db)
    eng := engine.New(repo, notifier, queue_publisher.PublishStatusChanged, cfg.SweepInterval)

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()
    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
    go func() {
        <-sigCh
        cancel()
    }()

    // Background lifecycle sweep: the single authoritative scheduler for
    // time-triggered transitions.
    go eng.Run(ctx)

    // Broker consumer logging every status change; the notification
    // service consumes the same queue in production.
    go func() {
        if err := queue.StartStatusConsumer(); err != nil {
            log.Printf("status consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    router.RegisterRoutes(e)
    h := handler.NewBookingHandler(repo, eng, notifier)
    router.RegisterBookings(e, h, cfg.JWTSecret, rdb, config.LoadRateLimitConfig())

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
