package main

import (
    "errors"
    "fmt"
    "os"

    "github.com/golang-migrate/migrate/v4"
    _ "github.com/golang-migrate/migrate/v4/database/mysql"
    _ "github.com/golang-migrate/migrate/v4/source/file"
    "github.com/joho/godotenv"

    "github.com/iliyamo/performer-booking/internal/config"
    "github.com/iliyamo/performer-booking/internal/database"
)

func main() {
    _ = godotenv.Load()
    cfg := config.Load()

    src := os.Getenv("MIGRATIONS_PATH")
    if src == "" {
        src = "file://migrations"
    }

    dsn := "mysql://" + database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    m, err := migrate.New(src, dsn)
    if err != nil {
        fmt.Fprintf(os.Stderr, "migrate init failed: %v\n", err)
        os.Exit(1)
    }
    if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
        fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
        os.Exit(1)
    }

    fmt.Println("migrations applied")
}
