// Package router defines how HTTP routes are registered for the API.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/performer-booking/internal/config"
    "github.com/iliyamo/performer-booking/internal/handler"
    "github.com/iliyamo/performer-booking/internal/middleware"
    "github.com/iliyamo/performer-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check,
// used by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterBookings registers the booking API under /v1 and applies the
// necessary middleware: access-token validation, role enforcement and
// rate limiting.  Every endpoint requires an authenticated CLIENT or
// PERFORMER; per-endpoint role rules (e.g. only performers confirm) are
// enforced inside the handlers where the booking's parties are known.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rdb *redis.Client, rl config.RateLimitConfig) {
    g := e.Group("/v1")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole(model.RoleClient, model.RolePerformer))
    g.Use(middleware.NewTokenBucket(rl, rdb))

    g.POST("/bookings", h.Create)
    g.GET("/bookings", h.List)
    g.GET("/bookings/watch", h.Watch)
    g.GET("/bookings/:id", h.Get)
    g.GET("/bookings/:id/countdown", h.Countdown)
    g.POST("/bookings/:id/confirm", h.Confirm)
    g.POST("/bookings/:id/reject", h.Reject)
    g.POST("/bookings/:id/cancel", h.Cancel)
}
