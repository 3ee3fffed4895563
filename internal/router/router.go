// Package router wires the HTTP routes to their handlers.  Public
// routes are the health check and authentication; everything else sits
// behind JWT auth, with destructive inventory operations restricted to
// ADMIN.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/hostaluna/room-rental/internal/handler"
    "github.com/hostaluna/room-rental/internal/middleware"
    "github.com/hostaluna/room-rental/internal/repository"
)

// Handlers groups everything the router needs.
type Handlers struct {
    Health       *handler.HealthHandler
    Auth         *handler.AuthHandler
    Rentals      *handler.RentalHandler
    Reservations *handler.ReservationHandler
    Rooms        *handler.RoomHandler
    Types        *handler.TypeHandler
    Clients      *handler.ClientHandler
    Settings     *handler.SettingHandler
}

// Register mounts all routes on the Echo instance.
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
    e.GET("/healthz", h.Health.Health)

    auth := e.Group("/v1/auth")
    auth.POST("/register", h.Auth.Register)
    auth.POST("/login", h.Auth.Login)

    // everything below requires a valid access token
    v1 := e.Group("/v1")
    v1.Use(middleware.JWTAuth(jwtSecret))
    v1.Use(middleware.RequireRole(repository.RoleAdmin, repository.RoleReception))

    v1.GET("/me", h.Auth.Me)

    // rentals: booking, billing and lifecycle
    v1.POST("/rentals", h.Rentals.Create)
    v1.GET("/rentals", h.Rentals.List)
    v1.GET("/rentals/:id", h.Rentals.Get)
    v1.POST("/rentals/:id/renew", h.Rentals.Renew)
    v1.POST("/rentals/:id/rooms/:room_id/checkout", h.Rentals.CheckoutRoom)
    v1.DELETE("/rentals/:id", h.Rentals.Delete)

    // reservations: future bookings and their transitions
    v1.POST("/reservations", h.Reservations.Create)
    v1.GET("/reservations", h.Reservations.List)
    v1.PUT("/reservations/:id/hours", h.Reservations.ExtendHours)
    v1.PUT("/reservations/:id/days", h.Reservations.ExtendDays)
    v1.POST("/reservations/:id/confirm", h.Reservations.Confirm)
    v1.GET("/reservations/:id/rooms/date", h.Reservations.RoomsByDate)
    v1.GET("/reservations/:id/rooms/hour", h.Reservations.RoomsByHour)

    // availability queries for the booking screens
    v1.GET("/rooms/available/date", h.Rentals.AvailableByDate)
    v1.GET("/rooms/available/hour", h.Rentals.AvailableByHour)

    // inventory
    v1.GET("/rooms", h.Rooms.List)
    v1.GET("/rooms/:id", h.Rooms.Get)
    v1.GET("/types", h.Types.List)

    // guests
    v1.GET("/clients", h.Clients.List)
    v1.GET("/clients/:id", h.Clients.Get)
    v1.POST("/clients", h.Clients.Create)
    v1.PUT("/clients/:id", h.Clients.Update)

    // administration: inventory mutation and tenant pricing
    admin := v1.Group("")
    admin.Use(middleware.RequireRole(repository.RoleAdmin))
    admin.POST("/rooms", h.Rooms.Create)
    admin.PUT("/rooms/:id", h.Rooms.Update)
    admin.DELETE("/rooms/:id", h.Rooms.Delete)
    admin.POST("/types", h.Types.Create)
    admin.PUT("/types/:id", h.Types.Update)
    admin.DELETE("/types/:id", h.Types.Delete)
    admin.GET("/settings", h.Settings.Get)
    admin.PUT("/settings", h.Settings.Update)
}
