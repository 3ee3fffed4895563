package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/hostaluna/room-rental/internal/booking"
    "github.com/hostaluna/room-rental/internal/config"
    "github.com/hostaluna/room-rental/internal/database"
    "github.com/hostaluna/room-rental/internal/handler"
    "github.com/hostaluna/room-rental/internal/queue"
    "github.com/hostaluna/room-rental/internal/repository"
    "github.com/hostaluna/room-rental/internal/router"
    "github.com/hostaluna/room-rental/internal/scheduler"
    "github.com/hostaluna/room-rental/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()
    if err := database.Migrate(db); err != nil {
        log.Fatalf("database: %v", err)
    }

    // nil when Redis is unreachable; the setting cache degrades to DB reads
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable, running without the setting cache")
    }

    rentalRepo := repository.NewRentalRepo(db)
    assignmentRepo := repository.NewAssignmentRepo(db)
    roomRepo := repository.NewRoomRepo(db)
    clientRepo := repository.NewClientRepo(db)
    settingRepo := repository.NewSettingRepo(db, rdb)
    recordRepo := repository.NewRecordRepo(db)
    typeRepo := repository.NewTypeRepo(db)
    userRepo := repository.NewUserRepo(db)

    rentals := service.NewRentalService(
        rentalRepo, assignmentRepo, roomRepo, clientRepo, settingRepo, recordRepo,
        service.AMQPPublisher{}, booking.UTCClock{},
    )

    sched := scheduler.New(rentals)
    sched.Start()
    defer sched.Stop()

    go func() {
        if err := queue.StartRentalConsumer(); err != nil {
            log.Printf("rental consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true
    router.Register(e, router.Handlers{
        Health:       handler.NewHealthHandler(db),
        Auth:         handler.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost),
        Rentals:      handler.NewRentalHandler(rentals),
        Reservations: handler.NewReservationHandler(rentals),
        Rooms:        handler.NewRoomHandler(roomRepo, typeRepo, assignmentRepo),
        Types:        handler.NewTypeHandler(typeRepo),
        Clients:      handler.NewClientHandler(clientRepo),
        Settings:     handler.NewSettingHandler(settingRepo),
    }, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
