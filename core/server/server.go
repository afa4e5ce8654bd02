package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"availability-service/core/cache"
	"availability-service/core/config"
	"availability-service/core/constants"
	"availability-service/core/database"
	"availability-service/core/logger"
	"availability-service/core/middleware"
	"availability-service/core/queue"
	authModule "availability-service/modules/auth"
	availabilityModule "availability-service/modules/availability"
	bookingModule "availability-service/modules/booking"
	organizerModule "availability-service/modules/organizer"
	syncModule "availability-service/modules/sync"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run wires config, storage, cache and queue, registers every module, then
// serves HTTP and the background worker until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := cache.InitCache(cache.CacheConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}

	queueCfg := queue.QueueConfig{
		RedisAddr:     cfg.RedisAddr(),
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
	}
	queue.InitQueue(queueCfg)
	defer queue.CloseClient()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())

	mw := middleware.NewMiddleware()

	// Module wiring. Order matters: availability needs the organizer
	// service, booking and sync need the availability cache store.
	organizerSvc := organizerModule.Init(e, db, mw)
	availabilitySvc, cacheStore := availabilityModule.Init(e, db, c, mw, organizerSvc)
	bookingModule.Init(e, db, mw, organizerSvc, cacheStore)
	syncSvc := syncModule.Init(e, db, mw, organizerSvc, cacheStore)
	authModule.Init(e)

	registerHealth(e, c)

	worker, mux := queue.NewServer(queueCfg)
	mux.HandleFunc(constants.TaskTypePrecomputeSlots, availabilitySvc.HandlePrecomputeTask)
	mux.HandleFunc(constants.TaskTypeCalendarSync, syncSvc.HandleSyncTask)
	if err := worker.Start(mux); err != nil {
		return err
	}

	go func() {
		if err := e.Start(cfg.ServerAddr()); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", cfg.ServerAddr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server:Shutdown:Error", "error", err)
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func registerHealth(e *echo.Echo, c cache.Cache) {
	e.GET("/health", func(ctx echo.Context) error {
		status := map[string]string{"status": "ok", "redis": "ok"}
		if err := c.Ping(ctx.Request().Context()); err != nil {
			status["redis"] = "down"
		}
		return ctx.JSON(http.StatusOK, status)
	})
}
