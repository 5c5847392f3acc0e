// README: Entry point; loads config, wires services and stores, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hitch/internal/config"
	httptransport "hitch/internal/http"
	"hitch/internal/infra"
	"hitch/internal/logging"
	"hitch/internal/modules/driver"
	"hitch/internal/modules/matching"
	"hitch/internal/modules/passenger"
	"hitch/internal/modules/pricing"
	"hitch/internal/modules/request"
	"hitch/internal/modules/ride"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		passengerStore passenger.Store = passenger.NewMemoryStore()
		driverStore    driver.Store    = driver.NewMemoryStore()
		requestStore   request.Store   = request.NewMemoryStore()
		rideStore      ride.Store      = ride.NewMemoryStore()
	)
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Error("postgres init", "err", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		passengerStore = passenger.NewPostgresStore(dbPool)
		driverStore = driver.NewPostgresStore(dbPool)
		requestStore = request.NewPostgresStore(dbPool)
		rideStore = ride.NewPostgresStore(dbPool)
	}

	var roster matching.Roster = matching.NewMemoryRoster()
	if cfg.Redis.Addr != "" {
		roster = matching.NewRedisRoster(infra.NewRedis(cfg.Redis.Addr))
	}

	pricingSvc := pricing.NewService()
	passengerSvc := passenger.NewService(passengerStore)
	driverSvc := driver.NewService(driverStore, roster)
	rideSvc := ride.NewService(rideStore, pricingSvc, driverSvc)
	requestSvc := request.NewService(requestStore, pricingSvc, passengerSvc, rideSvc, request.TimerScheduler{}, cfg.Request.TTL)
	matchingSvc := matching.NewService(requestSvc, driverSvc, rideSvc, roster)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Passengers: passengerSvc,
		Drivers:    driverSvc,
		Requests:   requestSvc,
		Rides:      rideSvc,
		Matching:   matchingSvc,
		Logger:     logger,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server", "err", err)
		os.Exit(1)
	}
}
