// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cargolink/internal/config"
	httptransport "cargolink/internal/http"
	"cargolink/internal/infra"
	"cargolink/internal/maps"
	"cargolink/internal/modules/booking"
	"cargolink/internal/modules/location"
	"cargolink/internal/modules/pricing"
	"cargolink/internal/modules/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Routing.APIKey == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}
	routeSvc, err := maps.NewRouteService(cfg.Routing.APIKey, cfg.Routing.Timeout)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	store := booking.NewPGStore(dbPool)
	locationStore := location.NewStore(redisClient)
	pricingSvc := pricing.NewService()
	bookingSvc := booking.NewService(store, routeSvc, pricingSvc, locationStore)
	statsSvc := stats.NewService(store)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httptransport.NewRouter(bookingSvc, statsSvc),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
