package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"miosa/internal/gateway/app"
)

const shutdownGrace = 10 * time.Second

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("gateway init failed: %v", err)
	}

	go func() {
		if err := a.Start(); err != nil {
			log.Printf("gateway stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Printf("received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := a.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown did not complete cleanly: %v", err)
	}

	log.Println("gateway exited")
}
