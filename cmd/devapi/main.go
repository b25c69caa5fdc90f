// Command devapi serves canned dashboard API replies for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atomicstack/solar-dashboard/internal/devapi"
)

const envAddr = "DEVAPI_ADDR"

func main() {
	defaultAddr := os.Getenv(envAddr)
	if defaultAddr == "" {
		defaultAddr = ":8000"
	}
	addr := flag.String("addr", defaultAddr, "listen address")
	delay := flag.Duration("delay", 750*time.Millisecond, "artificial latency before chat replies")
	unhealthy := flag.Bool("unhealthy", false, "report a degraded backend from the health endpoint")
	flag.Parse()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           devapi.NewRouter(devapi.Options{Delay: *delay, Unhealthy: *unhealthy}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("development API listening on %s%s", *addr, devapi.Prefix)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
