package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voxelstream/internal/config"
	"voxelstream/internal/transport"
	"voxelstream/internal/world"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config file (optional)")
		addr        = flag.String("addr", "", "http listen address (overrides config)")
		seed        = flag.String("seed", "", "world seed (overrides config)")
		fingerprint = flag.Int("fingerprint", -1, "print the world fingerprint for the given radius and exit")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[voxelstream] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}
	if *seed != "" {
		cfg.Seed = *seed
	}

	if *fingerprint >= 0 {
		fp, err := world.WorldFingerprint(cfg.Seed, *fingerprint)
		if err != nil {
			logger.Fatalf("fingerprint: %v", err)
		}
		fmt.Println(fp)
		return
	}

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", transport.NewServer(cfg, logger).Handler())

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s seed=%q activeRadius=%d removeRadius=%d",
		cfg.Listen, cfg.Seed, cfg.ActiveRadius, cfg.RemoveRadius)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
