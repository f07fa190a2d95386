package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/app"
	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/clock"
	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/config"
	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/identity"
	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/session"
	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/storage/postgres"
	transporthttp "github.com/DaryllDaniel/Simple-Event-Calendar/internal/transport/http"
	"github.com/DaryllDaniel/Simple-Event-Calendar/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()
	config.LoadEnvFile(logger)
	cfg := config.Parse(logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	// Missing provider configuration is fatal; sign-in failures past
	// this point are not.
	provider, err := identity.NewLocalProvider(cfg.AuthSecret)
	if err != nil {
		log.Fatalf("identity provider: %v", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := session.Establish(runCtx, provider, cfg.AuthToken, logger)
	if err != nil {
		log.Fatalf("establish session: %v", err)
	}
	defer sess.Close()

	feed := app.NewSnapshotFeed()
	repo := postgres.NewEventRepository(pool)
	svc := app.NewEventService(repo, sess, feed, cfg.Namespace)

	// One live subscription per resolved identity.
	if scope, err := svc.Scope(); err != nil {
		log.Printf("WARN: no identity resolved, running without a live subscription: %v", err)
	} else {
		watcher := postgres.NewWatcher(pool, repo, scope, feed, logger)
		go func() {
			if err := watcher.Run(runCtx); err != nil {
				log.Printf("watcher stopped: %v", err)
			}
		}()
	}

	page := transporthttp.NewPageHandler(svc, clock.NewSystem())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/api/events", transporthttp.HandleEvents(svc))
	mux.Handle("/api/events/", transporthttp.HandleDeleteEvent(svc))
	mux.Handle("/api/stream", transporthttp.HandleStream(svc))
	mux.HandleFunc("/events", page.ServeAddEvent)
	mux.HandleFunc("/events/", page.ServeDeleteEvent)
	mux.HandleFunc("/", page.ServeCalendar)

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("calendar listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-runCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
