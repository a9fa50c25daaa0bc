package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"kickslab/internal/cart"
	"kickslab/internal/catalog"
	"kickslab/internal/checkout"
	"kickslab/internal/config"
	"kickslab/internal/db"
	"kickslab/internal/devicestore"
	"kickslab/internal/email"
	"kickslab/internal/events"
	"kickslab/internal/httpserver"
	snapshotrepo "kickslab/internal/repository/snapshotdoc"
	"kickslab/internal/relay"
	"kickslab/internal/snapshot"
	"kickslab/internal/snapshot/github"
	"kickslab/internal/syncer"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pool *pgxpool.Pool
	var snapshotRepo snapshotrepo.Repository
	if cfg.DBConnString != "" {
		var err error
		pool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		snapshotRepo = snapshotrepo.NewPostgres(pool, logger)
	}

	var writer snapshot.Writer
	switch cfg.SnapshotBackend {
	case config.BackendPostgres:
		if snapshotRepo == nil {
			logger.Fatal("SNAPSHOT_BACKEND=postgres requires DB_DSN")
		}
		writer = snapshotrepo.NewWriter(snapshotRepo, logger)
	default:
		writer = github.New(github.Config{
			Token:  cfg.GitHubToken,
			Owner:  cfg.GitHubOwner,
			Repo:   cfg.GitHubRepo,
			Branch: cfg.GitHubBranch,
		}, logger)
	}

	local := devicestore.New(filepath.Join(cfg.DataDir, "store.json"))

	cartStore, err := cart.New(local, func(ev cart.Event) {
		logger.Printf("cart %s: %s (size %s)", ev.Kind, ev.Line.Name, ev.Line.Size)
	}, logger)
	if err != nil {
		logger.Fatalf("init cart: %v", err)
	}
	catalogStore, err := catalog.New(local, logger)
	if err != nil {
		logger.Fatalf("init catalog: %v", err)
	}
	eventStore, err := events.New(local, logger)
	if err != nil {
		logger.Fatalf("init events: %v", err)
	}

	mailer := email.New(email.Config{
		APIKey:   cfg.EmailAPIKey,
		Endpoint: cfg.EmailEndpoint,
		From:     cfg.EmailFrom,
		Operator: cfg.OperatorEmail,
	}, logger)
	relayClient := relay.New(cfg.RelayURL, logger)
	flow := checkout.New(cartStore, local, relayClient, mailer, logger)

	var sched *syncer.Scheduler
	if cfg.SnapshotBaseURL != "" {
		reader := snapshot.NewReader(nil, cfg.SnapshotBaseURL)
		sched = syncer.New(cfg.PollInterval, func(ctx context.Context) {
			catalogStore.Refresh(ctx, reader.FetchProducts)
			eventStore.Refresh(ctx, reader.FetchEvents)
		}, logger)
		go sched.Run(ctx)
	} else {
		logger.Printf("SNAPSHOT_BASE_URL not set, remote sync disabled")
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, pool, httpserver.Deps{
		Catalog:    catalogStore,
		Events:     eventStore,
		Cart:       cartStore,
		Checkout:   flow,
		Snapshots:  snapshotRepo,
		Writer:     writer,
		Sync:       sched,
		AdminToken: cfg.AdminToken,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
