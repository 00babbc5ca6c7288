package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/mbolis/monday-forms/app"
	"github.com/mbolis/monday-forms/config"
	"github.com/mbolis/monday-forms/configstore"
	"github.com/mbolis/monday-forms/database"
	"github.com/mbolis/monday-forms/log"
	"github.com/mbolis/monday-forms/monday"
	"github.com/mbolis/monday-forms/registry"
	"github.com/mbolis/monday-forms/routes"
	"github.com/mbolis/monday-forms/submission"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	log.Configure(cfg.Debug, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// run serves until ctx is done or the server fails. Queued submissions are
// drained and the store closed before it returns.
func run(ctx context.Context, cfg config.Config) error {
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return errors.Wrap(err, "main.store")
	}
	defer closeStore()

	bootstrap, err := configstore.ParseBootstrap(cfg.Bootstrap)
	if err != nil {
		log.Error("main.bootstrap:", err)
	}
	configs := configstore.NewCache(store, bootstrap)

	if cfg.ReadOnly {
		log.Warn("Running read-only: configuration changes are kept in memory and form instances are lost on restart")
	}

	board := monday.NewClient(cfg.MondayURL, cfg.MondayToken)
	if !board.Configured() {
		log.Warn("No monday.com API token: submissions will not be pushed")
	}

	dispatcher := submission.NewDispatcher(configs, board, cfg.MondayTimeout)
	defer func() {
		dispatcher.Close()
		log.Info("Submission queue drained")
	}()

	app := app.App{
		Config:       cfg,
		Configs:      configs,
		Forms:        registry.New(),
		Submissions:  dispatcher,
		Board:        board,
		AlwaysAccept: true,
	}

	err = runServer(ctx, cfg, routes.Wire(app))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "main.server")
	}
	return nil
}

func openStore(cfg config.Config) (configstore.Store, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := database.Open(cfg.DBUrl)
		if err != nil {
			return nil, nil, err
		}
		return database.NewDocumentStore(db), func() { db.Close() }, nil
	case config.StoreMemory:
		return configstore.NewMemoryStore(), func() {}, nil
	default:
		return configstore.NewFileStore(cfg.ConfigPath, cfg.ReadOnly), func() {}, nil
	}
}

// runServer returns once the server has stopped and in-flight requests are
// done.
func runServer(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	stopped := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Errorf("main.shutdown: %s", err)
		}
	}()

	log.Info("Listening on " + cfg.Url())
	err := srv.ListenAndServe()
	close(stopped)
	<-done
	return err
}
