package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hostelhaven/internal/config"
	"hostelhaven/internal/embedding"
	"hostelhaven/internal/search"
	"hostelhaven/internal/server"
	mongostore "hostelhaven/internal/store/mongo"
	"hostelhaven/internal/vectorindex"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the index artifacts and serve search queries over HTTP.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := newLogger()

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		embedder, err := embedding.NewClient(embedding.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			APIKeyEnv:  cfg.Embedding.APIKeyEnv,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
		if err != nil {
			return err
		}

		store, err := mongostore.New(ctx, mongostore.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = store.Close(closeCtx)
		}()

		// The artifact pair is loaded once and held read-only for the
		// process lifetime; picking up a rebuild means restarting.
		index, mapping, err := vectorindex.LoadArtifacts(
			cfg.Index.VectorPath, cfg.Index.MappingPath,
			cfg.Embedding.Model, cfg.Embedding.Dimensions,
		)
		if err != nil {
			return err
		}
		log.Info("index loaded", "vectors", index.Len(), "dim", index.Dim(), "model", index.Model())

		svc, err := search.New(index, mapping, store, embedder, search.Config{
			DefaultK:     cfg.Search.DefaultK,
			FilterK:      cfg.Search.FilterK,
			EmbedTimeout: cfg.Embedding.Timeout(),
		}, log)
		if err != nil {
			return err
		}

		srv := server.New(svc, cfg.Server.Addr, log)
		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
