package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hostelhaven/internal/config"
	"hostelhaven/internal/embedding"
	"hostelhaven/internal/indexer"
	mongostore "hostelhaven/internal/store/mongo"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the vector index artifacts from the full listing store.",
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
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = store.Close(closeCtx)
		}()

		builder := indexer.New(store, embedder, log)
		stats, err := builder.Run(ctx, indexer.Options{
			VectorPath:   cfg.Index.VectorPath,
			MappingPath:  cfg.Index.MappingPath,
			Model:        cfg.Embedding.Model,
			Dim:          cfg.Embedding.Dimensions,
			Workers:      cfg.Index.Workers,
			EmbedTimeout: cfg.Embedding.Timeout(),
		})
		if err != nil {
			log.Error("index build aborted, previous artifacts untouched", "error", err)
			return err
		}

		log.Info("stored embeddings",
			"listings", stats.Listings, "embedded", stats.Embedded, "skipped", stats.Skipped)
		return nil
	},
}
