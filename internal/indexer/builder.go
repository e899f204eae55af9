// Package indexer is the offline batch job that turns the full listing
// corpus into the two serving artifacts: the vector blob and the
// slot-to-ID mapping. It is run from the CLI, never from the query path.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"hostelhaven/internal/domain"
	"hostelhaven/internal/metrics"
	"hostelhaven/internal/vectorindex"
)

var (
	// ErrEmptyCorpus aborts a build against an empty listing store. No
	// artifacts are written: an empty index must never replace a good one.
	ErrEmptyCorpus = errors.New("indexer: no listings in store")

	// ErrNoEmbeddings aborts a build in which every embedding call failed.
	ErrNoEmbeddings = errors.New("indexer: no embeddings produced")
)

// Options configures a single build run.
type Options struct {
	VectorPath  string
	MappingPath string
	// Model is the embedding-model identifier stamped into both artifacts.
	Model string
	Dim   int
	// Workers bounds concurrent embedding calls. Slot order stays the
	// listing encounter order regardless of completion order.
	Workers      int
	EmbedTimeout time.Duration
}

// Stats summarizes a completed build.
type Stats struct {
	Listings int
	Embedded int
	Skipped  int
}

// Builder reads all listings, embeds each listing's canonical text, and
// persists the artifact pair.
type Builder struct {
	store    domain.ListingStore
	embedder domain.Embedder
	log      *slog.Logger
}

// New creates a Builder.
func New(store domain.ListingStore, embedder domain.Embedder, log *slog.Logger) *Builder {
	return &Builder{store: store, embedder: embedder, log: log}
}

// Run executes one full build. Slot i of the resulting index corresponds to
// the i-th listing whose embedding succeeded, in store encounter order. A
// listing whose embedding fails is logged and skipped; it is simply absent
// from the index until the next build. All abort paths leave any previous
// artifacts untouched.
func (b *Builder) Run(ctx context.Context, opts Options) (Stats, error) {
	listings, err := b.store.All(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("indexer: scan listings: %w", err)
	}
	if len(listings) == 0 {
		return Stats{}, ErrEmptyCorpus
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	vectors := make([][]float32, len(listings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range listings {
		i := i
		g.Go(func() error {
			vec, err := b.embed(gctx, listings[i].CanonicalText(), opts.EmbedTimeout)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				metrics.BuildEmbedFailures.Inc()
				b.log.Warn("skipping listing, embedding failed",
					"id", listings[i].ID, "name", listings[i].Name, "error", err)
				return nil
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("indexer: embed corpus: %w", err)
	}

	ix, err := vectorindex.New(opts.Dim, opts.Model)
	if err != nil {
		return Stats{}, err
	}
	mapping := vectorindex.Mapping{Model: opts.Model}
	stats := Stats{Listings: len(listings)}
	for i, vec := range vectors {
		if vec == nil {
			stats.Skipped++
			continue
		}
		if err := ix.Add(vec); err != nil {
			return Stats{}, fmt.Errorf("indexer: listing %s: %w", listings[i].ID, err)
		}
		mapping.IDs = append(mapping.IDs, listings[i].ID)
		stats.Embedded++
	}
	if stats.Embedded == 0 {
		return Stats{}, ErrNoEmbeddings
	}

	// Vector blob first, mapping second. Each replacement is atomic; a
	// crash between the two renames is detected at load time by the pair
	// cross-checks in LoadArtifacts.
	if err := ix.WriteFile(opts.VectorPath); err != nil {
		return Stats{}, err
	}
	if err := mapping.WriteFile(opts.MappingPath); err != nil {
		return Stats{}, err
	}

	b.log.Info("index build complete",
		"listings", stats.Listings, "embedded", stats.Embedded, "skipped", stats.Skipped,
		"vector_path", opts.VectorPath, "mapping_path", opts.MappingPath)
	return stats, nil
}

func (b *Builder) embed(ctx context.Context, text string, timeout time.Duration) ([]float32, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return b.embedder.Embed(ctx, text)
}
