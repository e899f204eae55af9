// Package search implements the online query path: embed the query text,
// search the in-memory vector index, resolve hits to listings, and apply
// optional post-filters. The index and mapping are read-only after load, so
// a Service is safe for concurrent use.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hostelhaven/internal/domain"
	"hostelhaven/internal/metrics"
	"hostelhaven/internal/vectorindex"
)

// Filters narrow a result set after retrieval. Filtering never expands or
// re-ranks the nearest-neighbor result; it only drops entries.
type Filters struct {
	MinRent   *int
	MaxRent   *int
	MinRating *float64
	// RoomTypes and Facilities match if the listing carries at least one of
	// the requested tags, compared case-insensitively.
	RoomTypes  []string
	Facilities []string
}

func (f *Filters) empty() bool {
	return f == nil ||
		(f.MinRent == nil && f.MaxRent == nil && f.MinRating == nil &&
			len(f.RoomTypes) == 0 && len(f.Facilities) == 0)
}

// Request is one search query. K <= 0 means "use the configured default".
type Request struct {
	Query   string
	K       int
	Filters *Filters
}

// Config tunes the query path.
type Config struct {
	// DefaultK is the neighbor count when the caller does not set one.
	DefaultK int
	// FilterK is used instead of DefaultK when filters are present,
	// fetching extra neighbors so post-filtering has headroom.
	FilterK int
	// EmbedTimeout bounds the embedding provider call.
	EmbedTimeout time.Duration
	// FeaturedLimit is the size of the featured fallback view.
	FeaturedLimit int
}

// Service is the query service. All collaborators are injected; the
// service holds no per-query mutable state.
type Service struct {
	index    *vectorindex.Index
	mapping  vectorindex.Mapping
	store    domain.ListingStore
	embedder domain.Embedder
	cfg      Config
	log      *slog.Logger
}

// New creates a Service over a loaded index/mapping pair.
func New(index *vectorindex.Index, mapping vectorindex.Mapping, store domain.ListingStore,
	embedder domain.Embedder, cfg Config, log *slog.Logger) (*Service, error) {
	if index.Len() != len(mapping.IDs) {
		return nil, fmt.Errorf("%w: index has %d vectors, mapping has %d ids",
			domain.ErrIndexUnavailable, index.Len(), len(mapping.IDs))
	}
	if cfg.DefaultK <= 0 {
		cfg.DefaultK = 5
	}
	if cfg.FilterK <= 0 {
		cfg.FilterK = 10
	}
	if cfg.FeaturedLimit <= 0 {
		cfg.FeaturedLimit = 3
	}
	return &Service{
		index:    index,
		mapping:  mapping,
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		log:      log,
	}, nil
}

// Search runs one query end to end. Listings come back in nearest-neighbor
// order, post-filter. An empty result after filtering is a normal outcome,
// not an error.
func (s *Service) Search(ctx context.Context, req Request) ([]domain.Listing, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	metrics.QueriesTotal.Inc()

	vec, err := s.embedQuery(ctx, query)
	if err != nil {
		metrics.QueryErrorsTotal.WithLabelValues("embed").Inc()
		return nil, err
	}

	hits, err := s.index.Search(vec, s.resultCount(req))
	if err != nil {
		metrics.QueryErrorsTotal.WithLabelValues("search").Inc()
		return nil, err
	}

	listings, err := s.resolve(ctx, hits)
	if err != nil {
		metrics.QueryErrorsTotal.WithLabelValues("resolve").Inc()
		return nil, err
	}

	return applyFilters(listings, req.Filters), nil
}

// Featured returns the top rated listings, the view shown when no search
// has been performed. Ranking comes from the store, not the index.
func (s *Service) Featured(ctx context.Context) ([]domain.Listing, error) {
	return s.store.TopRated(ctx, s.cfg.FeaturedLimit)
}

func (s *Service) resultCount(req Request) int {
	if req.K > 0 {
		return req.K
	}
	if !req.Filters.empty() {
		return s.cfg.FilterK
	}
	return s.cfg.DefaultK
}

func (s *Service) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if s.cfg.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.EmbedTimeout)
		defer cancel()
	}
	return s.embedder.Embed(ctx, query)
}

// resolve maps hits to full listings. Stale entries are dropped and
// counted: the index commonly references listings deleted since the last
// build, and that must not fail the query.
func (s *Service) resolve(ctx context.Context, hits []vectorindex.Hit) ([]domain.Listing, error) {
	out := make([]domain.Listing, 0, len(hits))
	for _, hit := range hits {
		if hit.Slot < 0 || hit.Slot >= len(s.mapping.IDs) {
			metrics.StaleSlotsSkipped.Inc()
			s.log.Warn("dropping out-of-range index slot", "slot", hit.Slot)
			continue
		}
		id := s.mapping.IDs[hit.Slot]
		listing, err := s.store.GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			metrics.StaleSlotsSkipped.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, listing)
	}
	return out, nil
}

// applyFilters is a pure narrowing pass: the output is a subsequence of the
// input with relative order preserved.
func applyFilters(listings []domain.Listing, f *Filters) []domain.Listing {
	if f.empty() {
		return listings
	}
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if f.MinRent != nil && l.MonthlyRent < *f.MinRent {
			continue
		}
		if f.MaxRent != nil && l.MonthlyRent > *f.MaxRent {
			continue
		}
		if f.MinRating != nil && l.Rating() < *f.MinRating {
			continue
		}
		if len(f.RoomTypes) > 0 && !anyTagMatch(f.RoomTypes, l.RoomTypes) {
			continue
		}
		if len(f.Facilities) > 0 && !anyTagMatch(f.Facilities, l.Facilities) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// anyTagMatch reports whether any wanted tag equals any listing tag,
// ignoring case. Exact tag comparison, not substring.
func anyTagMatch(wanted, have []string) bool {
	for _, w := range wanted {
		for _, h := range have {
			if strings.EqualFold(w, h) {
				return true
			}
		}
	}
	return false
}
