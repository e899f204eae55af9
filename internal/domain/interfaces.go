package domain

import "context"

// Embedder converts free text into a fixed-dimension numeric vector.
// The dimension is fixed by configuration; index build and query must run
// with the same embedder configuration or distances are meaningless.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ListingStore is the read surface of the listing document store.
// Ingestion and schema administration happen outside this service.
type ListingStore interface {
	// GetByID returns a single listing. A missing listing is ErrNotFound,
	// which callers resolving a possibly stale index must treat as
	// skip-and-continue rather than a failure.
	GetByID(ctx context.Context, id string) (Listing, error)

	// All returns every listing in the store, in store order. Used only by
	// the offline index builder.
	All(ctx context.Context) ([]Listing, error)

	// TopRated returns up to limit listings ordered by rating, highest
	// first. Backs the featured view, not search ranking.
	TopRated(ctx context.Context, limit int) ([]Listing, error)
}
