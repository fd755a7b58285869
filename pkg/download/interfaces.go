package download

import (
	"context"
	"net/url"
)

// Manager defines the interface for fetching remote source archives. It
// replaces ad-hoc HTTP downloading with a higher-level, testable API that
// supports batching, de-duplication and integrity verification.
type Manager interface {
	// FetchAll downloads all items, respecting Options (e.g., concurrency and
	// destination dir). It returns a map from Item.ID to absolute local path.
	FetchAll(ctx context.Context, items []Item, opts Options) (map[string]string, error)

	// Fetch downloads a single item to a deterministic location within
	// opts.Dir and returns the absolute local file path.
	Fetch(ctx context.Context, item Item, opts Options) (string, error)

	// Head probes a URL for reachability without transferring the body.
	Head(ctx context.Context, u *url.URL) error
}

// Item represents one remote resource to download.
type Item struct {
	ID       string   // stable identifier, unique within a batch
	URL      *url.URL // source URL to download
	Checksum string   // optional hex-encoded SHA-256 checksum, verified when set
	Filename string   // optional preferred filename; derived when empty
}

// Options control the behavior of the download manager.
type Options struct {
	Dir         string // destination directory. Must be absolute.
	Concurrency int    // number of parallel downloads; if <=0, a sane default is used
}
