package port

import "context"

// ViewCache stores rendered dashboard views by path.
// A path holds one entry per variant (typically the normalized query string);
// invalidating a path drops every variant so the next read recomputes it.
//
// Every path carries a version that Invalidate advances. A reader takes the
// version before computing a view and hands it to Set, which stores the view
// only if no invalidation happened in between.
type ViewCache interface {
	Get(ctx context.Context, path, variant string) ([]byte, bool, error)
	Version(ctx context.Context, path string) (uint64, error)
	// Set reports whether body was stored. A stale version is not an error.
	Set(ctx context.Context, path, variant string, version uint64, body []byte) (bool, error)
	Invalidate(ctx context.Context, path string) error
}
