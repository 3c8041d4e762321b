package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// NamesLister fetches the full canonical-name listing for one remote
// category. Satisfied by dexapi.Client.
type NamesLister interface {
	ListNames(ctx context.Context, category string) ([]string, error)
}

// Loader fills a [Store] from the remote catalog. It is meant to run once
// at startup; the loaded lists are then immutable for the process lifetime.
type Loader struct {
	client NamesLister
	store  Store
}

// NewLoader returns a [Loader] reading from client and writing to store.
func NewLoader(client NamesLister, store Store) *Loader {
	return &Loader{client: client, store: store}
}

// Load fetches every category concurrently and stores the results. It
// fails if any category cannot be fetched or stored; a partially loaded
// catalog would silently shrink the resolvable universe.
func (l *Loader) Load(ctx context.Context) error {
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for _, category := range AllCategories() {
		g.Go(func() error {
			names, err := l.client.ListNames(ctx, string(category))
			if err != nil {
				return fmt.Errorf("catalog: load %s: %w", category, err)
			}
			if err := l.store.Put(ctx, category, names); err != nil {
				return err
			}
			slog.Debug("catalog: category loaded",
				"category", string(category),
				"names", len(names),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("catalog: loaded", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
