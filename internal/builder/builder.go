// Package builder orchestrates a full catalog build: schema reset,
// service enumeration insert, and one extraction pass per resolvable
// service.
package builder

import (
	"context"
	"fmt"
	"log/slog"

	"binderscope/internal/catalog"
	"binderscope/internal/extract"
	"binderscope/internal/store"
)

// Builder populates one catalog store from a device enumeration.
type Builder struct {
	store     *store.Store
	extractor *extract.Extractor
}

// New creates a Builder writing to st and extracting through ex.
func New(st *store.Store, ex *extract.Extractor) *Builder {
	return &Builder{store: st, extractor: ex}
}

// Build resets the catalog and repopulates it from the enumerated
// services. Services without a resolvable project are retained with zero
// transactions so the list view stays complete. Extraction failures
// degrade to partial or empty transaction lists with a warning; store
// failures abort the build immediately.
func (b *Builder) Build(ctx context.Context, services []catalog.DeviceService) error {
	if err := b.store.ResetSchema(ctx); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	inserted, err := b.store.InsertServices(ctx, services)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	slog.Info("services inserted", "count", len(inserted))

	for _, svc := range inserted {
		if !svc.HasProject() {
			continue
		}

		txns, err := b.extractor.Extract(svc.Name, svc.Project)
		if err != nil {
			slog.Warn("extraction failed for service, continuing",
				"service", svc.Name, "error", err)
			continue
		}
		if len(txns) == 0 {
			continue
		}

		if err := b.store.InsertTransactions(ctx, svc.ID, txns); err != nil {
			return fmt.Errorf("build: service %s: %w", svc.Name, err)
		}
		slog.Debug("transactions recorded", "service", svc.Name, "count", len(txns))
	}

	return nil
}
