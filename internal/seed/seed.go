// Package seed holds the hardcoded default catalog and event data, the
// last tier of the read fallback chain, and a seeder that installs the
// defaults into the snapshot document store.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"kickslab/internal/domain"
	snapshotrepo "kickslab/internal/repository/snapshotdoc"
	"kickslab/internal/sizing"
)

// DefaultProducts is the catalog embedded in the application. The UI
// renders these whenever neither the remote snapshot nor the local cache
// has data.
func DefaultProducts() []domain.Product {
	sizes := sizing.DefaultTokens()
	return []domain.Product{
		{
			ID:          1,
			Slug:        "bay-fog-one",
			Name:        "Bay Fog One",
			PriceCents:  21000,
			Images:      []string{"/images/bay-fog-one.jpg"},
			Description: "Hand-painted grey-on-white colorway inspired by Karl the Fog.",
			Details:     []string{"Hand-painted leather upper", "Sealed with matte finisher", "Ships in 2-3 weeks"},
			Sizes:       sizes,
			InStock:     sizes,
			Featured:    true,
		},
		{
			ID:          2,
			Slug:        "golden-gate-red",
			Name:        "Golden Gate Red",
			PriceCents:  21000,
			Images:      []string{"/images/golden-gate-red.jpg"},
			Description: "International-orange fade with bridge-cable stitching detail.",
			Details:     []string{"Custom orange fade", "Contrast cable stitching", "Ships in 2-3 weeks"},
			Sizes:       sizes,
			InStock:     sizes,
			Featured:    true,
		},
		{
			ID:          3,
			Slug:        "mission-mural",
			Name:        "Mission Mural",
			PriceCents:  21000,
			Images:      []string{"/images/mission-mural.jpg"},
			Description: "Mural-style splash art, no two pairs alike.",
			Details:     []string{"One-of-one splash art", "Signed by the artist", "Ships in 2-3 weeks"},
			Sizes:       sizes,
			InStock:     sizes,
			Featured:    true,
		},
	}
}

// DefaultEvents is the embedded fallback for the events dataset.
func DefaultEvents() []domain.Event {
	return []domain.Event{
		{
			ID:       1,
			Title:    "Pop-up at Valencia Street Market",
			Date:     "2026-09-19",
			Location: "Valencia St, San Francisco",
			Details:  "Live customization, bring your own pair.",
		},
	}
}

// Apply writes the default datasets into the snapshot document store. It is
// idempotent: existing documents are overwritten at their current version.
func Apply(ctx context.Context, repo snapshotrepo.Repository) error {
	datasets := []struct {
		name    string
		payload interface{}
	}{
		{domain.DatasetProducts, DefaultProducts()},
		{domain.DatasetEvents, DefaultEvents()},
	}

	for _, ds := range datasets {
		content, err := json.Marshal(ds.payload)
		if err != nil {
			return fmt.Errorf("encode %s: %w", ds.name, err)
		}
		var version int64
		doc, err := repo.Get(ctx, ds.name)
		switch {
		case err == nil:
			version = doc.Version
		case errors.Is(err, domain.ErrNotFound):
			version = 0
		default:
			return fmt.Errorf("read %s: %w", ds.name, err)
		}
		if _, err := repo.Put(ctx, ds.name, content, version); err != nil {
			return fmt.Errorf("write %s: %w", ds.name, err)
		}
	}
	return nil
}
