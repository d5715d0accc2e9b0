package catalog

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"fineart/internal/domain/artists"
	"fineart/internal/domain/artworks"
	"fineart/internal/domain/exhibitions"
)

// BackfillStore is what the legacy artist-link backfill needs.
type BackfillStore interface {
	AllArtists(ctx context.Context) ([]artists.Artist, error)
	OrphanArtworks(ctx context.Context) ([]artworks.Artwork, error)
	OrphanExhibitions(ctx context.Context) ([]exhibitions.Exhibition, error)
	LinkArtworks(ctx context.Context, ids []string, artist artists.Artist) (int64, error)
	LinkExhibitions(ctx context.Context, ids []string, artist artists.Artist) (int64, error)
}

type BackfillReport struct {
	LinkedArtworks    int64 `json:"linkedArtworks"`
	LinkedExhibitions int64 `json:"linkedExhibitions"`
	// normalised names shared by more than one artist; rows carrying them stay unlinked
	Ambiguous []string `json:"ambiguous,omitempty"`
	// normalised names that match no artist
	Unmatched []string `json:"unmatched,omitempty"`
}

// Plan maps normalised artist names to artist ids. Names used by two or more
// artists are returned separately and never resolved.
type Plan struct {
	unique    map[string]artists.Artist
	ambiguous map[string]struct{}
}

func NewPlan(list []artists.Artist) Plan {
	p := Plan{unique: map[string]artists.Artist{}, ambiguous: map[string]struct{}{}}
	for _, a := range list {
		key := NormalizeName(a.Name)
		if key == "" {
			continue
		}
		if _, amb := p.ambiguous[key]; amb {
			continue
		}
		if prev, seen := p.unique[key]; seen && prev.ID != a.ID {
			delete(p.unique, key)
			p.ambiguous[key] = struct{}{}
			continue
		}
		p.unique[key] = a
	}
	return p
}

// Resolve returns the artist for a legacy name.
func (p Plan) Resolve(name string) (artists.Artist, bool) {
	a, ok := p.unique[NormalizeName(name)]
	return a, ok
}

func (p Plan) IsAmbiguous(name string) bool {
	_, ok := p.ambiguous[NormalizeName(name)]
	return ok
}

// Backfill links legacy rows that only carry an artist name to the artist with
// that normalised name. Homonyms are never merged.
func Backfill(ctx context.Context, st BackfillStore, log *zap.Logger) (BackfillReport, error) {
	var report BackfillReport

	list, err := st.AllArtists(ctx)
	if err != nil {
		return report, fmt.Errorf("load artists: %w", err)
	}
	plan := NewPlan(list)

	works, err := st.OrphanArtworks(ctx)
	if err != nil {
		return report, fmt.Errorf("load orphan artworks: %w", err)
	}
	shows, err := st.OrphanExhibitions(ctx)
	if err != nil {
		return report, fmt.Errorf("load orphan exhibitions: %w", err)
	}

	ambiguous := map[string]struct{}{}
	unmatched := map[string]struct{}{}

	group := func(name string) (artists.Artist, bool) {
		if a, ok := plan.Resolve(name); ok {
			return a, true
		}
		key := NormalizeName(name)
		if key == "" {
			return artists.Artist{}, false
		}
		if plan.IsAmbiguous(name) {
			ambiguous[key] = struct{}{}
		} else {
			unmatched[key] = struct{}{}
		}
		return artists.Artist{}, false
	}

	workIDs := map[string][]string{}
	for _, w := range works {
		if a, ok := group(w.ArtistName); ok {
			workIDs[a.ID] = append(workIDs[a.ID], w.ID)
		}
	}
	showIDs := map[string][]string{}
	for _, e := range shows {
		if a, ok := group(e.ArtistName); ok {
			showIDs[a.ID] = append(showIDs[a.ID], e.ID)
		}
	}

	for _, a := range list {
		if ids := workIDs[a.ID]; len(ids) > 0 {
			n, err := st.LinkArtworks(ctx, ids, a)
			if err != nil {
				return report, fmt.Errorf("link artworks for %s: %w", a.Slug, err)
			}
			report.LinkedArtworks += n
		}
		if ids := showIDs[a.ID]; len(ids) > 0 {
			n, err := st.LinkExhibitions(ctx, ids, a)
			if err != nil {
				return report, fmt.Errorf("link exhibitions for %s: %w", a.Slug, err)
			}
			report.LinkedExhibitions += n
		}
	}

	report.Ambiguous = sortedKeys(ambiguous)
	report.Unmatched = sortedKeys(unmatched)

	log.Info("artist backfill finished",
		zap.Int64("linked_artworks", report.LinkedArtworks),
		zap.Int64("linked_exhibitions", report.LinkedExhibitions),
		zap.Strings("ambiguous", report.Ambiguous),
		zap.Int("unmatched", len(report.Unmatched)),
	)
	return report, nil
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(m))
}
