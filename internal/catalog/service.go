package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fineart/internal/domain/artists"
	"fineart/internal/domain/artworks"
	"fineart/internal/domain/exhibitions"
	"fineart/internal/fallback"
)

// ErrArtistNotFound is returned by Bundle for an unknown slug.
var ErrArtistNotFound = errors.New("artist not found")

// Source loads the three unfiltered lists the join needs.
type Source interface {
	AllArtists(ctx context.Context) ([]artists.Artist, error)
	AllArtworks(ctx context.Context) ([]artworks.Artwork, error)
	AllExhibitions(ctx context.Context) ([]exhibitions.Exhibition, error)
}

// Snapshot is a built catalog. IsFallback is set when any list was replaced by demo data.
type Snapshot struct {
	Joined
	IsFallback bool      `json:"isFallback"`
	Failed     []string  `json:"failed,omitempty"`
	BuiltAt    time.Time `json:"builtAt"`
}

// Cache stores complete (non-fallback) snapshots.
type Cache interface {
	Get(ctx context.Context) (Snapshot, bool, error)
	Set(ctx context.Context, s Snapshot) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	src    Source
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
}

func NewService(src Source, cache Cache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{src: src, cache: cache, logger: logger, now: time.Now}
}

// Bundles returns the cached snapshot or builds a fresh one.
func (s *Service) Bundles(ctx context.Context) Snapshot {
	if snap, ok, err := s.cache.Get(ctx); err != nil {
		s.logger.Warn("catalog cache read failed", zap.Error(err))
	} else if ok {
		return snap
	}
	return s.Refresh(ctx)
}

// Refresh rebuilds the snapshot from the source and caches it if complete.
func (s *Service) Refresh(ctx context.Context) Snapshot {
	snap := s.build(ctx)
	if !snap.IsFallback {
		if err := s.cache.Set(ctx, snap); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return snap
}

// Invalidate drops the cached snapshot; called after catalog writes.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("catalog cache invalidate failed", zap.Error(err))
	}
}

// Warm is the cron entry point.
func (s *Service) Warm(ctx context.Context) error {
	snap := s.Refresh(ctx)
	if snap.IsFallback {
		return errors.New("catalog warm served fallback for: " + strings.Join(snap.Failed, ", "))
	}
	return nil
}

// Bundle returns the bundle of the artist with slug.
func (s *Service) Bundle(ctx context.Context, slug string) (Bundle, bool, error) {
	snap := s.Bundles(ctx)
	for _, b := range snap.Bundles {
		if b.Artist.Slug == slug {
			return b, snap.IsFallback, nil
		}
	}
	return Bundle{}, snap.IsFallback, ErrArtistNotFound
}

// build fetches the three lists concurrently. Each failure is independent:
// the failed list is replaced by its single-item fallback and the join continues.
func (s *Service) build(ctx context.Context) Snapshot {
	var (
		list  []artists.Artist
		works []artworks.Artwork
		shows []exhibitions.Exhibition

		artistErr, workErr, showErr error
	)

	// errgroup without WithContext: one failing list must not cancel the others
	var g errgroup.Group
	g.Go(func() error {
		list, artistErr = s.src.AllArtists(ctx)
		return nil
	})
	g.Go(func() error {
		works, workErr = s.src.AllArtworks(ctx)
		return nil
	})
	g.Go(func() error {
		shows, showErr = s.src.AllExhibitions(ctx)
		return nil
	})
	_ = g.Wait()

	snap := Snapshot{BuiltAt: s.now().UTC()}
	if artistErr != nil {
		s.logger.Warn("artists unavailable, using fallback", zap.Error(artistErr))
		list = fallback.Artist()
		snap.Failed = append(snap.Failed, "artists")
	}
	if workErr != nil {
		s.logger.Warn("artworks unavailable, using fallback", zap.Error(workErr))
		works = fallback.Artwork()
		snap.Failed = append(snap.Failed, "artworks")
	}
	if showErr != nil {
		s.logger.Warn("exhibitions unavailable, using fallback", zap.Error(showErr))
		shows = fallback.Exhibition()
		snap.Failed = append(snap.Failed, "exhibitions")
	}
	snap.IsFallback = len(snap.Failed) > 0
	snap.Joined = Aggregate(list, works, shows)
	return snap
}
