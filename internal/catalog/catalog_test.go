package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fineart/internal/domain/artists"
	"fineart/internal/domain/artworks"
	"fineart/internal/domain/exhibitions"
)

func ptr(s string) *string { return &s }

func TestAggregate_FKJoinExactlyOnce(t *testing.T) {
	list := []artists.Artist{
		{ID: "a1", Slug: "monet", Name: "Claude Monet"},
		{ID: "a2", Slug: "kahlo", Name: "Frida Kahlo"},
		{ID: "a1", Slug: "monet", Name: "Claude Monet"}, // duplicated row
	}
	works := []artworks.Artwork{
		{ID: "w1", ArtistID: ptr("a1"), ArtistName: "someone else entirely"},
		{ID: "w2", ArtistID: ptr("a2")},
		{ID: "w3", ArtistName: "Claude Monet"},
		{ID: "w4", ArtistID: ptr("ghost")},
	}
	shows := []exhibitions.Exhibition{
		{ID: "e1", ArtistID: ptr("a2")},
		{ID: "e2"},
	}

	got := Aggregate(list, works, shows)

	require.Len(t, got.Bundles, 2)
	assert.Equal(t, "a1", got.Bundles[0].Artist.ID)
	require.Len(t, got.Bundles[0].Artworks, 1)
	assert.Equal(t, "w1", got.Bundles[0].Artworks[0].ID)
	assert.Empty(t, got.Bundles[0].Exhibitions)

	require.Len(t, got.Bundles[1].Artworks, 1)
	require.Len(t, got.Bundles[1].Exhibitions, 1)

	assert.Len(t, got.OrphanArtworks, 2)
	assert.Len(t, got.OrphanExhibitions, 1)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "claude monet", NormalizeName("  Claude   MONET "))
	assert.Equal(t, "", NormalizeName(" \t"))
}

func TestPlan_Homonyms(t *testing.T) {
	p := NewPlan([]artists.Artist{
		{ID: "1", Name: "Kim Min"},
		{ID: "2", Name: "kim  min"},
		{ID: "3", Name: "Lee Ufan"},
	})

	_, ok := p.Resolve("KIM MIN")
	assert.False(t, ok)
	assert.True(t, p.IsAmbiguous("Kim Min"))

	a, ok := p.Resolve(" lee ufan ")
	require.True(t, ok)
	assert.Equal(t, "3", a.ID)
}

type fakeBackfillStore struct {
	artists []artists.Artist
	works   []artworks.Artwork
	shows   []exhibitions.Exhibition
}

func (f *fakeBackfillStore) AllArtists(context.Context) ([]artists.Artist, error) { return f.artists, nil }
func (f *fakeBackfillStore) AllArtworks(context.Context) ([]artworks.Artwork, error) {
	return f.works, nil
}
func (f *fakeBackfillStore) AllExhibitions(context.Context) ([]exhibitions.Exhibition, error) {
	return f.shows, nil
}

func (f *fakeBackfillStore) OrphanArtworks(context.Context) ([]artworks.Artwork, error) {
	var out []artworks.Artwork
	for _, w := range f.works {
		if w.ArtistID == nil {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeBackfillStore) OrphanExhibitions(context.Context) ([]exhibitions.Exhibition, error) {
	var out []exhibitions.Exhibition
	for _, e := range f.shows {
		if e.ArtistID == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeBackfillStore) LinkArtworks(_ context.Context, ids []string, a artists.Artist) (int64, error) {
	var n int64
	for i := range f.works {
		for _, id := range ids {
			if f.works[i].ID == id && f.works[i].ArtistID == nil {
				f.works[i].StampArtist(a)
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeBackfillStore) LinkExhibitions(_ context.Context, ids []string, a artists.Artist) (int64, error) {
	var n int64
	for i := range f.shows {
		for _, id := range ids {
			if f.shows[i].ID == id && f.shows[i].ArtistID == nil {
				f.shows[i].StampArtist(a)
				n++
			}
		}
	}
	return n, nil
}

func TestBackfill(t *testing.T) {
	st := &fakeBackfillStore{
		artists: []artists.Artist{
			{ID: "monet", Slug: "claude-monet", Name: "Claude Monet"},
			{ID: "kim-1", Slug: "kim-min", Name: "Kim Min"},
			{ID: "kim-2", Slug: "kim-min-2", Name: "Kim Min"},
		},
		works: []artworks.Artwork{
			{ID: "w1", ArtistName: " claude  monet"},
			{ID: "w2", ArtistName: "Kim Min"},
			{ID: "w3", ArtistName: "Nobody"},
			{ID: "w4", ArtistID: ptr("monet"), ArtistName: "Claude Monet"},
		},
		shows: []exhibitions.Exhibition{
			{ID: "e1", ArtistName: "CLAUDE MONET"},
		},
	}

	report, err := Backfill(context.Background(), st, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.LinkedArtworks)
	assert.Equal(t, int64(1), report.LinkedExhibitions)
	assert.Equal(t, []string{"kim min"}, report.Ambiguous)
	assert.Equal(t, []string{"nobody"}, report.Unmatched)

	// after backfill, every uniquely named pair joins exactly once
	joined := Aggregate(st.artists, st.works, st.shows)
	monet := joined.Bundles[0]
	require.Equal(t, "monet", monet.Artist.ID)
	assert.Len(t, monet.Artworks, 2)
	assert.Len(t, monet.Exhibitions, 1)
	for _, b := range joined.Bundles[1:] {
		assert.Empty(t, b.Artworks, "homonyms are not merged")
	}
}

type fakeSource struct {
	artists   []artists.Artist
	works     []artworks.Artwork
	shows     []exhibitions.Exhibition
	artistErr error
	workErr   error
	showErr   error
}

func (f fakeSource) AllArtists(context.Context) ([]artists.Artist, error) {
	return f.artists, f.artistErr
}
func (f fakeSource) AllArtworks(context.Context) ([]artworks.Artwork, error) {
	return f.works, f.workErr
}
func (f fakeSource) AllExhibitions(context.Context) ([]exhibitions.Exhibition, error) {
	return f.shows, f.showErr
}

type memCache struct {
	mu   sync.Mutex
	snap *Snapshot
	sets int
}

func (m *memCache) Get(context.Context) (Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return Snapshot{}, false, nil
	}
	return *m.snap, true, nil
}

func (m *memCache) Set(_ context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = &s
	m.sets++
	return nil
}

func (m *memCache) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = nil
	return nil
}

func TestService_IndependentFallback(t *testing.T) {
	src := fakeSource{
		artists: []artists.Artist{{ID: "a1", Slug: "a-one", Name: "A One"}},
		works:   []artworks.Artwork{{ID: "w1", ArtistID: ptr("a1")}},
		showErr: errors.New("exhibitions table locked"),
	}
	cache := &memCache{}
	svc := NewService(src, cache, zap.NewNop())

	snap := svc.Bundles(context.Background())

	assert.True(t, snap.IsFallback)
	assert.Equal(t, []string{"exhibitions"}, snap.Failed)
	require.Len(t, snap.Bundles, 1)
	assert.Len(t, snap.Bundles[0].Artworks, 1, "successful lists are still joined")
	assert.Len(t, snap.OrphanExhibitions, 1, "fallback exhibition belongs to the demo artist")
	assert.Equal(t, 0, cache.sets, "fallback snapshots are not cached")
}

func TestService_AllFailIsNonEmpty(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(fakeSource{artistErr: boom, workErr: boom, showErr: boom}, nil, nil)

	snap := svc.Bundles(context.Background())
	assert.True(t, snap.IsFallback)
	require.Len(t, snap.Bundles, 1)
	assert.Len(t, snap.Bundles[0].Artworks, 1)
	assert.Len(t, snap.Bundles[0].Exhibitions, 1)
	assert.Error(t, svc.Warm(context.Background()))
}

func TestService_CachesCompleteSnapshot(t *testing.T) {
	src := fakeSource{artists: []artists.Artist{{ID: "a1", Slug: "a-one", Name: "A One"}}}
	cache := &memCache{}
	svc := NewService(src, cache, zap.NewNop())

	svc.Bundles(context.Background())
	svc.Bundles(context.Background())
	assert.Equal(t, 1, cache.sets)

	svc.Invalidate(context.Background())
	svc.Bundles(context.Background())
	assert.Equal(t, 2, cache.sets)
	assert.NoError(t, svc.Warm(context.Background()))
}

func TestService_Bundle(t *testing.T) {
	src := fakeSource{artists: []artists.Artist{{ID: "a1", Slug: "a-one", Name: "A One"}}}
	svc := NewService(src, nil, nil)

	b, fb, err := svc.Bundle(context.Background(), "a-one")
	require.NoError(t, err)
	assert.False(t, fb)
	assert.Equal(t, "a1", b.Artist.ID)

	_, _, err = svc.Bundle(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrArtistNotFound)
}
