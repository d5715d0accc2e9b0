package store

import (
	"context"

	"fineart/internal/domain/artists"
)

var artistSorts = newSortSpec("name", "created_at", "updated_at", "nationality", "slug")

func (s *Store) ListArtists(ctx context.Context, keyword string) ([]artists.Artist, error) {
	q := applyKeyword(s.db.WithContext(ctx).Model(&artists.Artist{}), keyword, "name", "nationality", "discipline")
	items := []artists.Artist{}
	if err := applyOrder(q, artistSorts, "name", true).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetArtist(ctx context.Context, id string) (artists.Artist, error) {
	var a artists.Artist
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	return a, err
}

func (s *Store) GetArtistBySlug(ctx context.Context, slug string) (artists.Artist, error) {
	var a artists.Artist
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&a).Error
	return a, err
}

func (s *Store) CreateArtist(ctx context.Context, a *artists.Artist) error {
	a.EnsureSlug()
	return s.db.WithContext(ctx).Create(a).Error
}

// UpdateArtist saves a and re-stamps the denormalised name/slug on linked artworks
// and exhibitions.
func (s *Store) UpdateArtist(ctx context.Context, a *artists.Artist) error {
	a.EnsureSlug()
	return s.InTx(ctx, func(tx *Store) error {
		res := tx.db.Model(&artists.Artist{}).Where("id = ?", a.ID).
			Select("slug", "name", "nationality", "discipline", "bio", "image_url", "updated_at").
			Updates(a)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotFound
		}
		stamp := map[string]any{"artist_name": a.Name, "artist_slug": a.Slug}
		if err := tx.db.Table("artworks").Where("artist_id = ?", a.ID).Updates(stamp).Error; err != nil {
			return err
		}
		return tx.db.Table("exhibitions").Where("artist_id = ?", a.ID).Updates(stamp).Error
	})
}

func (s *Store) DeleteArtist(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&artists.Artist{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

// AllArtists is the unfiltered list used by catalog aggregation and backfill.
func (s *Store) AllArtists(ctx context.Context) ([]artists.Artist, error) {
	items := []artists.Artist{}
	err := s.db.WithContext(ctx).Order("name asc").Order("id asc").Find(&items).Error
	return items, err
}
