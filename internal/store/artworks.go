package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"fineart/internal/domain/artists"
	"fineart/internal/domain/artworks"
	"fineart/internal/listing"
)

var errNotFound = gorm.ErrRecordNotFound

var artworkSorts = newSortSpec("created_at", "updated_at", "title", "price", "rent_price", "artist_name", "status")

func artworkQuery(db *gorm.DB, f listing.Filter) *gorm.DB {
	q := db.Model(&artworks.Artwork{})
	q = applyKeyword(q, f.Keyword, "title", "artist_name", "main_theme", "material")
	if f.Category != "" {
		q = q.Where("main_theme = ?", f.Category)
	}
	if f.Size != "" {
		q = q.Where("size_bucket = ?", f.Size)
	}
	if len(f.Materials) > 0 {
		q = q.Where("LOWER(material) IN ?", f.Materials)
	}
	if f.PriceMin != nil {
		q = q.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("price <= ?", *f.PriceMax)
	}
	if f.RentableOnly {
		q = q.Where("is_rentable = ?", true).Where("status <> ?", artworks.StatusSold)
	}
	if st, ok := artworks.ParseStatus(f.Status); ok {
		q = q.Where("status = ?", st)
	}
	return q
}

// ListArtworks returns one page of the sales catalog and the total match count.
func (s *Store) ListArtworks(ctx context.Context, q listing.Query) ([]artworks.Artwork, int64, error) {
	base := func() *gorm.DB { return artworkQuery(s.db.WithContext(ctx), q.Filter) }
	order := func(db *gorm.DB) *gorm.DB { return applyOrder(db, artworkSorts, q.Filter.Sort, q.Filter.Ascending) }
	return paginate[artworks.Artwork](base, order, q.Page, q.PageSize)
}

func (s *Store) AllArtworks(ctx context.Context) ([]artworks.Artwork, error) {
	items := []artworks.Artwork{}
	err := s.db.WithContext(ctx).Order("created_at desc").Order("id asc").Find(&items).Error
	return items, err
}

func (s *Store) GetArtwork(ctx context.Context, id string) (artworks.Artwork, error) {
	var a artworks.Artwork
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	return a, err
}

// stampArtist resolves artistID and copies its name/slug onto the record.
func (s *Store) stampArtist(ctx context.Context, artistID *string, stamp func(artists.Artist)) error {
	if artistID == nil || strings.TrimSpace(*artistID) == "" {
		return ErrArtistRequired
	}
	artist, err := s.GetArtist(ctx, *artistID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrArtistRequired
	}
	if err != nil {
		return err
	}
	stamp(artist)
	return nil
}

func (s *Store) CreateArtwork(ctx context.Context, a *artworks.Artwork) error {
	if err := s.stampArtist(ctx, a.ArtistID, a.StampArtist); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *Store) UpdateArtwork(ctx context.Context, a *artworks.Artwork) error {
	if err := s.stampArtist(ctx, a.ArtistID, a.StampArtist); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&artworks.Artwork{}).Where("id = ?", a.ID).
		Select("title", "status", "price", "artist_id", "artist_name", "artist_slug",
			"main_theme", "material", "size_bucket", "width", "height",
			"image_url", "description", "is_rentable", "rent_price", "updated_at").
		Updates(a)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

func (s *Store) DeleteArtwork(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&artworks.Artwork{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

// MarkArtworkSold flips a ForSale or Rentable artwork to Sold.
func (s *Store) MarkArtworkSold(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&artworks.Artwork{}).
		Where("id = ? AND status <> ?", id, artworks.StatusSold).
		Update("status", artworks.StatusSold).Error
}

// OrphanArtworks lists artworks with no artist link, for the backfill.
func (s *Store) OrphanArtworks(ctx context.Context) ([]artworks.Artwork, error) {
	items := []artworks.Artwork{}
	err := s.db.WithContext(ctx).Where("artist_id IS NULL").Order("id asc").Find(&items).Error
	return items, err
}

// LinkArtworks sets the artist link on the given artworks.
func (s *Store) LinkArtworks(ctx context.Context, ids []string, artist artists.Artist) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Model(&artworks.Artwork{}).
		Where("id IN ? AND artist_id IS NULL", ids).
		Updates(map[string]any{"artist_id": artist.ID, "artist_name": artist.Name, "artist_slug": artist.Slug})
	return res.RowsAffected, res.Error
}
