package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fineart/internal/domain/artists"
	"fineart/internal/domain/exhibitions"
	"fineart/internal/listing"
)

var exhibitionSorts = newSortSpec("start_date", "end_date", "title", "artist_name", "created_at")

func exhibitionQuery(db *gorm.DB, f listing.Filter, now time.Time) *gorm.DB {
	q := db.Model(&exhibitions.Exhibition{})
	q = applyKeyword(q, f.Keyword, "title", "artist_name", "location")
	if c, ok := exhibitions.ParseCategory(f.Category); ok {
		q = q.Where("category = ?", c)
	}

	today := now.UTC().Format(time.DateOnly)
	switch exhibitions.Phase(f.When) {
	case exhibitions.PhaseCurrent:
		q = q.Where("start_date <= ?", today).Where("(end_date IS NULL OR end_date >= ?)", today)
	case exhibitions.PhaseUpcoming:
		q = q.Where("start_date > ?", today)
	case exhibitions.PhasePast:
		q = q.Where("end_date < ?", today)
	}
	return q
}

func (s *Store) ListExhibitions(ctx context.Context, q listing.Query) ([]exhibitions.Exhibition, int64, error) {
	now := s.now()
	base := func() *gorm.DB { return exhibitionQuery(s.db.WithContext(ctx), q.Filter, now) }
	order := func(db *gorm.DB) *gorm.DB {
		return applyOrder(db, exhibitionSorts, q.Filter.Sort, q.Filter.Ascending)
	}
	return paginate[exhibitions.Exhibition](base, order, q.Page, q.PageSize)
}

func (s *Store) AllExhibitions(ctx context.Context) ([]exhibitions.Exhibition, error) {
	items := []exhibitions.Exhibition{}
	err := s.db.WithContext(ctx).Order("start_date desc").Order("id asc").Find(&items).Error
	return items, err
}

func (s *Store) GetExhibition(ctx context.Context, id string) (exhibitions.Exhibition, error) {
	var e exhibitions.Exhibition
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	return e, err
}

func (s *Store) CreateExhibition(ctx context.Context, e *exhibitions.Exhibition) error {
	if err := s.stampArtist(ctx, e.ArtistID, e.StampArtist); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *Store) UpdateExhibition(ctx context.Context, e *exhibitions.Exhibition) error {
	if err := s.stampArtist(ctx, e.ArtistID, e.StampArtist); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&exhibitions.Exhibition{}).Where("id = ?", e.ID).
		Select("title", "artist_id", "artist_name", "artist_slug", "location",
			"start_date", "end_date", "description", "image_url", "category", "updated_at").
		Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

func (s *Store) DeleteExhibition(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&exhibitions.Exhibition{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

func (s *Store) OrphanExhibitions(ctx context.Context) ([]exhibitions.Exhibition, error) {
	items := []exhibitions.Exhibition{}
	err := s.db.WithContext(ctx).Where("artist_id IS NULL").Order("id asc").Find(&items).Error
	return items, err
}

func (s *Store) LinkExhibitions(ctx context.Context, ids []string, artist artists.Artist) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Model(&exhibitions.Exhibition{}).
		Where("id IN ? AND artist_id IS NULL", ids).
		Updates(map[string]any{"artist_id": artist.ID, "artist_name": artist.Name, "artist_slug": artist.Slug})
	return res.RowsAffected, res.Error
}
