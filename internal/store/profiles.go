package store

import (
	"context"

	"gorm.io/gorm"

	"fineart/internal/domain/profiles"
	"fineart/internal/listing"
)

func (s *Store) GetProfile(ctx context.Context, id string) (profiles.Profile, error) {
	var p profiles.Profile
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return p, err
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (profiles.Profile, error) {
	var p profiles.Profile
	err := s.db.WithContext(ctx).Where("email = ?", profiles.NormalizeEmail(email)).First(&p).Error
	return p, err
}

func (s *Store) GetProfileByGoogleSub(ctx context.Context, sub string) (profiles.Profile, error) {
	var p profiles.Profile
	err := s.db.WithContext(ctx).Where("google_sub = ?", sub).First(&p).Error
	return p, err
}

func (s *Store) CreateProfile(ctx context.Context, p *profiles.Profile) error {
	p.Email = profiles.NormalizeEmail(p.Email)
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) UpdatePassword(ctx context.Context, id, hash string) error {
	res := s.db.WithContext(ctx).Model(&profiles.Profile{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

// LinkGoogle attaches a Google subject to an existing local account.
func (s *Store) LinkGoogle(ctx context.Context, id, sub string) error {
	return s.db.WithContext(ctx).Model(&profiles.Profile{}).Where("id = ?", id).
		Update("google_sub", sub).Error
}

var profileSorts = newSortSpec("created_at", "email", "name", "role")

// ListProfiles pages through accounts for the admin console; the keyword matches email or name.
func (s *Store) ListProfiles(ctx context.Context, q listing.Query) ([]profiles.Profile, int64, error) {
	base := func() *gorm.DB {
		return applyKeyword(s.db.WithContext(ctx).Model(&profiles.Profile{}), q.Filter.Keyword, "email", "name")
	}
	order := func(db *gorm.DB) *gorm.DB {
		return applyOrder(db, profileSorts, q.Filter.Sort, q.Filter.Ascending)
	}
	return paginate[profiles.Profile](base, order, q.Page, q.PageSize)
}

func (s *Store) SetProfileRole(ctx context.Context, id, role string) error {
	res := s.db.WithContext(ctx).Model(&profiles.Profile{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}
