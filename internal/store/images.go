package store

import (
	"context"

	"fineart/internal/domain/media"
)

func (s *Store) CreateImage(ctx context.Context, img *media.Image) error {
	return s.db.WithContext(ctx).Create(img).Error
}
