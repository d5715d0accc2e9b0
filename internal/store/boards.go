package store

import (
	"context"

	"fineart/internal/domain/boards"
)

func (s *Store) ListBoards(ctx context.Context) ([]boards.Board, error) {
	items := []boards.Board{}
	err := s.db.WithContext(ctx).Order("order_index asc").Order("name asc").Find(&items).Error
	return items, err
}

func (s *Store) GetBoardBySlug(ctx context.Context, slug string) (boards.Board, error) {
	var b boards.Board
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&b).Error
	return b, err
}

func (s *Store) GetBoard(ctx context.Context, id string) (boards.Board, error) {
	var b boards.Board
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	return b, err
}

// checkParent rejects a parent that does not exist or would close a cycle.
func (s *Store) checkParent(ctx context.Context, id string, parentID *string) error {
	if parentID == nil || *parentID == "" {
		return nil
	}
	all, err := s.ListBoards(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, b := range all {
		if b.ID == *parentID {
			found = true
			break
		}
	}
	if !found || boards.WouldCycle(all, id, *parentID) {
		return ErrInvalidParent
	}
	return nil
}

func (s *Store) CreateBoard(ctx context.Context, b *boards.Board) error {
	return s.InTx(ctx, func(tx *Store) error {
		if err := tx.checkParent(ctx, b.ID, b.ParentID); err != nil {
			return err
		}
		return tx.db.Create(b).Error
	})
}

func (s *Store) UpdateBoard(ctx context.Context, b *boards.Board) error {
	return s.InTx(ctx, func(tx *Store) error {
		if err := tx.checkParent(ctx, b.ID, b.ParentID); err != nil {
			return err
		}
		res := tx.db.Model(&boards.Board{}).Where("id = ?", b.ID).
			Select("name", "slug", "description", "layout_type", "order_index",
				"parent_id", "is_visible", "image_url", "updated_at").
			Updates(b)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotFound
		}
		return tx.db.Table("articles").Where("board_id = ?", b.ID).Update("board_slug", b.Slug).Error
	})
}

func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&boards.Board{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

// ReorderBoards sets order_index to each id's position in ids.
func (s *Store) ReorderBoards(ctx context.Context, ids []string) error {
	return s.InTx(ctx, func(tx *Store) error {
		for i, id := range ids {
			res := tx.db.Model(&boards.Board{}).Where("id = ?", id).Update("order_index", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errNotFound
			}
		}
		return nil
	})
}

// RewriteLegacyLayouts moves boards still stored with the old table layout to list.
func (s *Store) RewriteLegacyLayouts(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Model(&boards.Board{}).
		Where("layout_type = ?", boards.LegacyTableLayout).
		Update("layout_type", boards.LayoutList)
	return res.RowsAffected, res.Error
}
