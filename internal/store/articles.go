package store

import (
	"context"

	"gorm.io/gorm"

	"fineart/internal/domain/articles"
	"fineart/internal/listing"
)

var articleSorts = newSortSpec("created_at", "updated_at", "title", "views", "writer")

func articleQuery(db *gorm.DB, boardID string, f listing.Filter) *gorm.DB {
	q := db.Model(&articles.Article{}).Where("board_id = ?", boardID)
	q = applyKeyword(q, f.Keyword, "title", "content", "writer")
	if f.Category != "" {
		q = q.Where("category = ?", articles.NormalizeCategory(f.Category))
	}
	return q
}

// ListArticles returns one page of a board's articles, pinned first.
func (s *Store) ListArticles(ctx context.Context, boardID string, q listing.Query) ([]articles.Article, int64, error) {
	base := func() *gorm.DB { return articleQuery(s.db.WithContext(ctx), boardID, q.Filter) }
	order := func(db *gorm.DB) *gorm.DB {
		return applyOrder(db.Order("is_pinned desc"), articleSorts, q.Filter.Sort, q.Filter.Ascending)
	}
	return paginate[articles.Article](base, order, q.Page, q.PageSize)
}

func (s *Store) GetArticle(ctx context.Context, id string) (articles.Article, error) {
	var a articles.Article
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	return a, err
}

func (s *Store) IncrementArticleViews(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&articles.Article{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (s *Store) CreateArticle(ctx context.Context, a *articles.Article) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *Store) UpdateArticle(ctx context.Context, a *articles.Article) error {
	res := s.db.WithContext(ctx).Model(&articles.Article{}).Where("id = ?", a.ID).
		Select("title", "content", "category", "image_url", "thumbnail_url", "is_pinned", "updated_at").
		Updates(a)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

// UpdateArticleContent stores re-serialised HTML after an image edit.
func (s *Store) UpdateArticleContent(ctx context.Context, id, content string) error {
	res := s.db.WithContext(ctx).Model(&articles.Article{}).Where("id = ?", id).
		Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&articles.Article{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}
