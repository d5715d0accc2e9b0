package articles

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	CategoryNotice  = "notice"
	CategoryGeneral = "general"
)

var noticeAliases = map[string]struct{}{
	"notice":       {},
	"공지":           {},
	"공지사항":         {},
	"announcement": {},
	"news":         {},
}

// NormalizeCategory folds free-form category labels into notice or general.
func NormalizeCategory(s string) string {
	if _, ok := noticeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return CategoryNotice
	}
	return CategoryGeneral
}

type Article struct {
	ID           string  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BoardID      string  `gorm:"type:uuid;not null;index" json:"boardId"`
	BoardSlug    string  `gorm:"index" json:"boardSlug"`
	Title        string  `gorm:"not null" json:"title"`
	Content      string  `gorm:"type:text" json:"content"`
	Writer       string  `json:"writer"`
	Email        string  `json:"email,omitempty"`
	AuthorID     *string `gorm:"type:uuid;index" json:"authorId,omitempty"`
	Category     string  `gorm:"not null;default:'general'" json:"category"`
	Views        int     `gorm:"not null;default:0" json:"views"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	ThumbnailURL string  `json:"thumbnailUrl,omitempty"`
	IsPinned     bool    `gorm:"not null;default:false;index" json:"isPinned"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Created returns nil for rows that never had a creation date.
func (a Article) Created() *time.Time {
	if a.CreatedAt.IsZero() {
		return nil
	}
	t := a.CreatedAt
	return &t
}

// OwnedBy reports whether profileID authored the article.
func (a Article) OwnedBy(profileID string) bool {
	return a.AuthorID != nil && *a.AuthorID != "" && *a.AuthorID == profileID
}

func (a Article) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.BoardID, validation.Required),
		validation.Field(&a.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&a.Category, validation.In(CategoryNotice, CategoryGeneral)),
		validation.Field(&a.Views, validation.Min(0)),
	)
}
