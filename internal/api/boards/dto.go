package boards

import (
	"strings"

	"fineart/internal/domain/boards"
)

type BoardRequest struct {
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug" binding:"required"`
	Description string  `json:"description"`
	LayoutType  string  `json:"layoutType"`
	OrderIndex  int     `json:"orderIndex"`
	ParentID    *string `json:"parentId"`
	IsVisible   *bool   `json:"isVisible"`
	ImageURL    string  `json:"imageUrl"`
}

func (r BoardRequest) apply(b *boards.Board) error {
	layoutType, err := boards.ParseLayoutType(r.LayoutType)
	if err != nil {
		return err
	}

	b.Name = strings.TrimSpace(r.Name)
	b.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	b.Description = r.Description
	b.LayoutType = layoutType
	b.OrderIndex = r.OrderIndex
	b.ParentID = nil
	if r.ParentID != nil && strings.TrimSpace(*r.ParentID) != "" {
		id := strings.TrimSpace(*r.ParentID)
		b.ParentID = &id
	}
	b.IsVisible = r.IsVisible == nil || *r.IsVisible
	b.ImageURL = r.ImageURL
	return nil
}
