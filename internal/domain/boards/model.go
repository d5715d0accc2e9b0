package boards

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// LayoutType selects how a board's article list is rendered.
type LayoutType string

const (
	LayoutList     LayoutType = "list"
	LayoutGallery  LayoutType = "gallery"
	LayoutMedia    LayoutType = "media"
	LayoutTimeline LayoutType = "timeline"
	LayoutCard     LayoutType = "card"
)

// LegacyTableLayout is only recognised by the migration that rewrites it to LayoutList.
const LegacyTableLayout = "table"

var Layouts = []LayoutType{LayoutList, LayoutGallery, LayoutMedia, LayoutTimeline, LayoutCard}

// ParseLayoutType accepts the canonical names only. Empty means list.
func ParseLayoutType(s string) (LayoutType, error) {
	v := LayoutType(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return LayoutList, nil
	}
	for _, l := range Layouts {
		if v == l {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown layout type %q", s)
}

type Board struct {
	ID          string     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Slug        string     `gorm:"not null;uniqueIndex" json:"slug"`
	Description string     `json:"description,omitempty"`
	LayoutType  LayoutType `gorm:"type:text;not null;default:'list'" json:"layoutType"`
	OrderIndex  int        `gorm:"not null;default:0;index" json:"orderIndex"`
	ParentID    *string    `gorm:"type:uuid;index" json:"parentId,omitempty"`
	Children    []Board    `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL;" json:"-"`
	IsVisible   bool       `gorm:"not null" json:"isVisible"`
	ImageURL    string     `json:"imageUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var slugPattern = validation.Match(regexp.MustCompile(`^[a-z0-9][a-z0-9\-_]*$`))

func (b Board) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&b.Slug, validation.Required, validation.Length(1, 80), slugPattern),
		validation.Field(&b.LayoutType, validation.Required, validation.In(LayoutList, LayoutGallery, LayoutMedia, LayoutTimeline, LayoutCard)),
		validation.Field(&b.OrderIndex, validation.Min(0)),
	)
}
