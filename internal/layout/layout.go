package layout

import (
	"time"

	"fineart/internal/domain/articles"
	"fineart/internal/domain/boards"
)

type Type = boards.LayoutType

// ParseType accepts the canonical layout names only; the old "table" alias is rejected.
func ParseType(s string) (Type, error) { return boards.ParseLayoutType(s) }

// Item is one article as every layout sees it.
type Item struct {
	ID           string     `json:"id"`
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	Writer       string     `json:"writer"`
	Category     string     `json:"category"`
	Views        int        `json:"views"`
	IsPinned     bool       `json:"isPinned"`
	CreatedAt    *time.Time `json:"createdAt"`
	Excerpt      string     `json:"excerpt"`
	ThumbnailURL string     `json:"thumbnailUrl"`
}

// Group is a timeline bucket keyed by YYYY-MM ("undated" for missing dates).
type Group struct {
	Key   string `json:"key"`
	Items []Item `json:"items"`
}

// View is the rendered shape; only the fields of View.Layout are set.
type View struct {
	Layout Type     `json:"layout"`
	Rows   []Item   `json:"rows,omitempty"`
	Grid   [][]Item `json:"grid,omitempty"`
	Lead   *Item    `json:"lead,omitempty"`
	Rest   []Item   `json:"rest,omitempty"`
	Groups []Group  `json:"groups,omitempty"`
	Cards  []Item   `json:"cards,omitempty"`
}

// Meta is the board context a renderer needs. Offset numbers rows across pages.
type Meta struct {
	Board  boards.Board
	Offset int
}

type Renderer interface {
	Type() Type
	Render(m Meta, list []articles.Article) View
}

var renderers = map[Type]Renderer{
	boards.LayoutList:     listRenderer{},
	boards.LayoutGallery:  galleryRenderer{columns: 3},
	boards.LayoutMedia:    mediaRenderer{},
	boards.LayoutTimeline: timelineRenderer{},
	boards.LayoutCard:     cardRenderer{},
}

// Select returns the renderer for t. Unknown or empty types render as a list.
func Select(t Type) Renderer {
	if r, ok := renderers[t]; ok {
		return r
	}
	return renderers[boards.LayoutList]
}

// Render sorts and renders a board page with the board's own layout.
func Render(m Meta, list []articles.Article) View {
	return Select(m.Board.LayoutType).Render(m, list)
}

func items(m Meta, list []articles.Article) []Item {
	sorted := SortPinnedFirst(list)
	out := make([]Item, len(sorted))
	for i, a := range sorted {
		out[i] = Item{
			ID:           a.ID,
			Number:       m.Offset + i + 1,
			Title:        a.Title,
			Writer:       a.Writer,
			Category:     a.Category,
			Views:        a.Views,
			IsPinned:     a.IsPinned,
			CreatedAt:    a.Created(),
			Excerpt:      Excerpt(a.Content, ExcerptLength),
			ThumbnailURL: Thumbnail(a, m.Board),
		}
	}
	return out
}

type listRenderer struct{}

func (listRenderer) Type() Type { return boards.LayoutList }

func (listRenderer) Render(m Meta, list []articles.Article) View {
	return View{Layout: boards.LayoutList, Rows: items(m, list)}
}

type galleryRenderer struct{ columns int }

func (galleryRenderer) Type() Type { return boards.LayoutGallery }

func (g galleryRenderer) Render(m Meta, list []articles.Article) View {
	all := items(m, list)
	grid := make([][]Item, 0, (len(all)+g.columns-1)/g.columns)
	for start := 0; start < len(all); start += g.columns {
		end := min(start+g.columns, len(all))
		grid = append(grid, all[start:end])
	}
	return View{Layout: boards.LayoutGallery, Grid: grid}
}

type mediaRenderer struct{}

func (mediaRenderer) Type() Type { return boards.LayoutMedia }

func (mediaRenderer) Render(m Meta, list []articles.Article) View {
	all := items(m, list)
	v := View{Layout: boards.LayoutMedia}
	if len(all) == 0 {
		return v
	}
	lead := all[0]
	v.Lead = &lead
	v.Rest = all[1:]
	return v
}

type timelineRenderer struct{}

func (timelineRenderer) Type() Type { return boards.LayoutTimeline }

func (timelineRenderer) Render(m Meta, list []articles.Article) View {
	v := View{Layout: boards.LayoutTimeline}
	index := map[string]int{}
	for _, it := range items(m, list) {
		key := "undated"
		if it.CreatedAt != nil {
			key = it.CreatedAt.Format("2006-01")
		}
		i, ok := index[key]
		if !ok {
			i = len(v.Groups)
			index[key] = i
			v.Groups = append(v.Groups, Group{Key: key})
		}
		v.Groups[i].Items = append(v.Groups[i].Items, it)
	}
	return v
}

type cardRenderer struct{}

func (cardRenderer) Type() Type { return boards.LayoutCard }

func (cardRenderer) Render(m Meta, list []articles.Article) View {
	return View{Layout: boards.LayoutCard, Cards: items(m, list)}
}
