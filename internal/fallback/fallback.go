// Package fallback holds the static demo data served when the database cannot be read.
// Every accessor returns fresh copies; callers may mutate the result.
package fallback

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fineart/internal/domain/articles"
	"fineart/internal/domain/artists"
	"fineart/internal/domain/artworks"
	"fineart/internal/domain/boards"
	"fineart/internal/domain/exhibitions"
)

const (
	artistID  = "00000000-0000-4000-8000-000000000001"
	artworkID = "00000000-0000-4000-8000-000000000101"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

// Artist is the single-item artist list.
func Artist() []artists.Artist {
	return []artists.Artist{{
		ID:          artistID,
		Slug:        "kim-hwan-gi",
		Name:        "Kim Whan-ki",
		Nationality: "Korea",
		Discipline:  "Painting",
		Bio:         "Pioneer of Korean abstract art, known for his dot paintings.",
		ImageURL:    "https://placehold.co/600x600?text=Kim+Whan-ki",
	}}
}

// Artwork is the single-item artwork list, linked to Artist.
func Artwork() []artworks.Artwork {
	return []artworks.Artwork{{
		ID:          artworkID,
		Title:       "Where, in What Form, Shall We Meet Again",
		Status:      artworks.StatusForSale,
		Price:       decimal.NewFromInt(1_200_000),
		ArtistID:    strPtr(artistID),
		ArtistName:  "Kim Whan-ki",
		ArtistSlug:  "kim-hwan-gi",
		MainTheme:   "abstract",
		Material:    "oil",
		SizeBucket:  "large",
		Width:       172,
		Height:      232,
		ImageURL:    "https://placehold.co/800x600?text=Artwork",
		Description: "Sample artwork shown while the catalog is unavailable.",
		IsRentable:  true,
		RentPrice:   decimal.NewFromInt(90_000),
	}}
}

// Exhibition is the single-item exhibition list used by the catalog join.
func Exhibition() []exhibitions.Exhibition {
	return Exhibitions()[:1]
}

// Exhibitions is the demo exhibition programme.
func Exhibitions() []exhibitions.Exhibition {
	return []exhibitions.Exhibition{
		{
			ID:          "00000000-0000-4000-8000-000000000201",
			Title:       "Dots and Distance",
			ArtistID:    strPtr(artistID),
			ArtistName:  "Kim Whan-ki",
			ArtistSlug:  "kim-hwan-gi",
			Location:    "Seoul, Hall 1",
			StartDate:   day(2024, 3, 1),
			EndDate:     day(2024, 6, 30),
			Description: "A survey of the late New York period.",
			ImageURL:    "https://placehold.co/800x500?text=Exhibition",
			Category:    exhibitions.CategorySolo,
		},
		{
			ID:          "00000000-0000-4000-8000-000000000202",
			Title:       "Surface Tension",
			ArtistName:  "Various artists",
			Location:    "Seoul, Hall 2",
			StartDate:   day(2024, 7, 1),
			EndDate:     day(2024, 9, 15),
			Description: "Young painters on material and texture.",
			ImageURL:    "https://placehold.co/800x500?text=Group+Show",
			Category:    exhibitions.CategoryGroup,
		},
		{
			ID:          "00000000-0000-4000-8000-000000000203",
			Title:       "Light Fields",
			ArtistName:  "Studio Lumen",
			Location:    "Online",
			StartDate:   day(2025, 1, 10),
			EndDate:     day(2025, 12, 31),
			Description: "Generative works streamed from the gallery server.",
			ImageURL:    "https://placehold.co/800x500?text=Digital",
			Category:    exhibitions.CategoryDigital,
		},
	}
}

// Boards covers every layout type.
func Boards() []boards.Board {
	return []boards.Board{
		{ID: "00000000-0000-4000-8000-000000000301", Name: "공지사항", Slug: "notice", LayoutType: boards.LayoutList, OrderIndex: 0, IsVisible: true},
		{ID: "00000000-0000-4000-8000-000000000302", Name: "자유게시판", Slug: "free", LayoutType: boards.LayoutCard, OrderIndex: 1, IsVisible: true},
		{ID: "00000000-0000-4000-8000-000000000303", Name: "갤러리", Slug: "gallery", LayoutType: boards.LayoutGallery, OrderIndex: 2, IsVisible: true},
		{ID: "00000000-0000-4000-8000-000000000304", Name: "미디어", Slug: "media", LayoutType: boards.LayoutMedia, OrderIndex: 3, IsVisible: true},
		{ID: "00000000-0000-4000-8000-000000000305", Name: "연혁", Slug: "timeline", LayoutType: boards.LayoutTimeline, OrderIndex: 4, IsVisible: true},
	}
}

// Board returns the demo board with slug, or a generic list board named after it.
func Board(slug string) boards.Board {
	for _, b := range Boards() {
		if b.Slug == slug {
			return b
		}
	}
	return boards.Board{ID: "00000000-0000-4000-8000-000000000399", Name: slug, Slug: slug, LayoutType: boards.LayoutList, IsVisible: true}
}

var samples = map[string][]articles.Article{
	"notice": {
		{Title: "전시 일정 안내", Content: "<p>새 전시가 곧 시작됩니다.</p>", Writer: "관리자", Category: articles.CategoryNotice, IsPinned: true, CreatedAt: day(2024, 3, 1)},
		{Title: "휴관 안내", Content: "<p>월요일은 휴관합니다.</p>", Writer: "관리자", Category: articles.CategoryNotice, CreatedAt: day(2024, 2, 1)},
	},
	"gallery": {
		{Title: "Opening night", Content: `<p><img src="https://placehold.co/600x400?text=Opening"></p>`, Writer: "curator", Category: articles.CategoryGeneral, CreatedAt: day(2024, 3, 2)},
		{Title: "Install view", Content: `<p><img src="https://placehold.co/600x400?text=Install"></p>`, Writer: "curator", Category: articles.CategoryGeneral, CreatedAt: day(2024, 3, 3)},
	},
	"media": {
		{Title: "Artist talk", Content: "<p>Recording of the artist talk.</p>", Writer: "curator", Category: articles.CategoryGeneral, ImageURL: "https://placehold.co/960x540?text=Talk", CreatedAt: day(2024, 4, 5)},
	},
	"timeline": {
		{Title: "Gallery founded", Content: "<p>The gallery opens its doors.</p>", Writer: "archive", Category: articles.CategoryGeneral, CreatedAt: day(2019, 9, 1)},
		{Title: "First international fair", Content: "<p>Booth at an international art fair.</p>", Writer: "archive", Category: articles.CategoryGeneral, CreatedAt: day(2022, 10, 12)},
	},
}

// Articles returns sample articles for the board. Unknown slugs get a generic
// sample, so the list is never empty.
func Articles(boardSlug string) []articles.Article {
	b := Board(boardSlug)
	src, ok := samples[boardSlug]
	if !ok {
		src = []articles.Article{{
			Title:    "게시판 준비 중",
			Content:  "<p>게시글을 불러올 수 없어 예시 글을 보여드립니다.</p>",
			Writer:   "관리자",
			Category: articles.CategoryGeneral,
		}}
	}

	out := make([]articles.Article, len(src))
	for i, a := range src {
		a.ID = fmt.Sprintf("fallback-%s-%d", b.Slug, i+1)
		a.BoardID = b.ID
		a.BoardSlug = b.Slug
		out[i] = a
	}
	return out
}
