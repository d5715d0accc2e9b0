// Package layout turns a board's articles into the view shape of its layout type.
package layout

import (
	"html"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"

	"fineart/internal/domain/articles"
	"fineart/internal/domain/boards"
)

const ExcerptLength = 160

var strip = bluemonday.StrictPolicy()

// Excerpt strips markup, collapses whitespace and caps the text at limit runes,
// appending "…" when it was cut.
func Excerpt(content string, limit int) string {
	if limit <= 0 {
		limit = ExcerptLength
	}
	text := html.UnescapeString(strip.Sanitize(content))
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:limit]), " ") + "…"
}

// SortPinnedFirst orders pinned articles first, then newest first.
// Articles without a creation date follow the dated ones and keep their input order.
func SortPinnedFirst(list []articles.Article) []articles.Article {
	out := append([]articles.Article(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		ca, cb := a.Created(), b.Created()
		switch {
		case ca == nil:
			return false
		case cb == nil:
			return true
		}
		return ca.After(*cb)
	})
	return out
}

// FirstImage returns the src of the first <img> in content.
func FirstImage(content string) string {
	z := xhtml.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return ""
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "img" {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key == "src" && strings.TrimSpace(attr.Val) != "" {
					return strings.TrimSpace(attr.Val)
				}
			}
		}
	}
}

// Placeholder builds a generated image URL labelled with text.
func Placeholder(text string) string {
	label := strings.TrimSpace(text)
	if utf8.RuneCountInString(label) > 24 {
		label = string([]rune(label)[:24])
	}
	if label == "" {
		label = "FineArt"
	}
	return "https://placehold.co/600x400?text=" + url.QueryEscape(label)
}

// Thumbnail picks the article's own image, then the first image in its content,
// then the board image, then a generated placeholder.
func Thumbnail(a articles.Article, b boards.Board) string {
	for _, candidate := range []string{a.ThumbnailURL, a.ImageURL, FirstImage(a.Content), b.ImageURL} {
		if c := strings.TrimSpace(candidate); c != "" {
			return c
		}
	}
	return Placeholder(a.Title)
}
