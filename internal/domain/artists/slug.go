package artists

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

// MakeSlug generates a URL-safe slug from an artist name.
// Example: "Claude Monet" -> "claude-monet". Names with no latin letters or digits
// (e.g. Hangul) get a stable "artist-<hash>" slug instead.
func MakeSlug(name string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMark))
	base, _, err := transform.String(t, name)
	if err != nil {
		base = name
	}

	base = strings.ToLower(strings.TrimSpace(base))
	base = strings.Join(strings.Fields(base), "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.TrimSpace(name)))
		return fmt.Sprintf("artist-%08x", h.Sum32())
	}
	return base
}

// EnsureSlug fills Slug from Name when it is empty.
func (a *Artist) EnsureSlug() {
	if strings.TrimSpace(a.Slug) == "" {
		a.Slug = MakeSlug(a.Name)
		return
	}
	a.Slug = strings.TrimSpace(a.Slug)
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
