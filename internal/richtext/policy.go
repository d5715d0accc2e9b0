package richtext

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	cssLength = regexp.MustCompile(`^(auto|0|\d+(\.\d+)?(px|%|em|rem)?)$`)
	cssMargin = regexp.MustCompile(`^(auto|0|-?\d+(\.\d+)?(px|%|em|rem)?)( (auto|0|-?\d+(\.\d+)?(px|%|em|rem)?)){0,3}$`)
	integer   = regexp.MustCompile(`^\d+$`)
	editorCls = regexp.MustCompile(`^(ql-[a-z0-9-]+)( ql-[a-z0-9-]+)*$`)
)

// Policy is the rich-content policy: user-generated content plus the image size and
// alignment styles the editor writes.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("width", "height").Matching(integer).OnElements("img")
		p.AllowAttrs("data-align").Matching(regexp.MustCompile(`^(left|center|right)$`)).OnElements("img")
		p.AllowStyles("width", "height").Matching(cssLength).OnElements("img")
		p.AllowStyles("margin", "margin-left", "margin-right").Matching(cssMargin).OnElements("img")
		p.AllowStyles("float").MatchingEnum("left", "right", "none").OnElements("img")
		p.AllowStyles("display").MatchingEnum("block", "inline", "inline-block").OnElements("img")
		p.AllowStyles("text-align").MatchingEnum("left", "center", "right", "justify").OnElements("img", "p", "h1", "h2", "h3")
		p.AllowAttrs("class").Matching(editorCls).OnElements("p", "span", "h1", "h2", "h3", "li", "pre")
		policy = p
	})
	return policy
}

// Sanitize applies Policy.
func Sanitize(content string) string {
	return Policy().Sanitize(content)
}

// Normalize sanitises content and rewrites every image so that legacy inline
// alignment is persisted in the canonical form with data-align.
func Normalize(content string) (string, error) {
	doc, err := Parse(Sanitize(content))
	if err != nil {
		return "", err
	}
	for _, img := range doc.Images() {
		attrs := img.Attrs()
		if attrs.Align == AlignNone {
			continue
		}
		img.Apply(attrs)
	}
	return doc.HTML()
}

// EditImage applies a change to the index-th image and returns the new HTML.
func EditImage(content string, index int, edit func(Image) Image) (string, Image, error) {
	doc, err := Parse(content)
	if err != nil {
		return "", Image{}, err
	}
	ref, ok := doc.Image(index)
	if !ok {
		return "", Image{}, ErrNoSuchImage
	}
	next := edit(ref.Attrs())
	ref.Apply(next)
	out, err := doc.HTML()
	if err != nil {
		return "", Image{}, err
	}
	return out, ref.Attrs(), nil
}
