package richtext

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

type Align string

const (
	AlignNone   Align = ""
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

func ParseAlign(s string) (Align, bool) {
	switch a := Align(strings.ToLower(strings.TrimSpace(s))); a {
	case AlignNone, AlignLeft, AlignCenter, AlignRight:
		return a, true
	}
	return AlignNone, false
}

// Image is the editable state of one <img>.
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Align  Align  `json:"align,omitempty"`
}

// ImageRef points at an <img> node inside a Document.
type ImageRef struct {
	node *html.Node
}

// alignment properties owned by the image module
var alignProps = []string{"float", "margin", "margin-left", "margin-right", "text-align", "display"}

// Attrs reads the image back. data-align is canonical; legacy markup without it is
// interpreted from its inline style.
func (r *ImageRef) Attrs() Image {
	n := r.node
	style := parseStyle(attr(n, "style"))

	img := Image{
		Src:    attr(n, "src"),
		Alt:    attr(n, "alt"),
		Width:  dimension(attr(n, "width")),
		Height: dimension(attr(n, "height")),
	}
	if v, ok := style.get("width"); ok && img.Width == 0 {
		img.Width = dimension(v)
	}
	if v, ok := style.get("height"); ok && img.Height == 0 {
		img.Height = dimension(v)
	}

	if v, ok := getAttr(n, "data-align"); ok {
		if a, valid := ParseAlign(v); valid && a != AlignNone {
			img.Align = a
			return img
		}
	}
	img.Align = legacyAlign(style)
	return img
}

// legacyAlign infers alignment from inline CSS written by older editors.
func legacyAlign(style styleSet) Align {
	if v, ok := style.get("float"); ok {
		switch strings.ToLower(v) {
		case "left":
			return AlignLeft
		case "right":
			return AlignRight
		}
	}

	left, right := style.margins()
	switch {
	case left == "auto" && right == "auto":
		return AlignCenter
	case left == "auto":
		return AlignRight
	case right == "auto":
		return AlignLeft
	}

	if v, ok := style.get("text-align"); ok {
		if a, valid := ParseAlign(v); valid {
			return a
		}
	}
	return AlignNone
}

// Apply writes img onto the node: size as attributes and inline style, alignment as
// canonical margins mirrored into data-align. An empty Src keeps the current one.
func (r *ImageRef) Apply(img Image) {
	n := r.node
	if img.Src != "" {
		setAttr(n, "src", img.Src)
	}
	if img.Alt != "" {
		setAttr(n, "alt", img.Alt)
	}

	style := parseStyle(attr(n, "style")).without(alignProps...)

	if img.Width > 0 {
		setAttr(n, "width", strconv.Itoa(img.Width))
		style = style.set("width", strconv.Itoa(img.Width)+"px")
	}
	if img.Height > 0 {
		setAttr(n, "height", strconv.Itoa(img.Height))
		style = style.set("height", strconv.Itoa(img.Height)+"px")
	}

	switch img.Align {
	case AlignLeft:
		style = style.set("display", "block").set("margin-left", "0").set("margin-right", "auto").set("text-align", "left")
	case AlignCenter:
		style = style.set("display", "block").set("margin-left", "auto").set("margin-right", "auto").set("text-align", "center")
	case AlignRight:
		style = style.set("display", "block").set("margin-left", "auto").set("margin-right", "0").set("text-align", "right")
	}
	if img.Align == AlignNone {
		removeAttr(n, "data-align")
	} else {
		setAttr(n, "data-align", string(img.Align))
	}

	if len(style) == 0 {
		removeAttr(n, "style")
	} else {
		setAttr(n, "style", style.String())
	}
}

func attr(n *html.Node, key string) string {
	v, _ := getAttr(n, key)
	return strings.TrimSpace(v)
}

// dimension parses "200", "200px" or "200.4px" into whole pixels; anything else is 0.
func dimension(s string) int {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "px")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0
	}
	return int(math.Round(f))
}
