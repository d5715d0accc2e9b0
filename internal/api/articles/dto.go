package articles

import (
	"fmt"

	"fineart/internal/richtext"
)

type ArticleRequest struct {
	Title        string `json:"title" binding:"required"`
	Content      string `json:"content"`
	Category     string `json:"category"`
	ImageURL     string `json:"imageUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	IsPinned     bool   `json:"isPinned"`
	// Writer is only honoured for service-key requests, which have no profile.
	Writer string `json:"writer"`
}

// ImageEditRequest changes one image of an article. A handle drag takes precedence
// over an explicit width/height; Align is applied when present.
type ImageEditRequest struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	KeepAspect bool    `json:"keepAspect"`
	Handle     string  `json:"handle"`
	DX         int     `json:"dx"`
	DY         int     `json:"dy"`
	Align      *string `json:"align"`
}

// editor validates the request and returns the edit to apply.
func (r ImageEditRequest) editor() (func(richtext.Image) richtext.Image, error) {
	var handle richtext.Handle
	if r.Handle != "" {
		h, ok := richtext.ParseHandle(r.Handle)
		if !ok {
			return nil, fmt.Errorf("handle: unknown value %q", r.Handle)
		}
		handle = h
	}
	align := richtext.AlignNone
	if r.Align != nil {
		a, ok := richtext.ParseAlign(*r.Align)
		if !ok {
			return nil, fmt.Errorf("align: unknown value %q", *r.Align)
		}
		align = a
	}

	return func(img richtext.Image) richtext.Image {
		start := richtext.Size{Width: img.Width, Height: img.Height}
		switch {
		case handle != "":
			size := richtext.DragResize(start, handle, r.DX, r.DY, r.KeepAspect)
			img.Width, img.Height = size.Width, size.Height
		case r.Width > 0:
			size := richtext.Resize(start, r.Width, r.Height, r.KeepAspect)
			img.Width, img.Height = size.Width, size.Height
		}
		if r.Align != nil {
			img.Align = align
		}
		return img
	}, nil
}
