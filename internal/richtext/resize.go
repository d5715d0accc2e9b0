package richtext

import (
	"fmt"
	"math"
)

// MinSize is the smallest width or height a drag may produce.
const MinSize = 20

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Handle is one of the four corner handles of the resize overlay.
type Handle string

const (
	HandleNW Handle = "nw"
	HandleNE Handle = "ne"
	HandleSW Handle = "sw"
	HandleSE Handle = "se"
)

func ParseHandle(s string) (Handle, bool) {
	switch h := Handle(s); h {
	case HandleNW, HandleNE, HandleSW, HandleSE:
		return h, true
	}
	return "", false
}

// Resize sets a new size. With keepAspect the height follows the width using the
// aspect ratio of start.
func Resize(start Size, width, height int, keepAspect bool) Size {
	if keepAspect && start.Width > 0 && start.Height > 0 {
		height = int(math.Round(float64(width) * float64(start.Height) / float64(start.Width)))
	}
	return clampSize(Size{Width: width, Height: height}, start, keepAspect)
}

// DragResize applies a pointer delta to the handle's corner. West handles grow
// leftwards and north handles grow upwards.
func DragResize(start Size, h Handle, dx, dy int, keepAspect bool) Size {
	w, ht := start.Width, start.Height
	switch h {
	case HandleNE, HandleSE:
		w += dx
	case HandleNW, HandleSW:
		w -= dx
	}
	switch h {
	case HandleSW, HandleSE:
		ht += dy
	case HandleNW, HandleNE:
		ht -= dy
	}
	return Resize(start, w, ht, keepAspect)
}

func clampSize(s, start Size, keepAspect bool) Size {
	if s.Width < MinSize {
		s.Width = MinSize
		if keepAspect && start.Width > 0 && start.Height > 0 {
			s.Height = int(math.Round(float64(MinSize) * float64(start.Height) / float64(start.Width)))
		}
	}
	if s.Height < MinSize {
		s.Height = MinSize
	}
	return s
}

// Label is the live size readout shown while dragging.
func Label(width, height int) string {
	return fmt.Sprintf("%d × %d", width, height)
}
