package listing

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ActionKind string

const (
	ActKeyword        ActionKind = "keyword"
	ActCategory       ActionKind = "category"
	ActSize           ActionKind = "size"
	ActMaterials      ActionKind = "materials"
	ActToggleMaterial ActionKind = "toggleMaterial"
	ActPrice          ActionKind = "price"
	ActRentable       ActionKind = "rentable"
	ActSort           ActionKind = "sort"
	ActReset          ActionKind = "reset"
	ActNext           ActionKind = "next"
	ActPrev           ActionKind = "prev"
	ActGoTo           ActionKind = "page"
)

// Action is one user interaction with a list view. Only the fields relevant to Kind are read.
type Action struct {
	Kind      ActionKind       `json:"type"`
	Value     string           `json:"value,omitempty"`
	Materials []string         `json:"materials,omitempty"`
	PriceMin  *decimal.Decimal `json:"priceMin,omitempty"`
	PriceMax  *decimal.Decimal `json:"priceMax,omitempty"`
	Enabled   bool             `json:"enabled,omitempty"`
	Ascending bool             `json:"ascending,omitempty"`
	Page      int              `json:"page,omitempty"`
}

// IsPaging reports whether the action only moves between pages.
func (a Action) IsPaging() bool {
	return a.Kind == ActNext || a.Kind == ActPrev || a.Kind == ActGoTo
}

// State is the current filter and page of a list view.
type State struct {
	Filter   Filter `json:"filter"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Total    int64  `json:"total"`
}

func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{Page: 1, PageSize: min(pageSize, MaxPageSize)}
}

func (s State) TotalPages() int { return TotalPages(s.Total, s.PageSize) }

func (s State) Meta() Meta { return NewMeta(s.Page, s.PageSize, s.Total) }

// Apply returns the state after a. Filter actions reset the page to 1; paging actions
// keep the filter and clamp to [1, TotalPages]. changed is false when nothing moved,
// in which case no fetch should be issued.
func (s State) Apply(a Action) (State, bool) {
	if a.IsPaging() {
		return s.applyPage(a)
	}

	next := s
	f := s.Filter
	switch a.Kind {
	case ActKeyword:
		f.Keyword = a.Value
	case ActCategory:
		f.Category = a.Value
	case ActSize:
		f.Size = a.Value
	case ActMaterials:
		f.Materials = a.Materials
	case ActToggleMaterial:
		f = f.ToggleMaterial(a.Value)
	case ActPrice:
		f.PriceMin, f.PriceMax = a.PriceMin, a.PriceMax
	case ActRentable:
		f.RentableOnly = a.Enabled
	case ActSort:
		f.Sort = strings.TrimSpace(a.Value)
		f.Ascending = a.Ascending
	case ActReset:
		f = Filter{}
	default:
		return s, false
	}

	next.Filter = f.Normalize()
	next.Page = 1
	changed := !next.Filter.Equal(s.Filter) || s.Page != 1
	if !changed {
		return s, false
	}
	return next, true
}

func (s State) applyPage(a Action) (State, bool) {
	total := s.TotalPages()
	target := s.Page
	switch a.Kind {
	case ActNext:
		if s.Page >= total {
			return s, false
		}
		target = s.Page + 1
	case ActPrev:
		if s.Page <= 1 {
			return s, false
		}
		target = s.Page - 1
	case ActGoTo:
		target = clampPage(a.Page, total)
	}
	if target == s.Page {
		return s, false
	}
	s.Page = target
	return s, true
}
