// Package listing holds the filter and pagination state shared by list endpoints
// and the live search socket, plus the controller that re-queries on every change.
package listing

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter is the user-facing filter of a list view. The zero value matches everything.
type Filter struct {
	Keyword      string           `json:"keyword,omitempty"`
	Category     string           `json:"category,omitempty"`
	Size         string           `json:"size,omitempty"`
	Materials    []string         `json:"materials,omitempty"`
	PriceMin     *decimal.Decimal `json:"priceMin,omitempty"`
	PriceMax     *decimal.Decimal `json:"priceMax,omitempty"`
	RentableOnly bool             `json:"rentableOnly,omitempty"`
	Status       string           `json:"status,omitempty"`
	When         string           `json:"when,omitempty"`
	Sort         string           `json:"sort,omitempty"`
	Ascending    bool             `json:"ascending,omitempty"`
}

// Normalize trims text fields (a whitespace-only keyword is no keyword), lowercases and
// dedups materials, and swaps inverted price bounds.
func (f Filter) Normalize() Filter {
	out := f
	out.Keyword = strings.TrimSpace(f.Keyword)
	out.Category = strings.TrimSpace(f.Category)
	out.Size = strings.TrimSpace(f.Size)
	out.Status = strings.TrimSpace(f.Status)
	out.When = strings.ToLower(strings.TrimSpace(f.When))
	out.Sort = strings.TrimSpace(f.Sort)
	out.Materials = normalizeMaterials(f.Materials)

	if out.PriceMin != nil && out.PriceMax != nil && out.PriceMin.GreaterThan(*out.PriceMax) {
		out.PriceMin, out.PriceMax = out.PriceMax, out.PriceMin
	}
	return out
}

// Equal compares two filters after normalisation.
func (f Filter) Equal(o Filter) bool {
	a, b := f.Normalize(), o.Normalize()
	return a.Keyword == b.Keyword &&
		a.Category == b.Category &&
		a.Size == b.Size &&
		slices.Equal(a.Materials, b.Materials) &&
		decimalPtrEqual(a.PriceMin, b.PriceMin) &&
		decimalPtrEqual(a.PriceMax, b.PriceMax) &&
		a.RentableOnly == b.RentableOnly &&
		a.Status == b.Status &&
		a.When == b.When &&
		a.Sort == b.Sort &&
		a.Ascending == b.Ascending
}

// IsZero reports whether no filter field is set.
func (f Filter) IsZero() bool {
	return f.Equal(Filter{})
}

// ToggleMaterial adds m if absent and removes it if present.
func (f Filter) ToggleMaterial(m string) Filter {
	m = strings.ToLower(strings.TrimSpace(m))
	if m == "" {
		return f
	}
	mats := normalizeMaterials(f.Materials)
	if i := slices.Index(mats, m); i >= 0 {
		mats = slices.Delete(mats, i, i+1)
	} else {
		mats = append(mats, m)
	}
	f.Materials = normalizeMaterials(mats)
	return f
}

func normalizeMaterials(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, m := range in {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" || slices.Contains(out, m) {
			continue
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return out
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
