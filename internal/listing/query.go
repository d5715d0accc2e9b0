package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Query is a parsed list request: the filter plus the requested page.
type Query struct {
	Filter   Filter
	Page     int
	PageSize int
}

func (q Query) Window() (offset, limit int) { return Window(q.Page, q.PageSize) }

// Clamp moves q onto [1, TotalPages] for total matches; moved reports a change.
func (q Query) Clamp(total int64) (clamped Query, moved bool) {
	page := clampPage(q.Page, TotalPages(total, q.PageSize))
	if page == q.Page {
		return q, false
	}
	q.Page = page
	return q, true
}

// FilterFromQuery parses list query parameters. Unknown parameters are ignored;
// malformed numbers are an error.
func FilterFromQuery(v url.Values) (Query, error) {
	q := Query{Page: 1, PageSize: DefaultPageSize}
	f := Filter{
		Keyword: v.Get("q"),
		Size:    v.Get("size"),
		Status:  v.Get("status"),
		When:    v.Get("when"),
		Sort:    v.Get("sort"),
	}

	f.Category = v.Get("category")
	if f.Category == "" {
		f.Category = v.Get("theme")
	}

	for _, raw := range v["material"] {
		f.Materials = append(f.Materials, strings.Split(raw, ",")...)
	}

	var err error
	if f.PriceMin, err = parseDecimal(v, "minPrice"); err != nil {
		return q, err
	}
	if f.PriceMax, err = parseDecimal(v, "maxPrice"); err != nil {
		return q, err
	}

	if raw := v.Get("rentable"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, fmt.Errorf("invalid rentable %q", raw)
		}
		f.RentableOnly = b
	}

	switch strings.ToLower(v.Get("order")) {
	case "asc":
		f.Ascending = true
	case "", "desc":
	default:
		return q, fmt.Errorf("invalid order %q", v.Get("order"))
	}

	if raw := v.Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			return q, fmt.Errorf("invalid page %q", raw)
		}
		q.Page = p
	}
	if raw := v.Get("pageSize"); raw != "" {
		s, err := strconv.Atoi(raw)
		if err != nil || s < 1 {
			return q, fmt.Errorf("invalid pageSize %q", raw)
		}
		q.PageSize = min(s, MaxPageSize)
	}

	q.Filter = f.Normalize()
	return q, nil
}

func parseDecimal(v url.Values, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &d, nil
}
