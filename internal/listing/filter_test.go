package listing

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNormalize(t *testing.T) {
	f := Filter{
		Keyword:   "   ",
		Materials: []string{" Oil ", "oil", "Acrylic", ""},
		PriceMin:  dec("500"),
		PriceMax:  dec("100"),
	}.Normalize()

	assert.Equal(t, "", f.Keyword)
	assert.Equal(t, []string{"acrylic", "oil"}, f.Materials)
	assert.True(t, f.PriceMin.Equal(decimal.NewFromInt(100)))
	assert.True(t, f.PriceMax.Equal(decimal.NewFromInt(500)))
}

func TestWhitespaceKeywordEqualsEmpty(t *testing.T) {
	assert.True(t, Filter{Keyword: " \t "}.Equal(Filter{}))
	assert.True(t, Filter{Keyword: " \t "}.IsZero())
	assert.False(t, Filter{Keyword: "monet"}.Equal(Filter{}))
}

func TestToggleMaterial(t *testing.T) {
	f := Filter{}.ToggleMaterial("Oil")
	assert.Equal(t, []string{"oil"}, f.Materials)
	f = f.ToggleMaterial("oil")
	assert.Empty(t, f.Materials)
}

func TestFilterFromQuery(t *testing.T) {
	v := url.Values{}
	v.Set("q", "  sunflower ")
	v.Set("theme", "landscape")
	v.Add("material", "oil,Canvas")
	v.Add("material", "oil")
	v.Set("minPrice", "1000")
	v.Set("maxPrice", "50")
	v.Set("rentable", "true")
	v.Set("page", "3")
	v.Set("pageSize", "500")
	v.Set("order", "asc")

	q, err := FilterFromQuery(v)
	require.NoError(t, err)

	assert.Equal(t, "sunflower", q.Filter.Keyword)
	assert.Equal(t, "landscape", q.Filter.Category)
	assert.Equal(t, []string{"canvas", "oil"}, q.Filter.Materials)
	assert.True(t, q.Filter.PriceMin.Equal(decimal.NewFromInt(50)))
	assert.True(t, q.Filter.RentableOnly)
	assert.True(t, q.Filter.Ascending)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, MaxPageSize, q.PageSize)

	off, lim := q.Window()
	assert.Equal(t, 200, off)
	assert.Equal(t, 100, lim)
}

func TestFilterFromQuery_Defaults(t *testing.T) {
	q, err := FilterFromQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.True(t, q.Filter.IsZero())
}

func TestFilterFromQuery_Invalid(t *testing.T) {
	for _, raw := range []string{"page=0", "page=x", "pageSize=-1", "minPrice=abc", "maxPrice=-5", "rentable=maybe", "order=up"} {
		v, err := url.ParseQuery(raw)
		require.NoError(t, err)
		_, err = FilterFromQuery(v)
		assert.Error(t, err, raw)
	}
}
