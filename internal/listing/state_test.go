package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 12, 1},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{25, 12, 3},
		{100, 10, 10},
		{5, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.size), "%d/%d", tt.total, tt.size)
	}
}

func TestApply_FilterResetsPage(t *testing.T) {
	s := State{Page: 3, PageSize: 10, Total: 95}

	next, changed := s.Apply(Action{Kind: ActCategory, Value: "abstract"})
	assert.True(t, changed)
	assert.Equal(t, 1, next.Page)
	assert.Equal(t, "abstract", next.Filter.Category)
}

func TestApply_SameFilterOnFirstPageIsNoop(t *testing.T) {
	s := State{Page: 1, PageSize: 10}

	_, changed := s.Apply(Action{Kind: ActKeyword, Value: "   "})
	assert.False(t, changed)

	_, changed = s.Apply(Action{Kind: ActReset})
	assert.False(t, changed)
}

func TestApply_SameFilterOnLaterPageResets(t *testing.T) {
	s := State{Page: 4, PageSize: 10, Total: 100}
	next, changed := s.Apply(Action{Kind: ActKeyword, Value: ""})
	assert.True(t, changed)
	assert.Equal(t, 1, next.Page)
}

func TestApply_Paging(t *testing.T) {
	s := State{Page: 1, PageSize: 10, Total: 25}

	_, changed := s.Apply(Action{Kind: ActPrev})
	assert.False(t, changed, "prev at first page")

	s, changed = s.Apply(Action{Kind: ActNext})
	assert.True(t, changed)
	assert.Equal(t, 2, s.Page)

	s, _ = s.Apply(Action{Kind: ActNext})
	assert.Equal(t, 3, s.Page)

	_, changed = s.Apply(Action{Kind: ActNext})
	assert.False(t, changed, "next at last page")

	s, changed = s.Apply(Action{Kind: ActGoTo, Page: 99})
	assert.False(t, changed, "goto clamps to the current last page")
	assert.Equal(t, 3, s.Page)

	s, changed = s.Apply(Action{Kind: ActGoTo, Page: -4})
	assert.True(t, changed)
	assert.Equal(t, 1, s.Page)
}

func TestApply_PagingKeepsFilter(t *testing.T) {
	s := State{Filter: Filter{Keyword: "rose"}, Page: 1, PageSize: 10, Total: 30}
	s, _ = s.Apply(Action{Kind: ActNext})
	assert.Equal(t, "rose", s.Filter.Keyword)
}

func TestApply_UnknownAction(t *testing.T) {
	s := NewState(12)
	_, changed := s.Apply(Action{Kind: "bogus"})
	assert.False(t, changed)
}

func TestQueryClamp(t *testing.T) {
	q := Query{Page: 99, PageSize: 10}
	got, moved := q.Clamp(25)
	assert.True(t, moved)
	assert.Equal(t, 3, got.Page)

	got, moved = Query{Page: 2, PageSize: 10}.Clamp(25)
	assert.False(t, moved)
	assert.Equal(t, 2, got.Page)

	got, _ = q.Clamp(0)
	assert.Equal(t, 1, got.Page)

	m := NewMeta(99, 10, 25)
	assert.Equal(t, 3, m.Page)
	assert.Equal(t, 3, m.TotalPages)
}
