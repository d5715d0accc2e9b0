// Package store is the gorm data-access layer. Handlers depend on narrow interfaces
// declared next to them; *Store satisfies all of them.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"fineart/internal/listing"
)

var (
	// ErrInvalidParent is returned when a board's parent is missing or would create a cycle.
	ErrInvalidParent = errors.New("invalid parent board")
	// ErrArtistRequired is returned when an artwork or exhibition names no existing artist.
	ErrArtistRequired = errors.New("artist not found")
)

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// DB exposes the underlying handle for migrations.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, now: s.now})
	})
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqldb, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqldb.PingContext(ctx)
}

var naming = schema.NamingStrategy{}

// sortSpec is the allow-list of sortable columns of one entity.
type sortSpec struct {
	fallback string
	allowed  map[string]struct{}
}

func newSortSpec(fallback string, cols ...string) sortSpec {
	s := sortSpec{fallback: fallback, allowed: map[string]struct{}{fallback: {}}}
	for _, c := range cols {
		s.allowed[c] = struct{}{}
	}
	return s
}

// column maps a camelCase sort key to its snake_case column, or the fallback
// when the key is empty or not allowed.
func (s sortSpec) column(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.fallback
	}
	col := naming.ColumnName("", key)
	if _, ok := s.allowed[col]; !ok {
		return s.fallback
	}
	return col
}

func applyOrder(query *gorm.DB, spec sortSpec, key string, asc bool) *gorm.DB {
	direction := "desc"
	if asc {
		direction = "asc"
	}
	col := spec.column(key)
	query = query.Order(col + " " + direction)
	if col != "id" {
		query = query.Order("id asc")
	}
	return query
}

func applyWindow(query *gorm.DB, page, size int) *gorm.DB {
	offset, limit := listing.Window(page, size)
	return query.Offset(offset).Limit(limit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applyKeyword adds a case-insensitive substring match across cols.
// Whitespace-only keywords add nothing.
func applyKeyword(query *gorm.DB, keyword string, cols ...string) *gorm.DB {
	kw := strings.TrimSpace(keyword)
	if kw == "" || len(cols) == 0 {
		return query
	}
	pattern := "%" + likeEscaper.Replace(kw) + "%"
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// paginate counts the filtered rows and loads the requested page into dest.
func paginate[T any](base func() *gorm.DB, order func(*gorm.DB) *gorm.DB, page, size int) ([]T, int64, error) {
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := []T{}
	if total == 0 {
		return items, 0, nil
	}
	if err := applyWindow(order(base()), page, size).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
