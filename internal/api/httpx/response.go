// Package httpx holds the response envelopes and request-context helpers shared by the handlers.
package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fineart/internal/apperr"
	"fineart/internal/listing"
	"fineart/internal/session"
)

// List is the envelope of every list endpoint.
type List struct {
	Data       any          `json:"data"`
	Meta       listing.Meta `json:"meta"`
	IsFallback bool         `json:"isFallback"`
	Empty      bool         `json:"empty"`
}

// WriteList renders items; a nil slice is sent as [] and flagged empty.
func WriteList[T any](c *gin.Context, items []T, meta listing.Meta, fallback bool) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, List{Data: items, Meta: meta, IsFallback: fallback, Empty: len(items) == 0})
}

// WriteItem renders a single record.
func WriteItem(c *gin.Context, status int, data any, fallback bool) {
	c.JSON(status, gin.H{"data": data, "isFallback": fallback})
}

// ParseQuery parses the list query string, writing a 400 on malformed input.
func ParseQuery(c *gin.Context) (listing.Query, bool) {
	q, err := listing.FilterFromQuery(c.Request.URL.Query())
	if err != nil {
		apperr.Write(c, apperr.Validation(err.Error()))
		return q, false
	}
	return q, true
}

// PageOf slices an in-memory list (fallback data) the way the store pages a table.
func PageOf[T any](all []T, q listing.Query) ([]T, listing.Meta) {
	total := int64(len(all))
	q, _ = q.Clamp(total)
	offset, limit := q.Window()
	if offset >= len(all) {
		return []T{}, listing.NewMeta(q.Page, q.PageSize, total)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], listing.NewMeta(q.Page, q.PageSize, total)
}

// AuthError renders a session failure as its code and fixed message.
func AuthError(c *gin.Context, err error) {
	var se *session.Error
	switch {
	case errors.As(err, &se):
		if se.Cause != nil {
			_ = c.Error(se.Cause)
		}
	case err != nil:
		_ = c.Error(err)
	}
	code := session.CodeOf(err)
	c.AbortWithStatusJSON(session.HTTPStatus(code), gin.H{"error": session.Message(code), "code": code})
}

// Paged runs load for q. A page past the last one is clamped and loaded again, so
// the items always belong to the page meta reports.
func Paged[T any](q listing.Query, load func(listing.Query) ([]T, int64, error)) ([]T, listing.Meta, error) {
	items, total, err := load(q)
	if err != nil {
		return nil, listing.Meta{}, err
	}
	if clamped, moved := q.Clamp(total); moved {
		q = clamped
		if items, total, err = load(q); err != nil {
			return nil, listing.Meta{}, err
		}
	}
	return items, listing.NewMeta(q.Page, q.PageSize, total), nil
}
