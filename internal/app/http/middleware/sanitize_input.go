package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"fineart/internal/apperr"
)

// SanitizeInput strips markup from every top-level string field of a JSON body.
// Fields named in rich are left alone; the handlers sanitise those with the
// rich-content policy.
func SanitizeInput(rich ...string) gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}
		if !strings.HasPrefix(c.ContentType(), "application/json") || c.Request.Body == nil {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			apperr.Write(c, apperr.Validation("Invalid body"))
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		var body map[string]any
		if err := json.Unmarshal(buf, &body); err != nil {
			apperr.Write(c, apperr.Validation("Malformed JSON"))
			return
		}

		for k, v := range body {
			if slices.Contains(rich, k) {
				continue
			}
			if str, ok := v.(string); ok {
				body[k] = plainText(policy, str)
			}
		}

		newBody, _ := json.Marshal(body)
		c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
		c.Request.ContentLength = int64(len(newBody))
		c.Next()
	}
}

// plainText strips markup but keeps the text as typed: the policy's entity
// escaping is undone, and the result is re-checked so encoded tags cannot
// survive as real ones.
func plainText(policy *bluemonday.Policy, s string) string {
	for range 3 {
		next := html.UnescapeString(policy.Sanitize(s))
		if next == s {
			break
		}
		s = next
	}
	return s
}
