package media

import (
	"strings"

	"github.com/tidwall/gjson"
)

// urlPaths are checked in order against an upload response body.
var urlPaths = []string{"url", "data.url", "Location", "path"}

// ResolveURL extracts the public URL from an upload service's JSON response.
func ResolveURL(payload []byte) (string, bool) {
	if !gjson.ValidBytes(payload) {
		return "", false
	}
	for _, p := range urlPaths {
		if v := gjson.GetBytes(payload, p); v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s, true
			}
		}
	}
	return "", false
}
