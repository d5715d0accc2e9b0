package richtext

import (
	"strings"

	"github.com/aymerick/douceur/parser"
)

// declaration is one inline CSS property.
type declaration struct {
	prop  string
	value string
}

// styleSet is an ordered inline style attribute.
type styleSet []declaration

// parseStyle reads an inline style attribute. Unparseable input yields an empty set.
func parseStyle(raw string) styleSet {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	// the parser drops the value of an unterminated final declaration
	if !strings.HasSuffix(raw, ";") {
		raw += ";"
	}
	decls, err := parser.ParseDeclarations(raw)
	if err != nil {
		return nil
	}
	out := make(styleSet, 0, len(decls))
	for _, d := range decls {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		if prop == "" {
			continue
		}
		out = out.set(prop, strings.TrimSpace(d.Value))
	}
	return out
}

func (s styleSet) get(prop string) (string, bool) {
	for _, d := range s {
		if d.prop == prop {
			return d.value, true
		}
	}
	return "", false
}

func (s styleSet) set(prop, value string) styleSet {
	for i, d := range s {
		if d.prop == prop {
			s[i].value = value
			return s
		}
	}
	return append(s, declaration{prop: prop, value: value})
}

func (s styleSet) without(props ...string) styleSet {
	out := s[:0:0]
	for _, d := range s {
		drop := false
		for _, p := range props {
			if d.prop == p {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, d)
		}
	}
	return out
}

func (s styleSet) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.prop + ":" + d.value
	}
	return strings.Join(parts, "; ")
}

// margins resolves the horizontal margins from margin-left/margin-right or the
// margin shorthand; the longhands win.
func (s styleSet) margins() (left, right string) {
	if v, ok := s.get("margin"); ok {
		f := strings.Fields(strings.ToLower(v))
		switch len(f) {
		case 1:
			left, right = f[0], f[0]
		case 2, 3:
			left, right = f[1], f[1]
		case 4:
			left, right = f[3], f[1]
		}
	}
	if v, ok := s.get("margin-left"); ok {
		left = strings.ToLower(v)
	}
	if v, ok := s.get("margin-right"); ok {
		right = strings.ToLower(v)
	}
	return left, right
}
