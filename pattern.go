package viewroutes

import (
	"fmt"
	"net/url"
	"strings"
)

// Param is a path parameter captured from a dynamic route segment.
//
// Example:
//
//	Route: /countries/{name}-{countryCode}
//	URL:   /countries/france-FR
//	Result: []Param{{Key: "name", Value: "france"}, {Key: "countryCode", Value: "FR"}}
type Param struct {
	Key   string
	Value string
}

type part struct {
	text  string // literal text or parameter name
	param bool
	rest  bool // {name...}
}

// pattern is a compiled route path.
type pattern struct {
	raw      string
	segments [][]part
	params   []string
	literals int // number of literal bytes, used for precedence
}

// parsePattern compiles a route path. Parameters are written {name} or :name.
// A segment may hold several parameters as long as a literal separates them,
// e.g. /countries/{name}-{countryCode}. A trailing {name...} captures the rest
// of the path, and a trailing {$} is accepted and ignored.
func parsePattern(raw string) (*pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return nil, fmt.Errorf("%w %q: must start with /", ErrInvalidPattern, raw)
	}
	p := &pattern{raw: raw}
	rest := strings.TrimSuffix(raw, "{$}")
	segs := strings.Split(rest[1:], "/")
	seen := make(map[string]bool)
	for i, seg := range segs {
		parts, err := parseParts(seg)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, raw, err)
		}
		for j, pt := range parts {
			if !pt.param {
				p.literals += len(pt.text)
				continue
			}
			if seen[pt.text] {
				return nil, fmt.Errorf("%w %q: duplicate parameter %q", ErrInvalidPattern, raw, pt.text)
			}
			seen[pt.text] = true
			p.params = append(p.params, pt.text)
			if pt.rest && (i != len(segs)-1 || len(parts) != 1) {
				return nil, fmt.Errorf("%w %q: {%s...} must be the whole final segment", ErrInvalidPattern, raw, pt.text)
			}
			if j > 0 && parts[j-1].param {
				return nil, fmt.Errorf("%w %q: parameters %q and %q need a separator",
					ErrInvalidPattern, raw, parts[j-1].text, pt.text)
			}
		}
		p.segments = append(p.segments, parts)
	}
	return p, nil
}

func parseParts(seg string) ([]part, error) {
	var parts []part
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, part{text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(seg); {
		switch c := seg[i]; {
		case c == '{':
			end := strings.IndexByte(seg[i:], '}')
			if end == -1 {
				return nil, fmt.Errorf("unmatched {")
			}
			name := seg[i+1 : i+end]
			isRest := strings.HasSuffix(name, "...")
			name = strings.TrimSuffix(name, "...")
			if !validName(name) {
				return nil, fmt.Errorf("invalid parameter name %q", name)
			}
			flush()
			parts = append(parts, part{text: name, param: true, rest: isRest})
			i += end + 1
		case c == ':':
			j := i + 1
			for j < len(seg) && isNameByte(seg[j]) {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("empty parameter name after :")
			}
			flush()
			parts = append(parts, part{text: seg[i+1 : j], param: true})
			i = j
		case c == '}':
			return nil, fmt.Errorf("unmatched }")
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	if len(parts) == 0 {
		parts = []part{{}}
	}
	return parts, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := range len(name) {
		if !isNameByte(name[i]) {
			return false
		}
	}
	return true
}

func isNameByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// String returns the pattern in {name} form.
func (p *pattern) String() string {
	var sb strings.Builder
	for _, seg := range p.segments {
		sb.WriteByte('/')
		for _, pt := range seg {
			switch {
			case pt.rest:
				sb.WriteString("{" + pt.text + "...}")
			case pt.param:
				sb.WriteString("{" + pt.text + "}")
			default:
				sb.WriteString(pt.text)
			}
		}
	}
	return sb.String()
}

// shape is the pattern with parameter names erased. Two patterns with the same
// shape match exactly the same set of paths.
func (p *pattern) shape() string {
	var sb strings.Builder
	for _, seg := range p.segments {
		sb.WriteByte('/')
		for _, pt := range seg {
			switch {
			case pt.rest:
				sb.WriteString("{...}")
			case pt.param:
				sb.WriteString("{}")
			default:
				sb.WriteString(pt.text)
			}
		}
	}
	return sb.String()
}

func (p *pattern) static() bool { return len(p.params) == 0 }

func (p *pattern) hasRest() bool {
	last := p.segments[len(p.segments)-1]
	return last[0].rest
}

// match reports whether the escaped path matches and returns the unescaped
// parameter values in pattern order. The path is split at its raw slashes and
// each segment is unescaped before it is compared, so "caf%C3%A9" matches the
// literal "café" and "france%2DFR" splits like "france-FR".
func (p *pattern) match(path string) ([]Param, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	segs := strings.Split(path[1:], "/")
	n := len(p.segments)
	if p.hasRest() {
		if len(segs) < n {
			return nil, false
		}
		segs = append(segs[:n-1:n-1], strings.Join(segs[n-1:], "/"))
	} else if len(segs) != n {
		return nil, false
	}

	values := make([]string, 0, len(p.params))
	for i, seg := range segs {
		u, err := url.PathUnescape(seg)
		if err != nil {
			return nil, false
		}
		parts := p.segments[i]
		if parts[0].rest {
			values = append(values, u)
			continue
		}
		var ok bool
		values, ok = matchParts(parts, u, values)
		if !ok {
			return nil, false
		}
	}

	params := make([]Param, len(values))
	for i, v := range values {
		params[i] = Param{Key: p.params[i], Value: v}
	}
	return params, true
}

// matchParts matches one path segment. Parameters are non-empty and earlier
// parameters take as much as they can, so /{name}-{code} splits
// "bosnia-and-herzegovina-BA" at the last "-".
func matchParts(parts []part, s string, values []string) ([]string, bool) {
	if len(parts) == 0 {
		return values, s == ""
	}
	pt := parts[0]
	if !pt.param {
		if !strings.HasPrefix(s, pt.text) {
			return nil, false
		}
		return matchParts(parts[1:], s[len(pt.text):], values)
	}
	if len(parts) == 1 {
		if s == "" {
			return nil, false
		}
		return append(values, s), true
	}
	// parsePattern guarantees the next part is a literal
	sep := parts[1].text
	for i := strings.LastIndex(s, sep); i > 0; i = strings.LastIndex(s[:i], sep) {
		if v, ok := matchParts(parts[1:], s[i:], append(values, s[:i])); ok {
			return v, true
		}
	}
	return nil, false
}

// morePrecise orders patterns for lookup: static routes first, then routes with
// more literal text, then routes with fewer parameters.
func morePrecise(a, b *pattern) bool {
	if a.static() != b.static() {
		return a.static()
	}
	if a.literals != b.literals {
		return a.literals > b.literals
	}
	return len(a.params) < len(b.params)
}
