package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Genres is a set of genre labels stored as a single delimited text column,
// e.g. {Jazz,Reggae,"Hip Hop"}.
type Genres []string

// NewGenres trims each label, drops empty ones and collapses duplicates while
// keeping the first-seen order.
func NewGenres(labels ...string) Genres {
	seen := make(map[string]struct{}, len(labels))
	out := make(Genres, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// Encode renders the set in its stored text form.
func (g Genres) Encode() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, label := range g {
		if i > 0 {
			b.WriteByte(',')
		}
		if needsQuoting(label) {
			b.WriteByte('"')
			for _, r := range label {
				if r == '"' || r == '\\' {
					b.WriteByte('\\')
				}
				b.WriteRune(r)
			}
			b.WriteByte('"')
			continue
		}
		b.WriteString(label)
	}
	b.WriteByte('}')
	return b.String()
}

func needsQuoting(label string) bool {
	return label == "" || strings.ContainsAny(label, ",{}\"\\ \t")
}

// DecodeGenres parses the stored text form back into a set. It tolerates a
// missing outer brace pair, bracketed lists and stray whitespace.
func DecodeGenres(raw string) Genres {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && (raw[0] == '{' && raw[len(raw)-1] == '}' || raw[0] == '[' && raw[len(raw)-1] == ']') {
		raw = raw[1 : len(raw)-1]
	}

	var (
		labels  []string
		current strings.Builder
		quoted  bool
		escaped bool
	)
	for _, r := range raw {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
		case r == ',' && !quoted:
			labels = append(labels, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	labels = append(labels, current.String())

	return NewGenres(labels...)
}

func (g Genres) Value() (driver.Value, error) {
	return g.Encode(), nil
}

func (g *Genres) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*g = Genres{}
	case string:
		*g = DecodeGenres(v)
	case []byte:
		*g = DecodeGenres(string(v))
	default:
		return fmt.Errorf("genres: cannot scan %T", src)
	}
	return nil
}
