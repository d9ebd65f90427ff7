package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is the server-assigned record identifier. Backends differ on whether
// they emit ids as JSON strings or numbers; both decode into the same
// canonical string form.
type ID string

// IsZero reports whether the id is absent.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// String returns the id as a plain string.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Kind distinguishes movies from series.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// Kinds lists the accepted kinds in display order.
func Kinds() []Kind {
	return []Kind{KindMovie, KindSeries}
}

// ParseKind normalizes user or wire input into a Kind. The Portuguese
// labels used by older catalog data are accepted as aliases.
func ParseKind(value string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie", "filme":
		return KindMovie, true
	case "series", "serie", "série":
		return KindSeries, true
	default:
		return Kind(strings.TrimSpace(value)), false
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

// Label returns the display label for a kind.
func (k Kind) Label() string {
	switch k {
	case KindMovie:
		return "Movie"
	case KindSeries:
		return "Series"
	default:
		return "Unknown"
	}
}

// Next cycles movie → series → movie.
func (k Kind) Next() Kind {
	if k == KindMovie {
		return KindSeries
	}
	return KindMovie
}

// UnmarshalJSON normalizes aliases so records written by older clients
// still render with the right kind.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode kind: %w", err)
	}
	parsed, _ := ParseKind(s)
	*k = parsed
	return nil
}

// Draft holds a record's field values before persistence. It is also the
// request body for create and update calls.
type Draft struct {
	Title    string  `json:"title"`
	Year     int     `json:"year"`
	Genre    string  `json:"genre"`
	Score    float64 `json:"score"`
	Kind     Kind    `json:"kind"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// Record is a persisted catalog entry.
type Record struct {
	ID ID `json:"id,omitempty"`
	Draft
}

// AsDraft returns the record's fields without the id.
func (r Record) AsDraft() Draft {
	return r.Draft
}

// WithID returns a record built from the draft carrying the given id.
func (d Draft) WithID(id ID) Record {
	return Record{ID: id, Draft: d}
}

// Normalize trims whitespace from text fields and defaults an unset kind
// to movie.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Genre = strings.TrimSpace(d.Genre)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	if d.Kind == "" {
		d.Kind = KindMovie
	} else if parsed, ok := ParseKind(string(d.Kind)); ok {
		d.Kind = parsed
	}
	return d
}

// FormatScore renders a score without trailing zeros.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
