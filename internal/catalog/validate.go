package catalog

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
)

// FirstFilmYear is the year of the earliest surviving motion picture.
const FirstFilmYear = 1888

// FutureYearWindow is how far past the current year a release may be
// scheduled.
const FutureYearWindow = 5

const (
	MinScore = 0
	MaxScore = 10
)

// Field names used as FieldErrors keys. They match the JSON field names.
const (
	FieldTitle    = "title"
	FieldYear     = "year"
	FieldGenre    = "genre"
	FieldScore    = "score"
	FieldKind     = "kind"
	FieldImageURL = "imageUrl"
)

var fieldOrder = []string{FieldTitle, FieldYear, FieldGenre, FieldScore, FieldKind, FieldImageURL}

var imageURLPattern = regexp.MustCompile(`^https?://.+`)

// FieldErrors maps a field name to its validation message. An empty value
// means the draft is valid.
type FieldErrors map[string]string

// Valid reports whether no field failed validation.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

// Fields returns the failing field names in form order.
func (e FieldErrors) Fields() []string {
	if len(e) == 0 {
		return nil
	}
	rank := make(map[string]int, len(fieldOrder))
	for i, f := range fieldOrder {
		rank[f] = i
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.SliceStable(fields, func(i, j int) bool {
		ri, iok := rank[fields[i]]
		rj, jok := rank[fields[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return fields[i] < fields[j]
		}
	})
	return fields
}

// Summary renders a one-line description of every failure.
func (e FieldErrors) Summary() string {
	fields := e.Fields()
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, e[f])
	}
	noun := "problem"
	if len(parts) > 1 {
		noun = "problems"
	}
	return fmt.Sprintf("%d %s: %s", len(parts), noun, strings.Join(parts, "; "))
}

// Error lets FieldErrors travel as an error value.
func (e FieldErrors) Error() string {
	return "invalid record: " + e.Summary()
}

// Clone returns an independent copy.
func (e FieldErrors) Clone() FieldErrors {
	if e == nil {
		return nil
	}
	dup := make(FieldErrors, len(e))
	for k, v := range e {
		dup[k] = v
	}
	return dup
}

// MaxYear returns the latest acceptable release year relative to now.
func MaxYear(now time.Time) int {
	return now.Year() + FutureYearWindow
}

// Validate checks a draft against the record invariants. Every rule runs
// independently so the caller sees all failures at once. The clock is an
// argument so results are deterministic.
func Validate(d Draft, now time.Time) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(d.Title) == "" {
		errs[FieldTitle] = "title is required"
	}

	if d.Year < FirstFilmYear {
		errs[FieldYear] = fmt.Sprintf("year cannot precede first film (%d)", FirstFilmYear)
	} else if maxYear := MaxYear(now); d.Year > maxYear {
		errs[FieldYear] = fmt.Sprintf("year cannot be later than %d", maxYear)
	}

	if strings.TrimSpace(d.Genre) == "" {
		errs[FieldGenre] = "genre is required"
	}

	switch {
	case math.IsNaN(d.Score) || math.IsInf(d.Score, 0):
		errs[FieldScore] = "score must be a number"
	case d.Score < MinScore:
		errs[FieldScore] = "score cannot be negative"
	case d.Score > MaxScore:
		errs[FieldScore] = fmt.Sprintf("score cannot exceed %d", MaxScore)
	}

	if d.Kind != "" {
		if _, ok := ParseKind(string(d.Kind)); !ok {
			errs[FieldKind] = "kind must be movie or series"
		}
	}

	if url := strings.TrimSpace(d.ImageURL); url != "" && !imageURLPattern.MatchString(url) {
		errs[FieldImageURL] = "image URL must start with http:// or https://"
	}

	return errs
}
