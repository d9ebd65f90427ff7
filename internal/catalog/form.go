package catalog

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormValues are the raw strings typed into an edit form.
type FormValues struct {
	Title    string
	Year     string
	Genre    string
	Score    string
	Kind     string
	ImageURL string
}

// DefaultDraft returns the values a blank create form starts with.
func DefaultDraft(now time.Time) Draft {
	return Draft{Year: now.Year(), Kind: KindMovie}
}

// FormValuesFromDraft renders a draft back into form strings.
func FormValuesFromDraft(d Draft) FormValues {
	year := ""
	if d.Year != 0 {
		year = strconv.Itoa(d.Year)
	}
	kind := string(d.Kind)
	if kind == "" {
		kind = string(KindMovie)
	}
	return FormValues{
		Title:    d.Title,
		Year:     year,
		Genre:    d.Genre,
		Score:    FormatScore(d.Score),
		Kind:     kind,
		ImageURL: d.ImageURL,
	}
}

// ParseDraft converts form strings into a Draft. Numbers that fail to parse
// are reported as field errors rather than becoming zero values, so the
// caller can merge the result with Validate.
func ParseDraft(v FormValues) (Draft, FieldErrors) {
	errs := FieldErrors{}
	d := Draft{
		Title:    strings.TrimSpace(v.Title),
		Genre:    strings.TrimSpace(v.Genre),
		ImageURL: strings.TrimSpace(v.ImageURL),
	}

	if raw := strings.TrimSpace(v.Year); raw == "" {
		errs[FieldYear] = "year is required"
	} else if year, err := strconv.Atoi(raw); err != nil {
		errs[FieldYear] = "year must be a whole number"
	} else {
		d.Year = year
	}

	if raw := strings.TrimSpace(v.Score); raw == "" {
		errs[FieldScore] = "score is required"
	} else if score, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64); err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		errs[FieldScore] = "score must be a number"
	} else {
		d.Score = score
	}

	if strings.TrimSpace(v.Kind) == "" {
		d.Kind = KindMovie
	} else if kind, ok := ParseKind(v.Kind); ok {
		d.Kind = kind
	} else {
		d.Kind = kind
		errs[FieldKind] = "kind must be movie or series"
	}

	return d, errs
}

// ValidateForm parses and validates raw form values in one step. Parse
// failures take precedence over range checks for the same field.
func ValidateForm(v FormValues, now time.Time) (Draft, FieldErrors) {
	d, parseErrs := ParseDraft(v)
	errs := Validate(d, now)
	for field, msg := range parseErrs {
		errs[field] = msg
	}
	return d, errs
}
