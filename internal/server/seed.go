package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/five82/marquee/internal/catalog"
)

// seedFile is the YAML layout read by LoadSeed:
//
//	records:
//	  - title: Alien
//	    year: 1979
//	    genre: Horror
//	    score: 8.5
//	    kind: movie
//	    image_url: https://example.com/alien.jpg
type seedFile struct {
	Records []seedRecord `yaml:"records"`
}

type seedRecord struct {
	Title    string  `yaml:"title"`
	Year     int     `yaml:"year"`
	Genre    string  `yaml:"genre"`
	Score    float64 `yaml:"score"`
	Kind     string  `yaml:"kind"`
	ImageURL string  `yaml:"image_url"`
}

// LoadSeed reads drafts from a YAML seed file.
func LoadSeed(path string) ([]catalog.Draft, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer file.Close()
	return ParseSeed(file)
}

// ParseSeed decodes drafts from YAML.
func ParseSeed(r io.Reader) ([]catalog.Draft, error) {
	var f seedFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	drafts := make([]catalog.Draft, 0, len(f.Records))
	for _, rec := range f.Records {
		drafts = append(drafts, catalog.Draft{
			Title:    rec.Title,
			Year:     rec.Year,
			Genre:    rec.Genre,
			Score:    rec.Score,
			Kind:     catalog.Kind(rec.Kind),
			ImageURL: rec.ImageURL,
		}.Normalize())
	}
	return drafts, nil
}

// SeedSkip describes a seed entry that failed validation.
type SeedSkip struct {
	Index  int
	Title  string
	Errors catalog.FieldErrors
}

// SeedResult summarizes a Seed run.
type SeedResult struct {
	Inserted int
	Skipped  []SeedSkip
}

// Seed validates and inserts drafts. Invalid drafts are skipped and
// reported; a repository error stops the run.
func Seed(ctx context.Context, repo Repository, drafts []catalog.Draft, now time.Time) (SeedResult, error) {
	var res SeedResult
	for i, d := range drafts {
		d = d.Normalize()
		if errs := catalog.Validate(d, now); !errs.Valid() {
			res.Skipped = append(res.Skipped, SeedSkip{Index: i, Title: d.Title, Errors: errs})
			continue
		}
		if _, err := repo.Create(ctx, d); err != nil {
			return res, fmt.Errorf("seed record %d: %w", i, err)
		}
		res.Inserted++
	}
	return res, nil
}
