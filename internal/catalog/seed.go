package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed seed/*.json
var seedFS embed.FS

// Seed is the offline catalog. Sections are assigned to courses in pairs by
// position: course i owns sections [2i, 2i+2).
type Seed struct {
	Courses  []Course
	Sections []Section
}

// LoadSeed decodes the embedded seed catalog.
func LoadSeed() (*Seed, error) {
	var s Seed
	if err := readSeed("seed/courses.json", &s.Courses); err != nil {
		return nil, err
	}
	if err := readSeed("seed/sections.json", &s.Sections); err != nil {
		return nil, err
	}
	return &s, nil
}

// MustLoadSeed is LoadSeed that panics on error. The seed is compiled in, so
// failure means a broken build.
func MustLoadSeed() *Seed {
	s, err := LoadSeed()
	if err != nil {
		panic(err)
	}
	return s
}

func readSeed(name string, v any) error {
	b, err := seedFS.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Lookup finds a course by subject (case-insensitive) and number.
func (s *Seed) Lookup(subject, number string) (*CourseWithSections, error) {
	number = canonicalNumber(number)
	for i, c := range s.Courses {
		if !strings.EqualFold(c.Subject, subject) || c.Number != number {
			continue
		}
		lo, hi := i*2, (i+1)*2
		if lo > len(s.Sections) {
			lo = len(s.Sections)
		}
		if hi > len(s.Sections) {
			hi = len(s.Sections)
		}
		secs := append([]Section(nil), s.Sections[lo:hi]...)
		return &CourseWithSections{ID: c.ID(), Course: c, Sections: secs}, nil
	}
	return nil, ErrNotFound
}
