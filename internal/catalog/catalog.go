// Package catalog resolves course codes like "CS 180" to courses and their
// sections. Lookups go to the Purdue OData API and fall back to an embedded
// seed catalog when the upstream is disabled or failing. Free-text queries
// are answered from an in-memory Jaccard index over the known course titles.
package catalog

import (
	"errors"
	"regexp"
	"strings"
)

// Course is a catalog entry.
type Course struct {
	Subject string `json:"subject"`
	Number  string `json:"number"`
	Title   string `json:"title"`
}

// ID returns the course key used on swap requests, e.g. "CS-18000".
func (c Course) ID() string { return c.Subject + "-" + c.Number }

// Section is a scheduled offering of a course.
type Section struct {
	CRN         string `json:"crn"`
	SectionCode string `json:"section_code"`
	MeetingDays string `json:"meeting_days"`
	MeetingTime string `json:"meeting_time"`
	Instructor  string `json:"instructor"`
	Term        string `json:"term"`
}

// CourseWithSections is a lookup result.
type CourseWithSections struct {
	ID string `json:"id"`
	Course
	Sections []Section `json:"sections"`
}

// ErrBadInput is returned when a course code cannot be parsed.
var ErrBadInput = errors.New(`course must look like "CS 180"`)

// ErrNotFound is returned when no course matches.
var ErrNotFound = errors.New("course not found")

var courseInputRE = regexp.MustCompile(`^([A-Za-z]+)\s+(\d+)$`)

// ParseCourseInput splits "cs 180" into ("CS", "180").
func ParseCourseInput(in string) (subject, number string, err error) {
	m := courseInputRE.FindStringSubmatch(strings.TrimSpace(in))
	if m == nil {
		return "", "", ErrBadInput
	}
	return strings.ToUpper(m[1]), m[2], nil
}

// canonicalNumber expands the short form students type ("180") to the
// five-digit catalog number ("18000").
func canonicalNumber(n string) string {
	if len(n) == 3 {
		return n + "00"
	}
	return n
}
