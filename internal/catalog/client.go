package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Source names where a lookup was answered from.
type Source string

const (
	SourceUpstream Source = "upstream"
	SourceSeed     Source = "seed"
)

// Client looks courses up on the Purdue OData API with seed fallback.
type Client struct {
	// BaseURL is the OData root, e.g. https://api.purdue.io/odata.
	BaseURL string
	HTTP    *http.Client
	Seed    *Seed
	// UseSeed skips the upstream entirely.
	UseSeed bool
	// MaxTries bounds upstream attempts per request (default 2).
	MaxTries uint

	group singleflight.Group
}

// NewClient returns a Client with a bounded HTTP timeout.
func NewClient(baseURL string, timeout time.Duration, useSeed bool, seed *Seed) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Seed:    seed,
		UseSeed: useSeed || strings.TrimSpace(baseURL) == "",
	}
}

type lookupResult struct {
	course *CourseWithSections
	source Source
}

// Lookup resolves subject+number. Upstream failures fall back to the seed;
// ErrNotFound is returned when neither knows the course. Concurrent lookups
// of the same course share one upstream round trip.
func (c *Client) Lookup(ctx context.Context, subject, number string) (*CourseWithSections, Source, error) {
	subject = strings.ToUpper(strings.TrimSpace(subject))
	number = canonicalNumber(strings.TrimSpace(number))

	v, err, _ := c.group.Do(subject+"-"+number, func() (any, error) {
		if !c.UseSeed {
			cws, err := c.fetch(ctx, subject, number)
			switch {
			case err == nil:
				return lookupResult{cws, SourceUpstream}, nil
			case errors.Is(err, ErrNotFound):
				return nil, err
			default:
				log.Warn().Err(err).Str("course", subject+" "+number).Msg("catalog upstream failed, using seed")
			}
		}
		if c.Seed == nil {
			return nil, ErrNotFound
		}
		cws, err := c.Seed.Lookup(subject, number)
		if err != nil {
			return nil, err
		}
		return lookupResult{cws, SourceSeed}, nil
	})
	if err != nil {
		return nil, "", err
	}
	r := v.(lookupResult)
	return r.course, r.source, nil
}

type odataCourse struct {
	Subject string `json:"Subject"`
	Number  string `json:"Number"`
	Title   string `json:"Title"`
}

type odataSection struct {
	CRN         string `json:"crn"`
	SectionCode string `json:"section_code"`
	MeetingDays string `json:"meeting_days"`
	MeetingTime string `json:"meeting_time"`
	Instructor  string `json:"instructor"`
	Term        string `json:"term"`
}

func (c *Client) fetch(ctx context.Context, subject, number string) (*CourseWithSections, error) {
	filter := fmt.Sprintf("Subject eq '%s' and Number eq '%s'", subject, number)

	var courses struct {
		Value []odataCourse `json:"value"`
	}
	if err := c.get(ctx, "/Course", filter, &courses); err != nil {
		return nil, err
	}
	if len(courses.Value) == 0 {
		return nil, ErrNotFound
	}
	oc := courses.Value[0]
	out := &CourseWithSections{
		Course:   Course{Subject: oc.Subject, Number: oc.Number, Title: oc.Title},
		Sections: []Section{},
	}
	out.ID = out.Course.ID()

	// Sections are best effort, as in the course page: a course without
	// reachable sections is still a valid lookup.
	var sections struct {
		Value []odataSection `json:"value"`
	}
	if err := c.get(ctx, "/Section", filter, &sections); err != nil {
		log.Debug().Err(err).Str("course", out.ID).Msg("catalog sections unavailable")
		return out, nil
	}
	for _, s := range sections.Value {
		term := s.Term
		if term == "" {
			term = "Fall 2024"
		}
		out.Sections = append(out.Sections, Section{
			CRN:         s.CRN,
			SectionCode: s.SectionCode,
			MeetingDays: s.MeetingDays,
			MeetingTime: s.MeetingTime,
			Instructor:  s.Instructor,
			Term:        term,
		})
	}
	return out, nil
}

// get fetches path?$filter=filter into v, retrying 5xx and network errors.
func (c *Client) get(ctx context.Context, path, filter string, v any) error {
	u := c.BaseURL + path + "?$filter=" + url.QueryEscape(filter)
	tries := c.MaxTries
	if tries == 0 {
		tries = 2
	}
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		res, err := c.HTTP.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer res.Body.Close()
		if res.StatusCode >= 500 {
			return struct{}{}, fmt.Errorf("catalog: upstream status %d", res.StatusCode)
		}
		if res.StatusCode != http.StatusOK {
			return struct{}{}, backoff.Permanent(fmt.Errorf("catalog: upstream status %d", res.StatusCode))
		}
		if err := json.NewDecoder(res.Body).Decode(v); err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("catalog: decode %s: %w", path, err))
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(tries),
	)
	return err
}
