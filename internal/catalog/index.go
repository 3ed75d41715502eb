package catalog

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Result is a ranked course with its similarity score.
type Result struct {
	Course Course  `json:"course"`
	Score  float64 `json:"score"`
}

// Index answers free-text course queries.
type Index interface {
	TopK(query string, k int) []Result
}

// Option configures NewIndex.
type Option func(*indexConfig)

type indexConfig struct {
	stopwords map[string]struct{}
	minScore  float64
}

func defaultIndexConfig() indexConfig {
	return indexConfig{
		stopwords: toSet([]string{"and", "of", "the", "in", "to", "for", "i", "ii"}),
	}
}

// WithStopwords replaces the default stopword list.
func WithStopwords(words []string) Option {
	return func(c *indexConfig) { c.stopwords = toSet(words) }
}

// WithMinScore drops results scoring below s.
func WithMinScore(s float64) Option {
	return func(c *indexConfig) {
		if s >= 0 {
			c.minScore = s
		}
	}
}

type doc struct {
	course Course
	tokens map[string]struct{}
}

type index struct {
	cfg  indexConfig
	docs []doc
}

// NewIndex builds an immutable, concurrency-safe index over courses. Each
// course is tokenized from its subject, number and title.
//
// Scoring is Jaccard similarity between the query token set and a course's
// token set: |Q ∩ C| / |Q ∪ C|.
func NewIndex(courses []Course, opts ...Option) Index {
	cfg := defaultIndexConfig()
	for _, o := range opts {
		o(&cfg)
	}
	docs := make([]doc, 0, len(courses))
	for _, c := range courses {
		toks := tokenize(c.Subject+" "+c.Number+" "+c.Title, cfg.stopwords)
		if len(toks) == 0 {
			continue
		}
		docs = append(docs, doc{course: c, tokens: toks})
	}
	return &index{cfg: cfg, docs: docs}
}

// TopK returns up to k best-matching courses. Ties sort by course ID.
func (i *index) TopK(q string, k int) []Result {
	if len(i.docs) == 0 || strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 5
	}
	qTokens := tokenize(q, i.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}

	out := make([]Result, 0, k)
	for _, d := range i.docs {
		over := overlap(qTokens, d.tokens)
		if over == 0 {
			continue
		}
		score := float64(over) / float64(len(qTokens)+len(d.tokens)-over)
		if score < i.cfg.minScore {
			continue
		}
		out = append(out, Result{Course: d.course, Score: score})
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Course.ID() < out[b].Course.ID()
	})
	if k < len(out) {
		out = out[:k]
	}
	return out
}

var wordRE = regexp.MustCompile(`\p{L}+|\p{N}+`)

// tokenize case-folds s and splits it into letter and digit runs. Digit runs
// of five are also indexed by their three-digit short form ("18000" → "180").
func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(cases.Fold().String(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, skip := stop[w]; skip {
			continue
		}
		out[w] = struct{}{}
		if len(w) == 5 && strings.HasSuffix(w, "00") {
			out[w[:3]] = struct{}{}
		}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			m[w] = struct{}{}
		}
	}
	return m
}
