// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// RedactingLogger is the access log. Bodies are never logged: a matched
// swap's response carries both students' emails. What remains (query string
// and headers) is scrubbed of addresses, phone numbers and UUIDs, and
// identity headers are masked outright.
//
//	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
//	    MaskHeaders: []string{"X-Api-Key"},
//	}))
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RedactOptions lists extra headers to mask (case-insensitive) on top of
// Authorization, Cookie, Set-Cookie, X-User-Email and X-User-Name.
type RedactOptions struct {
	MaskHeaders []string
}

const maskedValue = "[REDACTED]"

// Applied in order. UUIDs go first so the phone pattern cannot eat their
// digit groups; course numbers and five-digit CRNs are too short to match.
var redactions = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

func scrub(s string) string {
	for _, r := range redactions {
		if s == "" {
			break
		}
		s = r.re.ReplaceAllString(s, r.with)
	}
	return s
}

// RedactingLogger logs one line per request at info, warn (4xx) or error
// (5xx), including the caller's user id once Auth has run and whether the
// request replayed a stored offer.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	masked := map[string]bool{
		"authorization":                  true,
		"cookie":                         true,
		"set-cookie":                     true,
		strings.ToLower(HeaderUserEmail): true,
		strings.ToLower(HeaderUserName):  true,
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			masked[h] = true
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if masked[strings.ToLower(k)] {
				headers[k] = maskedValue
				continue
			}
			headers[k] = scrub(strings.Join(vv, ", "))
		}
		query := scrub(c.Request.URL.RawQuery)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		reqID := c.Writer.Header().Get(requestIDHeader)
		if reqID == "" {
			reqID = c.GetHeader(requestIDHeader)
		}
		status := c.Writer.Status()

		log.WithLevel(accessLevel(status)).
			Str("request_id", reqID).
			Str("user_id", UserID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Bool("replay", IsReplay(c)).
			Interface("headers", headers).
			Msg("http_request")
	}
}

func accessLevel(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
