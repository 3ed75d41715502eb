// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// Correlation and the request-scoped logger. RequestID stamps every request
// with X-Request-ID; ContextLogger hangs a zerolog.Logger off the Gin context
// tagged with that id, the caller and the swap or offer the route addresses,
// so a handler's
//
//	middleware.LoggerFrom(c).Error().Err(err).Msg("agree failed")
//
// already says whose agreement on which offer failed. Recovery turns panics
// into the JSON 500 envelope. Access lines come from RedactingLogger.
package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	maxRequestIDLen = 128
)

// RequestID reuses a well-formed inbound X-Request-ID and otherwise mints a
// UUIDv4. The id is echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// validRequestID keeps client-chosen ids short and free of characters that
// would break a log line.
func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLen {
		return false
	}
	return !strings.ContainsFunc(s, func(r rune) bool {
		return r <= ' ' || r > '~' || r == '"'
	})
}

// ContextLogger must run after Auth so the user id is known.
func ContextLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		lc := log.With().
			Str("request_id", c.GetString(requestIDKey)).
			Str("user_id", UserID(c)).
			Str("method", c.Request.Method).
			Str("route", route)
		if field := resourceField(route); field != "" {
			lc = lc.Str(field, c.Param("id"))
		}
		l := lc.Logger()
		c.Set(loggerKey, &l)
		c.Next()
	}
}

// resourceField names the log field for the ":id" segment of route.
func resourceField(route string) string {
	switch {
	case strings.Contains(route, "/swaps/:id"):
		return "swap_id"
	case strings.Contains(route, "/offers/:id"):
		return "offer_id"
	}
	return ""
}

// Recovery logs the panic with its stack and answers 500 internal_error,
// unless the handler had already started the response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := c.GetString(requestIDKey)
			log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", rid).
				Str("route", c.FullPath()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, rid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": rid,
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request logger, or the global one when
// ContextLogger is not installed. Never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	v, _ := c.Get(loggerKey)
	if lg, ok := v.(*zerolog.Logger); ok {
		return lg
	}
	l := log.With().Logger()
	return &l
}
