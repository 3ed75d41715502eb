// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements caller identity. Requests carry an HS256 JWT bearer
// token issued by the external identity provider; the subject claim becomes
// the user id stored in the Gin context under "userID". When no secret is
// configured (local development), the X-User-ID header is trusted instead.
//
// Profile claims (email, name, major, year) are handed to an optional
// IdentityHook on writes so the user row used for contact disclosure is
// created on first use and kept current.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Dev-mode identity headers, honoured only when AuthOptions.Secret is empty.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

const (
	ctxKeyUserID   = "userID"
	ctxKeyIdentity = "auth.identity"
)

// Claims is the token payload accepted from the identity provider.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Major string `json:"major,omitempty"`
	Year  string `json:"year,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller.
type Identity struct {
	ID    string
	Email string
	Name  string
	Major string
	Year  string
}

// IdentityHook receives the caller's profile on authenticated writes.
type IdentityHook func(ctx context.Context, id Identity) error

// AuthOptions configures Auth.
type AuthOptions struct {
	// Secret is the HS256 signing key. Empty enables dev headers.
	Secret string
	// Issuer, when set, must match the token's iss claim.
	Issuer string
	// OnIdentity is called for non-GET requests whose identity carries an
	// email. Failures are logged and do not reject the request.
	OnIdentity IdentityHook
}

// Auth establishes the caller identity or aborts with 401.
func Auth(opts AuthOptions) gin.HandlerFunc {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	secret := []byte(opts.Secret)

	return func(c *gin.Context) {
		var id Identity

		header := c.GetHeader("Authorization")
		switch {
		case header != "":
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || opts.Secret == "" {
				unauthorized(c, "invalid authorization header")
				return
			}
			claims := &Claims{}
			tok, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(*jwt.Token) (any, error) {
				return secret, nil
			}, parserOpts...)
			if err != nil || !tok.Valid || claims.Subject == "" {
				unauthorized(c, "invalid or expired token")
				return
			}
			id = Identity{ID: claims.Subject, Email: claims.Email, Name: claims.Name, Major: claims.Major, Year: claims.Year}

		case opts.Secret == "":
			id = Identity{
				ID:    strings.TrimSpace(c.GetHeader(HeaderUserID)),
				Email: strings.TrimSpace(c.GetHeader(HeaderUserEmail)),
				Name:  strings.TrimSpace(c.GetHeader(HeaderUserName)),
			}
			if id.ID == "" {
				unauthorized(c, "missing "+HeaderUserID)
				return
			}

		default:
			unauthorized(c, "missing bearer token")
			return
		}

		c.Set(ctxKeyUserID, id.ID)
		c.Set(ctxKeyIdentity, id)

		if opts.OnIdentity != nil && id.Email != "" && c.Request.Method != http.MethodGet {
			if err := opts.OnIdentity(c.Request.Context(), id); err != nil {
				log.Warn().Err(err).Str("user_id", id.ID).Msg("identity sync failed")
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" outside Auth.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ctxKeyIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="course-swap"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    msg,
	})
}
