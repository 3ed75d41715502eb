package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func authRouter(opts AuthOptions, seen *Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(opts))
	h := func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		*seen = id
		c.String(http.StatusOK, UserID(c))
	}
	r.GET("/x", h)
	r.POST("/x", h)
	return r
}

func TestAuth_ValidToken(t *testing.T) {
	var seen Identity
	r := authRouter(AuthOptions{Secret: "k", Issuer: "idp"}, &seen)

	tok := sign(t, "k", Claims{
		Email: "ada@purdue.edu",
		Name:  "Ada",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			Issuer:    "idp",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "u1" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
	if seen.Email != "ada@purdue.edu" || seen.Name != "Ada" {
		t.Fatalf("identity not stored: %+v", seen)
	}
}

func TestAuth_Rejects(t *testing.T) {
	var seen Identity
	r := authRouter(AuthOptions{Secret: "k", Issuer: "idp"}, &seen)
	valid := jwt.RegisteredClaims{Subject: "u1", Issuer: "idp"}

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"bad signature":  "Bearer " + sign(t, "other", Claims{RegisteredClaims: valid}),
		"wrong issuer":   "Bearer " + sign(t, "k", Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", Issuer: "evil"}}),
		"no subject":     "Bearer " + sign(t, "k", Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "idp"}}),
		"expired": "Bearer " + sign(t, "k", Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "u1", Issuer: "idp", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			// dev header must be ignored once a secret is configured
			req.Header.Set(HeaderUserID, "spoof")
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if w.Header().Get("WWW-Authenticate") == "" {
				t.Fatalf("missing WWW-Authenticate")
			}
		})
	}
}

func TestAuth_RejectsNoneAlg(t *testing.T) {
	var seen Identity
	r := authRouter(AuthOptions{Secret: "k"}, &seen)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuth_DevHeader(t *testing.T) {
	var seen Identity
	r := authRouter(AuthOptions{}, &seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderUserID, " u7 ")
	req.Header.Set(HeaderUserEmail, "u7@purdue.edu")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "u7" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
	if seen.Email != "u7@purdue.edu" {
		t.Fatalf("identity email not stored: %+v", seen)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without dev header, got %d", w.Code)
	}
}

func TestAuth_OnIdentityCalledOnWritesOnly(t *testing.T) {
	var calls []Identity
	hook := func(_ context.Context, id Identity) error {
		calls = append(calls, id)
		return errors.New("db down") // must not reject
	}
	var seen Identity
	r := authRouter(AuthOptions{OnIdentity: hook}, &seen)

	for _, m := range []string{http.MethodGet, http.MethodPost} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(m, "/x", nil)
		req.Header.Set(HeaderUserID, "u1")
		req.Header.Set(HeaderUserEmail, "u1@purdue.edu")
		req.Header.Set(HeaderUserName, "U One")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", m, w.Code)
		}
	}
	if len(calls) != 1 || calls[0].ID != "u1" || calls[0].Name != "U One" {
		t.Fatalf("unexpected hook calls: %+v", calls)
	}

	// no email, no hook
	calls = nil
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(HeaderUserID, "u2")
	r.ServeHTTP(w, req)
	if len(calls) != 0 {
		t.Fatalf("hook should not run without email: %+v", calls)
	}
}
