// Package auth verifies HS256 bearer tokens issued to api callers
package auth

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	perr "eventscope/internal/platform/errors"
	pnet "eventscope/internal/platform/net"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that does not verify
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by api tokens
type Claims struct {
	UserID string   `json:"user_id"`
	OrgID  string   `json:"org_id"`
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// Has reports whether the claims grant scope
func (c *Claims) Has(scope string) bool { return slices.Contains(c.Scopes, scope) }

// Verifier signs and verifies tokens with a shared secret
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier builds a verifier; an empty secret rejects every token
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Sign issues a token for c valid for ttl
func (v *Verifier) Sign(c Claims, ttl time.Duration) (string, error) {
	if len(v.secret) == 0 {
		return "", ErrInvalidToken
	}
	now := v.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    v.issuer,
		Subject:   c.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
}

// Verify parses raw and returns its claims
func (v *Verifier) Verify(raw string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, ErrInvalidToken
	}
	opts := []jwt.ParserOption{jwt.WithTimeFunc(v.now)}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || c.UserID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// Authenticate implements middleware.Authenticator
func (v *Verifier) Authenticate(r *http.Request) (pnet.Caller, error) {
	raw, ok := bearer(r)
	if !ok {
		return pnet.Caller{}, perr.Unauthorizedf("missing bearer token")
	}
	c, err := v.Verify(raw)
	if err != nil {
		return pnet.Caller{}, perr.Unauthorizedf("invalid bearer token")
	}
	org, err := strconv.ParseInt(c.OrgID, 10, 64)
	if err != nil {
		return pnet.Caller{}, perr.Unauthorizedf("token carries no organization")
	}
	return pnet.Caller{UserID: c.UserID, OrgID: org, Scopes: c.Scopes}, nil
}

func bearer(r *http.Request) (string, bool) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(s) <= len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(s[len(prefix):])
	return raw, raw != ""
}
