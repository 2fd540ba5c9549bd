package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for every rejected token: bad signature, malformed, expired or wrong issuer.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmptySecret is returned by NewTokenProvider when the signing secret is empty.
	ErrEmptySecret = errors.New("security: signing secret must not be empty")
)

// Claims is the identity carried by a bearer token. Email and Username are
// omitted from the payload when empty.
type Claims struct {
	ID       int64  `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Claims
}

// TokenProvider issues and validates HS256 bearer tokens with a process-wide secret.
type TokenProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenProvider returns a TokenProvider signing with secret. Tokens carry
// iss=issuer and expire ttl after issue.
func NewTokenProvider(secret []byte, issuer string, ttl time.Duration) (*TokenProvider, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenProvider{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs c with iat and exp set from the provider clock. It returns the
// compact token and its expiry.
func (p *TokenProvider) Issue(c Claims) (token string, expiresAt time.Time, err error) {
	now := p.now().UTC().Truncate(time.Second)
	expiresAt = now.Add(p.ttl)
	tc := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(c.ID, 10),
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Claims: c,
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate checks signature, expiry and issuer and returns the identity claims.
// Every failure is reported as ErrInvalidToken.
func (p *TokenProvider) Validate(tokenString string) (Claims, error) {
	var tc tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &tc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if tc.Claims.ID <= 0 {
		return Claims{}, ErrInvalidToken
	}
	return tc.Claims, nil
}

// TTL returns the lifetime applied to issued tokens.
func (p *TokenProvider) TTL() time.Duration {
	return p.ttl
}
