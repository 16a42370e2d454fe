package utils // package utils provides token issuing/verification and password hashing

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the single failure returned by token verification.
// Expired, tampered, malformed and wrong-secret tokens are not told apart.
var ErrInvalidToken = errors.New("invalid or expired token")

// Payload is the identity embedded in both access and refresh tokens.
type Payload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims is the JWT body: the payload plus registered claims (exp, iat, jti).
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenConfig fixes the secrets and lifetimes for both token kinds.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenService signs and verifies HS256 tokens.  It is immutable after
// construction and safe for concurrent use.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService builds a TokenService.  Zero TTLs fall back to 15 minutes
// for access tokens and 7 days for refresh tokens.
func NewTokenService(cfg TokenConfig, opts ...TokenOption) *TokenService {
	s := &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
	if s.accessTTL <= 0 {
		s.accessTTL = 15 * time.Minute
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = 7 * 24 * time.Hour
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs p twice, once with each secret/lifetime pair.  Either both
// tokens are returned or neither is.
func (s *TokenService) Issue(p Payload) (TokenPair, error) {
	access, err := s.sign(p, s.accessSecret, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(p, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns its payload.
func (s *TokenService) VerifyAccess(token string) (Payload, error) {
	return s.verify(token, s.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its payload.
func (s *TokenService) VerifyRefresh(token string) (Payload, error) {
	return s.verify(token, s.refreshSecret)
}

// sign builds and signs one token for p that expires ttl from now.
func (s *TokenService) sign(p Payload, secret []byte, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		UserID: p.UserID,
		Email:  p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			// jti keeps two pairs issued within the same second distinct.
			ID: uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verify parses raw with secret and collapses every failure into
// ErrInvalidToken.
func (s *TokenService) verify(raw string, secret []byte) (Payload, error) {
	if raw == "" {
		return Payload{}, ErrInvalidToken
	}
	// Only HS256 is accepted, which also rules out alg "none".  A token with
	// no exp is rejected rather than treated as eternal.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	// A signed token without a user id identifies nobody.
	if err != nil || !tok.Valid || claims.UserID == "" {
		return Payload{}, ErrInvalidToken
	}
	return Payload{UserID: claims.UserID, Email: claims.Email}, nil
}

// ExtractBearer parses an Authorization header of the exact form
// "Bearer <token>".  Any other shape, including an empty token, reports
// false.
func ExtractBearer(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	// Exactly one space: "Bearer  x" and "Bearer x y" are both rejected.
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
