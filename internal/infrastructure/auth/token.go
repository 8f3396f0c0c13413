package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/infrastructure/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const defaultTokenTTL = 24 * time.Hour

// Claims identify the shopper in Subject. IsAdmin gates the admin API, so
// changing it revokes the user's outstanding tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// RemainingTTL is how long a revocation of this token has to last
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}

// Token is a signed access token
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
}

// TokenIssuer signs and verifies HS256 access tokens
type TokenIssuer struct {
	key    []byte
	ttl    time.Duration
	issuer string
	parser *jwt.Parser
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	ttl := cfg.AccessTokenExpiration
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenIssuer{
		key:    []byte(cfg.Secret),
		ttl:    ttl,
		issuer: cfg.Issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

func (i *TokenIssuer) Issue(userID uuid.UUID, email string, admin bool) (*Token, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email:   email,
		IsAdmin: admin,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{AccessToken: signed, ExpiresAt: claims.ExpiresAt.Time, TokenType: "Bearer"}, nil
}

// Verify returns the claims of a valid token. Every failure other than
// expiry is ErrInvalidToken.
func (i *TokenIssuer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := i.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return i.key, nil })
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := claims.UserUUID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}
