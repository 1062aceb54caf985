package auth

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/school-payments/internal"
)

// AuthTokens is the pair handed to a client on login, register, and refresh.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Claims are the JWT claims minted for dashboard users. Subject holds the
// user id in decimal form.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// TokenGenerator mints and validates HS256 token pairs. Access and refresh
// tokens use separate secrets so a leaked refresh secret cannot forge
// short-lived API tokens.
type TokenGenerator struct {
	cfg internal.SecurityConfig
}

func NewTokenGenerator(cfg internal.SecurityConfig) *TokenGenerator {
	return &TokenGenerator{cfg: cfg}
}

func (g *TokenGenerator) GenerateTokenPair(userID int64, email string) (*AuthTokens, error) {
	access, err := g.signToken(userID, email, g.cfg.AccessTokenSecret, g.cfg.AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := g.signToken(userID, email, g.cfg.RefreshTokenSecret, g.cfg.RefreshTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(g.cfg.AccessTokenDuration.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

func (g *TokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return g.parseToken(tokenString, g.cfg.AccessTokenSecret)
}

func (g *TokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return g.parseToken(tokenString, g.cfg.RefreshTokenSecret)
}

func (g *TokenGenerator) signToken(userID int64, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (g *TokenGenerator) parseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}
	if !token.Valid {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}
