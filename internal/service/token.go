package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// RoleHomeowner is the only role the gateway serves.
const RoleHomeowner = "homeowner"

// TokenManager issues and parses the gateway's access tokens. The upstream
// session cookie rides inside the claims so pollers can keep authenticating
// without the browser resending it.
type TokenManager struct {
	secret    []byte
	accessTTL time.Duration
}

func NewTokenManager(secret string, accessTTL time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL}
}

type accessClaims struct {
	Role   string `json:"role"`
	Cookie string `json:"upstream_cookie,omitempty"`
	jwt.RegisteredClaims
}

// NewAccess issues a signed access token for a homeowner.
func (m *TokenManager) NewAccess(homeownerID int64, role, upstreamCookie string) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Role:   role,
		Cookie: upstreamCookie,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(homeownerID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// ParseAccess validates a token and returns the homeowner id, role and the
// embedded upstream cookie.
func (m *TokenManager) ParseAccess(tokenString string) (int64, string, string, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", "", ErrInvalidToken
	}

	homeownerID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", "", ErrInvalidToken
	}
	return homeownerID, claims.Role, claims.Cookie, nil
}
