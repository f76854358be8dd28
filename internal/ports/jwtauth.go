package ports

import (
	"context"
	"fmt"

	"github.com/form3tech-oss/jwt-go"
)

// JWTAuth implements AuthPort against HS256-signed tokens carrying the
// user id in the "sub" claim, the same library and claim shape the
// server's own token issuance already uses elsewhere.
type JWTAuth struct {
	secret string
}

// NewJWTAuth builds a JWTAuth that verifies tokens signed with secret.
func NewJWTAuth(secret string) *JWTAuth {
	return &JWTAuth{secret: secret}
}

func (a *JWTAuth) Authenticate(ctx context.Context, cookieValue string) (string, error) {
	if a == nil || a.secret == "" {
		return "", fmt.Errorf("jwt auth is not configured")
	}
	if cookieValue == "" {
		return "", fmt.Errorf("missing access token")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(cookieValue, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid access token: %w", err)
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("access token missing sub claim")
	}
	return sub, nil
}
