package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/splitclear/internal/domain"
	"github.com/iho/splitclear/internal/infrastructure/session"
)

// JWTManager verifies bearer tokens and resolves the caller's session. Role
// normalization happens here, once, at session establishment; downstream code
// only ever sees the typed role.
type JWTManager struct {
	secret []byte
}

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret)}
}

// Verify parses and validates a token and builds the session carried through
// the request. The raw role claim may be a string, a list, or an authority
// object depending on which issuer minted the token; unknown shapes fall back
// to the regular user role.
func (m *JWTManager) Verify(tokenString string) (*session.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.ErrInvalidToken
	}
	name, _ := claims["name"].(string)

	var rawRole any
	for _, key := range []string{"role", "roles", "authorities"} {
		if v, ok := claims[key]; ok {
			rawRole = v
			break
		}
	}

	return &session.Session{
		UserID: sub,
		Name:   name,
		Role:   domain.NormalizeRole(rawRole),
		Token:  tokenString,
	}, nil
}
