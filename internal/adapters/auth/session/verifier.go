package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tomodachi-calendar/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSecret = errors.New("session secret is empty")

// Claims del JWT de sesión que emite el front: sub = id del usuario.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Verifier valida JWT HS256 firmados con el secreto compartido.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNoSecret
	}
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	claims := &Claims{}
	tok, err := v.parser.ParseWithClaims(strings.TrimSpace(token), claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidSession, err)
	}
	if !tok.Valid {
		return auth.Claims{}, auth.ErrInvalidSession
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", auth.ErrInvalidSession)
	}

	return auth.Claims{
		UserID: sub,
		Name:   strings.TrimSpace(claims.Name),
		Email:  strings.TrimSpace(claims.Email),
	}, nil
}

// Sign emite un token de sesión. Lo usan los tests y herramientas de dev.
func (v *Verifier) Sign(c Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
}
