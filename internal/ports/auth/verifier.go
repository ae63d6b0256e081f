package auth

import (
	"context"
	"errors"
)

// ErrInvalidSession: el token no corresponde a una sesión válida.
var ErrInvalidSession = errors.New("invalid session")

// AuthVerifier verifica un token de sesión y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
