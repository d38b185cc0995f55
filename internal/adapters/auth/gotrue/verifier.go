package gotrue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"animal-registry/internal/ports/auth"
)

var ErrTokenEmpty = errors.New("token is empty")

// Verifier implementa auth.AuthVerifier contra GoTrue.
// Se instancia desde main/router solo si IDP_URL está configurada.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims, err := v.client.UserFromToken(ctx, token)
	if err != nil {
		// El middleware decide si corta o deja pasar sin claims.
		return auth.Claims{}, fmt.Errorf("gotrue verify failed: %w", err)
	}

	if claims.UserID == "" {
		return auth.Claims{}, errors.New("gotrue response missing user id")
	}
	return claims, nil
}
