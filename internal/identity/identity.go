// Package identity resolves the caller behind a bearer credential.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrMissingCredentials means no usable "Bearer <token>" header was sent.
	ErrMissingCredentials = errors.New("missing or malformed credentials")
	// ErrInvalidToken means a token was sent but the verifier rejected it.
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the resolved caller. AccountID doubles as the admission key
// and as the account to debit.
type Identity struct {
	AccountID uuid.UUID
	Email     string
	Role      string
}

func (i Identity) HasRole(role string) bool {
	return role != "" && i.Role == role
}

// Verifier checks a raw token with the identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", ErrMissingCredentials
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMissingCredentials
	}

	return token, nil
}

// Resolve parses header and verifies the token it carries.
func Resolve(ctx context.Context, v Verifier, header string) (Identity, error) {
	token, err := BearerToken(header)
	if err != nil {
		return Identity{}, err
	}

	id, err := v.Verify(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("verify: %w", err)
	}

	return id, nil
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
