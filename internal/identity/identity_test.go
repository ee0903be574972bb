package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "super-secret-signing-key"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	return tok
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "ok", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase_scheme", header: "bearer abc", want: "abc"},
		{name: "empty", header: "", wantErr: true},
		{name: "no_token", header: "Bearer ", wantErr: true},
		{name: "basic_scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "token_only", header: "abc.def.ghi", wantErr: true},
		{name: "extra_parts", header: "Bearer abc def", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BearerToken(tt.header)
			if tt.wantErr {
				if !errors.Is(err, ErrMissingCredentials) {
					t.Fatalf("want ErrMissingCredentials, got %v", err)
				}
				return
			}

			if err != nil || got != tt.want {
				t.Fatalf("want %q, got %q (%v)", tt.want, got, err)
			}
		})
	}
}

func TestJWTVerifier_Verify(t *testing.T) {
	t.Parallel()

	v, err := NewJWTVerifier(testSecret, "authenticated")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	accountID := uuid.New()
	now := time.Now()

	valid := jwt.MapClaims{
		"sub":          accountID.String(),
		"aud":          "authenticated",
		"email":        "user@example.test",
		"exp":          now.Add(time.Hour).Unix(),
		"iat":          now.Unix(),
		"app_metadata": map[string]any{"role": "admin"},
	}

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: signToken(t, testSecret, valid)},
		{name: "wrong_secret", token: signToken(t, "other-secret", valid), wantErr: true},
		{name: "expired", token: signToken(t, testSecret, jwt.MapClaims{
			"sub": accountID.String(), "aud": "authenticated", "exp": now.Add(-time.Hour).Unix(),
		}), wantErr: true},
		{name: "no_exp", token: signToken(t, testSecret, jwt.MapClaims{
			"sub": accountID.String(), "aud": "authenticated",
		}), wantErr: true},
		{name: "wrong_audience", token: signToken(t, testSecret, jwt.MapClaims{
			"sub": accountID.String(), "aud": "anon", "exp": now.Add(time.Hour).Unix(),
		}), wantErr: true},
		{name: "subject_not_uuid", token: signToken(t, testSecret, jwt.MapClaims{
			"sub": "42", "aud": "authenticated", "exp": now.Add(time.Hour).Unix(),
		}), wantErr: true},
		{name: "garbage", token: "not-a-jwt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, err := v.Verify(context.Background(), tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Fatalf("want ErrInvalidToken, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id.AccountID != accountID || id.Email != "user@example.test" {
				t.Fatalf("unexpected identity: %+v", id)
			}
			if !id.HasRole("admin") || id.HasRole("") {
				t.Fatalf("role not resolved: %+v", id)
			}
		})
	}
}

func TestJWTVerifier_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	v, err := NewJWTVerifier(testSecret, "")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	_, err = v.Verify(context.Background(), tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	v, err := NewJWTVerifier(testSecret, "")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	_, err = Resolve(context.Background(), v, "")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("missing header: want ErrMissingCredentials, got %v", err)
	}

	_, err = Resolve(context.Background(), v, "Bearer nope")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("bad token: want ErrInvalidToken, got %v", err)
	}

	accountID := uuid.New()
	tok := signToken(t, testSecret, jwt.MapClaims{
		"sub": accountID.String(),
		"exp": time.Now().Add(time.Minute).Unix(),
	})

	id, err := Resolve(context.Background(), v, "Bearer "+tok)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	ctx := WithIdentity(context.Background(), id)

	got, ok := FromContext(ctx)
	if !ok || got.AccountID != accountID {
		t.Fatalf("identity not carried in context: %+v %v", got, ok)
	}

	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("empty context should not carry identity")
	}
}
