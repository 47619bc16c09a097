package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var testNow = time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString([]byte("not-the-server-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return token
}

func TestParse(t *testing.T) {
	valid := signToken(t, Claims{
		UserID: "u-42",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(testNow.Add(time.Hour)),
		},
	})
	subjectOnly := signToken(t, Claims{RegisteredClaims: jwtv5.RegisteredClaims{Subject: "u-7"}})
	expired := signToken(t, Claims{
		UserID: "u-42",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(testNow.Add(-time.Minute)),
		},
	})
	noUser := signToken(t, Claims{})

	tests := []struct {
		name    string
		token   string
		want    string
		wantErr error
	}{
		{name: "user id claim", token: valid, want: "u-42"},
		{name: "bearer prefix", token: "Bearer " + valid, want: "u-42"},
		{name: "subject fallback", token: subjectOnly, want: "u-7"},
		{name: "expired", token: expired, wantErr: ErrTokenExpired},
		{name: "no user", token: noUser, wantErr: ErrTokenInvalid},
		{name: "garbage", token: "abc.def", wantErr: ErrTokenInvalid},
		{name: "empty", token: "  ", wantErr: ErrNoToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.token, testNow)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if id.UserID != tt.want || id.Anonymous() {
				t.Fatalf("UserID = %q, want %q", id.UserID, tt.want)
			}
			if id.Token == "" || id.Token[:7] == "Bearer " {
				t.Fatalf("Token = %q, want raw token", id.Token)
			}
		})
	}
}

func TestLoad_PrefersEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(signToken(t, Claims{UserID: "from-file"})+"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv(TokenEnv, signToken(t, Claims{UserID: "from-env"}))
	id, err := Load(path, testNow)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if id.UserID != "from-env" {
		t.Fatalf("UserID = %q, want from-env", id.UserID)
	}

	t.Setenv(TokenEnv, "")
	id, err = Load(path, testNow)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if id.UserID != "from-file" {
		t.Fatalf("UserID = %q, want from-file", id.UserID)
	}
}

func TestLoad_MissingTokenIsAnonymous(t *testing.T) {
	t.Setenv(TokenEnv, "")
	_, err := Load(filepath.Join(t.TempDir(), "missing"), testNow)
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("Load error = %v, want ErrNoToken", err)
	}
	if !(Identity{}).Anonymous() {
		t.Fatalf("zero Identity should be anonymous")
	}
}
