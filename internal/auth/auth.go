// Package auth derives the signed-in user from a stored access token.
//
// schoolcal never verifies tokens itself; the schedule service does. The
// client only reads the user id claim so the view synchronizer knows whether
// to load a saved school, and forwards the raw token as a bearer credential.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// TokenEnv names the environment variable that overrides the token file.
const TokenEnv = "SCHOOLCAL_TOKEN"

var (
	ErrNoToken      = errors.New("no access token")
	ErrTokenExpired = errors.New("access token expired")
	ErrTokenInvalid = errors.New("access token invalid")
)

// Claims are the access token claims schoolcal reads.
type Claims struct {
	UserID string `json:"user_id"`
	jwtv5.RegisteredClaims
}

// Identity is the signed-in user. The zero value is anonymous.
type Identity struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Anonymous reports whether no user is signed in.
func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// Load resolves the identity from TokenEnv or, when unset, tokenFile.
func Load(tokenFile string, now time.Time) (Identity, error) {
	raw := strings.TrimSpace(os.Getenv(TokenEnv))
	if raw == "" && strings.TrimSpace(tokenFile) != "" {
		data, err := os.ReadFile(tokenFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Identity{}, ErrNoToken
			}
			return Identity{}, fmt.Errorf("read token file: %w", err)
		}
		raw = strings.TrimSpace(string(data))
	}
	if raw == "" {
		return Identity{}, ErrNoToken
	}
	return Parse(raw, now)
}

// Parse reads the user id from token without verifying its signature.
func Parse(token string, now time.Time) (Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Identity{}, ErrNoToken
	}

	var claims Claims
	if _, _, err := jwtv5.NewParser().ParseUnverified(token, &claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		userID = strings.TrimSpace(claims.Subject)
	}
	if userID == "" {
		return Identity{}, fmt.Errorf("%w: missing user_id", ErrTokenInvalid)
	}

	id := Identity{UserID: userID, Token: token}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
		if !now.IsZero() && !now.Before(id.ExpiresAt) {
			return Identity{}, ErrTokenExpired
		}
	}
	return id, nil
}
