// Package auth issues and verifies the signed tokens that carry a session:
// a short-lived access token presented on every request and a long-lived
// refresh token exchanged for a new pair.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPurpose tags a token so an access token can never be replayed as a
// refresh token or vice versa.
type TokenPurpose string

const (
	PurposeAccess  TokenPurpose = "access"
	PurposeRefresh TokenPurpose = "refresh"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// malformed input, wrong purpose. Callers treat them uniformly.
var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	jwt.RegisteredClaims
	Purpose TokenPurpose `json:"purpose"`
}

// Issuer signs access and refresh tokens with independent secrets.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccessToken signs a token embedding only the user id. Profile fields
// are deliberately not embedded; handlers re-fetch fresh data per request.
func (i *Issuer) IssueAccessToken(userID int64) (string, error) {
	return i.sign(userID, PurposeAccess, i.accessSecret, i.accessTTL)
}

// IssueRefreshToken signs a minimal long-lived token embedding the user id.
func (i *Issuer) IssueRefreshToken(userID int64) (string, error) {
	return i.sign(userID, PurposeRefresh, i.refreshSecret, i.refreshTTL)
}

func (i *Issuer) sign(userID int64, purpose TokenPurpose, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every token distinct even when two are issued
			// within the same second, which rotation relies on.
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", purpose, err)
	}
	return signed, nil
}

// Verify checks signature, expiry and purpose, and returns the embedded user
// id. Any failure reason collapses into ErrInvalidToken; the underlying cause
// stays wrapped for logs.
func (i *Issuer) Verify(tokenString string, purpose TokenPurpose) (int64, error) {
	secret := i.accessSecret
	if purpose == PurposeRefresh {
		secret = i.refreshSecret
	}

	parsed := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || parsed.Purpose != purpose {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(parsed.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
