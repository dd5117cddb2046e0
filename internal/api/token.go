package api

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/Techlemariam/IronForge-sub002/internal/constants"
)

type sessionClaims struct {
	Sub       string `json:"sub"` // username
	AccountID uint   `json:"account_id"`
	Iat       int64  `json:"iat"`
	Exp       int64  `json:"exp"`
}

var devSecret []byte

func getSessionSecret() ([]byte, error) {
	secret := os.Getenv(constants.EnvSessionSecret)
	if secret == "" {
		// Generate an in-memory secret for development if not set
		if len(devSecret) == 0 {
			devSecret = make([]byte, 32)
			if _, err := crand.Read(devSecret); err != nil {
				return nil, errors.New("failed to generate dev session secret")
			}
		}
		return devSecret, nil
	}
	return []byte(secret), nil
}

func b64url(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func b64urlDecode(s string) ([]byte, error) {
	// pad to multiple of 4
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(s)
}

// createSessionToken issues a compact signed token: b64(claims).b64(hmac).
func createSessionToken(username string, accountID uint, ttl time.Duration) (string, error) {
	secret, err := getSessionSecret()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := sessionClaims{
		Sub:       username,
		AccountID: accountID,
		Iat:       now.Unix(),
		Exp:       now.Add(ttl).Unix(),
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	body := b64url(payload)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(body))
	return body + "." + b64url(mac.Sum(nil)), nil
}

// parseAndValidateSession verifies the signature and expiry of a token.
func parseAndValidateSession(token string) (*sessionClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, errors.New("malformed session token")
	}
	secret, err := getSessionSecret()
	if err != nil {
		return nil, err
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(parts[0]))
	sig, err := b64urlDecode(parts[1])
	if err != nil {
		return nil, errors.New("malformed session signature")
	}
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, errors.New("invalid session signature")
	}
	payload, err := b64urlDecode(parts[0])
	if err != nil {
		return nil, errors.New("malformed session payload")
	}
	var claims sessionClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errors.New("malformed session claims")
	}
	if time.Now().Unix() >= claims.Exp {
		return nil, errors.New("session expired")
	}
	return &claims, nil
}
