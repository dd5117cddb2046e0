package api

import (
	"strings"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := createSessionToken("ana", 7, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := parseAndValidateSession(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Sub != "ana" || claims.AccountID != 7 {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestSessionTokenTamperRejected(t *testing.T) {
	token, err := createSessionToken("ana", 7, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parts := strings.Split(token, ".")
	tampered := parts[0] + "x." + parts[1]
	if _, err := parseAndValidateSession(tampered); err == nil {
		t.Fatalf("expected a tampered token to be rejected")
	}
}

func TestSessionTokenExpiryRejected(t *testing.T) {
	token, err := createSessionToken("ana", 7, -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := parseAndValidateSession(token); err == nil {
		t.Fatalf("expected an expired token to be rejected")
	}
}

func TestSessionTokenMalformedRejected(t *testing.T) {
	for _, token := range []string{"", "one-part", "a.b.c"} {
		if _, err := parseAndValidateSession(token); err == nil {
			t.Fatalf("expected malformed token %q to be rejected", token)
		}
	}
}
