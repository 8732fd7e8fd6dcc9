package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestManager_IssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, expiresAt, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expiresAt should be in the future: %v", expiresAt)
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("got user %q, want user-1", userID)
	}
}

func TestManager_TokensAreUnique(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	a, _, _ := m.Issue("user-1")
	b, _, _ := m.Issue("user-1")

	if a == b {
		t.Fatalf("two tokens for the same user should differ")
	}
}

func TestManager_VerifyRejects(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	valid, _, _ := m.Issue("user-1")

	expiredManager := NewManager("test-secret", time.Hour)
	expiredManager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, _ := expiredManager.Issue("user-1")

	other := NewManager("other-secret", time.Hour)
	foreign, _, _ := other.Issue("user-1")

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}).SignedString([]byte("test-secret"))

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "expired", token: expired, wantErr: ErrTokenExpired},
		{name: "wrong_secret", token: foreign, wantErr: ErrTokenInvalid},
		{name: "alg_none", token: noneToken, wantErr: ErrTokenInvalid},
		{name: "missing_subject", token: noSubject, wantErr: ErrTokenInvalid},
		{name: "missing_expiry", token: noExpiry, wantErr: ErrTokenInvalid},
		{name: "tampered_payload", token: tampered, wantErr: ErrTokenInvalid},
		{name: "garbage", token: "not-a-jwt", wantErr: ErrTokenInvalid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
