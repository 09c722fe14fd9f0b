package reset

import (
	"strings"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager(MinCost, DefaultTTL)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(MinCost-1, DefaultTTL); err == nil {
		t.Fatal("accepted cost below minimum")
	}
	if _, err := NewManager(DefaultCost, 0); err == nil {
		t.Fatal("accepted zero ttl")
	}
}

func TestGenerate(t *testing.T) {
	m := newTestManager(t)

	first, err := m.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// 32 bytes base64url without padding is 43 characters.
	if len(first) != 43 {
		t.Fatalf("token length %d, want 43", len(first))
	}
	if strings.ContainsAny(first, "+/=") {
		t.Fatalf("token %q not url-safe", first)
	}

	second, err := m.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first == second {
		t.Fatal("two generations produced the same token")
	}
}

func TestHashVerifyRoundTrip(t *testing.T) {
	m := newTestManager(t)

	token, err := m.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	hash, err := m.HashToken(token)
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}
	if hash == token {
		t.Fatal("hash equals plaintext")
	}

	if !m.VerifyToken(token, hash) {
		t.Fatal("round trip failed")
	}
	if m.VerifyToken(token+"x", hash) {
		t.Fatal("different plaintext verified")
	}
	if m.VerifyToken("", hash) {
		t.Fatal("empty plaintext verified")
	}
	if m.VerifyToken(token, "") {
		t.Fatal("empty hash verified")
	}
	if m.VerifyToken(token, "not-a-bcrypt-hash") {
		t.Fatal("malformed hash verified")
	}
}

func TestHashTokenRejectsEmpty(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.HashToken(""); err == nil {
		t.Fatal("hashed empty token")
	}
}

func TestPasswordHashing(t *testing.T) {
	m := newTestManager(t)

	hash, err := m.HashPassword("SecureP@ss1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !m.VerifyPassword("SecureP@ss1", hash) {
		t.Fatal("password round trip failed")
	}
	if m.VerifyPassword("SecureP@ss2", hash) {
		t.Fatal("wrong password verified")
	}
}

func TestExpiry(t *testing.T) {
	m := newTestManager(t)

	expiry := m.Expiry()
	lower := time.Now().Add(DefaultTTL - time.Minute)
	upper := time.Now().Add(DefaultTTL + time.Minute)
	if expiry.Before(lower) || expiry.After(upper) {
		t.Fatalf("expiry %v outside 24h window", expiry)
	}

	if m.IsExpired(expiry) {
		t.Fatal("future timestamp reported expired")
	}
	if !m.IsExpired(time.Now().Add(-time.Second)) {
		t.Fatal("past timestamp not reported expired")
	}
}
