// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normal", "sprint-12", "sprint-12"},
		{"upper case", "Sprint-12", "sprint-12"},
		{"surrounding space", "  demo  ", "demo"},
		{"invalid chars replaced", "team room!", "team_room_"},
		{"accents replaced byte-wise", "sala-única", "sala-__nica"},
		{"underscores kept", "room_one", "room_one"},
		{"empty", "", ""},
		{"truncated to 48", strings.Repeat("a", 60), strings.Repeat("a", 48)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSlug(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHashPasscode(t *testing.T) {
	hash := HashPasscode("1234")

	if len(hash) != 64 {
		t.Errorf("HashPasscode() length = %d, want 64 hex chars", len(hash))
	}
	if hash != HashPasscode("1234") {
		t.Error("HashPasscode() is not deterministic")
	}
	if hash == HashPasscode("0000") {
		t.Error("HashPasscode() produced same digest for different passcodes")
	}
	if hash == "1234" {
		t.Error("HashPasscode() returned the plaintext")
	}
}

func TestCheckPasscode(t *testing.T) {
	validHash := HashPasscode("1234")
	empty := ""

	tests := []struct {
		name       string
		storedHash *string
		passcode   string
		wantErr    bool
	}{
		{"correct passcode", &validHash, "1234", false},
		{"wrong passcode", &validHash, "0000", true},
		{"empty passcode against hash", &validHash, "", true},
		{"open room nil hash", nil, "anything", false},
		{"open room nil hash empty passcode", nil, "", false},
		{"open room empty hash", &empty, "whatever", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasscode(tt.storedHash, tt.passcode)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckPasscode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidPasscode {
				t.Errorf("CheckPasscode() error = %v, want %v", err, ErrInvalidPasscode)
			}
		})
	}
}

func TestBuildVoterKey(t *testing.T) {
	key := BuildVoterKey("Alice")

	if len(key) != 64 {
		t.Errorf("BuildVoterKey() length = %d, want 64 hex chars", len(key))
	}

	// Stable across reconnects, case and surrounding whitespace
	if key != BuildVoterKey("Alice") {
		t.Error("BuildVoterKey() is not deterministic")
	}
	if key != BuildVoterKey("  alice ") {
		t.Error("BuildVoterKey() should normalize case and whitespace")
	}

	if key == BuildVoterKey("Bob") {
		t.Error("BuildVoterKey() produced same key for different names")
	}
}

func TestAdminCookieName(t *testing.T) {
	tests := []struct {
		name string
		room string
		want string
	}{
		{"simple", "demo", "storyvote_admin_demo"},
		{"normalized", "Team Room", "storyvote_admin_team_room"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdminCookieName(tt.room); got != tt.want {
				t.Errorf("AdminCookieName(%q) = %q, want %q", tt.room, got, tt.want)
			}
		})
	}
}

func TestCreateSessionToken(t *testing.T) {
	token := CreateSessionToken("demo", "secret")

	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		t.Fatalf("CreateSessionToken() shape = %q, want slug:expiry:signature", token)
	}
	if parts[0] != "demo" {
		t.Errorf("token slug = %q, want %q", parts[0], "demo")
	}

	// Uppercase room spelling lands on the same normalized slug
	other := CreateSessionToken("DEMO", "secret")
	if strings.Split(other, ":")[0] != "demo" {
		t.Error("CreateSessionToken() did not normalize the slug")
	}
}

func TestVerifySessionToken(t *testing.T) {
	const secret = "test-session-secret"
	valid := CreateSessionToken("demo", secret)
	expired := createSessionTokenAt("demo", secret, time.Now().Add(-time.Minute))

	// Valid signature over a tampered payload
	tampered := "other" + valid[strings.Index(valid, ":"):]

	tests := []struct {
		name  string
		token string
		room  string
		want  bool
	}{
		{"valid token", valid, "demo", true},
		{"valid token different spelling", valid, "DEMO", true},
		{"wrong room", valid, "other", false},
		{"expired", expired, "demo", false},
		{"tampered slug", tampered, "other", false},
		{"forged signature", "demo:9999999999:deadbeef", "demo", false},
		{"wrong secret", CreateSessionToken("demo", "another-secret"), "demo", false},
		{"missing parts", "demo:12345", "demo", false},
		{"extra parts", valid + ":x", "demo", false},
		{"empty token", "", "demo", false},
		{"garbage", "not-a-token", "demo", false},
		{"non-numeric expiry", "demo:soon:deadbeef", "demo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifySessionToken(tt.token, tt.room, secret); got != tt.want {
				t.Errorf("VerifySessionToken(%q, %q) = %v, want %v", tt.token, tt.room, got, tt.want)
			}
		})
	}
}

func TestVerifySessionToken_RoomScoping(t *testing.T) {
	const secret = "scoped-secret"
	tokenA := CreateSessionToken("room-a", secret)

	if !VerifySessionToken(tokenA, "room-a", secret) {
		t.Fatal("token should verify for its own room")
	}
	if VerifySessionToken(tokenA, "room-b", secret) {
		t.Error("token for room A must never authorize room B")
	}
}
