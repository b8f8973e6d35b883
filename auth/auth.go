// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidPasscode = errors.New("invalid passcode")

// SessionTTL is how long an admin session token stays valid.
const SessionTTL = 8 * time.Hour

// cookiePrefix namespaces the admin session cookie per room.
const cookiePrefix = "storyvote_admin_"

// NormalizeSlug lower-cases a room slug, maps every character outside
// [a-z0-9_-] to '_', and truncates to 48 characters. Every place a slug is
// compared, embedded in a token, or used as a cookie name goes through this,
// so two surface spellings of the same room never desynchronize.
func NormalizeSlug(room string) string {
	room = strings.ToLower(strings.TrimSpace(room))
	if len(room) > 48 {
		room = room[:48]
	}

	b := []byte(room)
	for i, c := range b {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '-' {
			continue
		}
		b[i] = '_'
	}
	return string(b)
}

// HashPasscode returns the one-way digest stored for a room's admin
// passcode. Digest equality is the authorization check; the plaintext is
// never stored.
func HashPasscode(passcode string) string {
	sum := sha256.Sum256([]byte(passcode))
	return hex.EncodeToString(sum[:])
}

// CheckPasscode compares a submitted passcode against a room's stored hash.
// A room with no stored hash is open: any passcode, including empty, is
// accepted, so admin endpoints stay uniformly gated by "has a valid token".
func CheckPasscode(storedHash *string, passcode string) error {
	if storedHash == nil || *storedHash == "" {
		return nil
	}
	if HashPasscode(passcode) != *storedHash {
		return ErrInvalidPasscode
	}
	return nil
}

// BuildVoterKey derives the stable per-participant identity from a typed
// display name. The same name always maps to the same ledger and presence
// identity, even without real authentication.
func BuildVoterKey(displayName string) string {
	normalized := strings.ToLower(strings.TrimSpace(displayName))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// AdminCookieName returns the per-room cookie that carries the admin
// session token.
func AdminCookieName(room string) string {
	return cookiePrefix + NormalizeSlug(room)
}

func signPayload(payload, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// CreateSessionToken mints a self-contained admin capability for one room:
// <normalizedSlug>:<expiryEpochSeconds>:<signature>. The token is opaque to
// clients and verifiable without a store lookup.
func CreateSessionToken(room, secret string) string {
	return createSessionTokenAt(room, secret, time.Now().Add(SessionTTL))
}

func createSessionTokenAt(room, secret string, expiresAt time.Time) string {
	slug := NormalizeSlug(room)
	payload := slug + ":" + strconv.FormatInt(expiresAt.Unix(), 10)
	return payload + ":" + signPayload(payload, secret)
}

// VerifySessionToken reports whether token grants admin rights over room.
// It fails closed: malformed shape, slug mismatch, past expiry, and
// signature mismatch all return false. The signature comparison is
// constant-time.
func VerifySessionToken(token, room, secret string) bool {
	if token == "" {
		return false
	}

	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return false
	}

	if parts[0] != NormalizeSlug(room) {
		return false
	}

	expiresAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || expiresAt < time.Now().Unix() {
		return false
	}

	expected := signPayload(parts[0]+":"+parts[1], secret)
	return hmac.Equal([]byte(parts[2]), []byte(expected))
}
