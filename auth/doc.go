// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin session tokens, passcode hashing, and voter
identity derivation.

# Admin Session Tokens

Tokens are self-contained HMAC-SHA256 capabilities scoped to one room:

	token := auth.CreateSessionToken(room, secret)
	ok := auth.VerifySessionToken(token, room, secret)

The token shape is <slug>:<expiryEpochSeconds>:<signature>. Verification
needs no store lookup and fails closed on any malformed shape, slug
mismatch, expiry, or signature mismatch. Signature comparison is
constant-time. Tokens expire after SessionTTL (8 hours).

# Passcode Hashing

Room admin passcodes are stored as one-way SHA-256 digests:

	hash := auth.HashPasscode(passcode)
	err := auth.CheckPasscode(storedHash, passcode)

A room with no stored hash is open: CheckPasscode accepts any passcode, so
login still issues a token and mutation endpoints stay uniformly gated.

# Voter Keys

Voter keys map a typed display name to a stable identity:

	key := auth.BuildVoterKey(displayName)

The name is trimmed and lower-cased before hashing, so the same person
reconnecting under the same name keeps their vote and presence rows.

# Slug Normalization

	slug := auth.NormalizeSlug(room)

Lower-cases, restricts to [a-z0-9_-] (other characters become '_'), and
truncates to 48 characters. Used everywhere a slug is compared or embedded
in a token or cookie name.

# Cookies

	name := auth.AdminCookieName(room)  // storyvote_admin_<slug>

One cookie per room, so holding admin on one room never authorizes another.
*/
package auth
