// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity hashing and key validation utilities.

Authentication itself (sessions, tokens) is handled upstream; requests
reach the handlers with a resolved member identity in the X-Member-ID
header. This package covers the two identity concerns left to the core.

# Voter Fingerprints

Anonymous-voting meetings deduplicate ballots on an opaque fingerprint
supplied by the caller in X-Voter-Fingerprint:

	key := auth.HashFingerprint(fingerprint, salt)

Returns the first 16 bytes (32 hex chars) of an HMAC-SHA256, so raw
fingerprints never reach the vote ledger.

# Operator Key

The platform-operator force-close override is guarded by a shared key
compared in constant time:

	err := auth.ValidateOperatorKey(provided, cfg.OperatorKey)

An empty configured key disables the override.

# ID Generation

Random hex IDs where a short token is wanted:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
