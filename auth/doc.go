// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides browser identity and credential helpers.

# Device IDs

Each browser gets a random UUID the first time it is seen:

	id := auth.GenerateDeviceID()

The id keys the durable token store, so it is stored in a long-lived
cookie signed with HMAC-SHA256:

	value := auth.SignDeviceID(id, salt)    // "<uuid>.<sig>"
	id, err := auth.VerifyDeviceID(value, salt)

A tampered, truncated or foreign cookie returns ErrInvalidDeviceID and the
caller issues a fresh id. The signature is URL-safe base64 without padding.

# Bearer Tokens

FormGuard API tokens are opaque. BearerHeader formats the Authorization
header value:

	req.Header.Set("Authorization", auth.BearerHeader(token))

# IP Hashing

For privacy-preserving log lines (e.g. throttled magic-link requests):

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
