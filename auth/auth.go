// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidDeviceID = errors.New("invalid device id")
)

// GenerateDeviceID creates a random browser identifier
func GenerateDeviceID() string {
	return uuid.NewString()
}

// signature is the URL-safe, unpadded HMAC-SHA256 of value
func signature(value, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(value))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// SignDeviceID returns the cookie value "<id>.<signature>"
func SignDeviceID(deviceID, salt string) string {
	return deviceID + "." + signature(deviceID, salt)
}

// VerifyDeviceID checks a signed cookie value and returns the device id
func VerifyDeviceID(cookieValue, salt string) (string, error) {
	id, sig, ok := strings.Cut(cookieValue, ".")
	if !ok || id == "" || sig == "" {
		return "", ErrInvalidDeviceID
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrInvalidDeviceID
	}
	if !hmac.Equal([]byte(sig), []byte(signature(id, salt))) {
		return "", ErrInvalidDeviceID
	}
	return id, nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for log correlation
	return hex.EncodeToString(sum[:8])
}

// BearerHeader formats a token for the Authorization header
func BearerHeader(token string) string {
	return "Bearer " + token
}
