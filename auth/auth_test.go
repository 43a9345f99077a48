// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateDeviceID(t *testing.T) {
	id := GenerateDeviceID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("GenerateDeviceID() returned non-UUID %q: %v", id, err)
	}

	// Test randomness - should not produce duplicates
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateDeviceID()
		if ids[id] {
			t.Errorf("GenerateDeviceID() produced duplicate id: %s", id)
		}
		ids[id] = true
	}
}

func TestSignDeviceID(t *testing.T) {
	id := GenerateDeviceID()
	value := SignDeviceID(id, "salt")

	if !strings.HasPrefix(value, id+".") {
		t.Errorf("SignDeviceID() = %q, want prefix %q", value, id+".")
	}

	// Should be deterministic
	if value != SignDeviceID(id, "salt") {
		t.Error("SignDeviceID() is not deterministic")
	}

	// Should be URL-safe (no padding)
	if strings.Contains(value, "=") {
		t.Error("SignDeviceID() contains padding characters")
	}

	if value == SignDeviceID(id, "other-salt") {
		t.Error("SignDeviceID() produced same value for different salts")
	}
}

func TestVerifyDeviceID(t *testing.T) {
	id := GenerateDeviceID()
	salt := "test-salt"
	valid := SignDeviceID(id, salt)

	tests := []struct {
		name    string
		value   string
		salt    string
		wantErr bool
	}{
		{"valid", valid, salt, false},
		{"wrong salt", valid, "different-salt", true},
		{"tampered id", SignDeviceID(GenerateDeviceID(), salt)[:36] + valid[36:], salt, true},
		{"missing signature", id, salt, true},
		{"empty signature", id + ".", salt, true},
		{"not a uuid", SignDeviceID("not-a-uuid", salt), salt, true},
		{"empty", "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyDeviceID(tt.value, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifyDeviceID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidDeviceID {
				t.Errorf("VerifyDeviceID() error = %v, want %v", err, ErrInvalidDeviceID)
			}
			if !tt.wantErr && got != id {
				t.Errorf("VerifyDeviceID() = %q, want %q", got, id)
			}
		})
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"IPv4", "192.168.1.1", "ip-salt"},
		{"IPv6", "2001:0db8:85a3::8a2e:0370:7334", "ip-salt"},
		{"localhost", "127.0.0.1", "ip-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)

			// Should be 16 hex characters (8 bytes * 2)
			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}

			// Should be valid hex
			for _, c := range hash {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("HashIP() contains invalid hex char: %c", c)
				}
			}

			// Should be deterministic
			if hash != HashIP(tt.ip, tt.salt) {
				t.Error("HashIP() is not deterministic")
			}
		})
	}

	if HashIP("192.168.1.1", "salt") == HashIP("192.168.1.2", "salt") {
		t.Error("HashIP() produced same hash for different IPs")
	}
	if HashIP("192.168.1.1", "salt1") == HashIP("192.168.1.1", "salt2") {
		t.Error("HashIP() produced same hash for different salts")
	}
}

func TestBearerHeader(t *testing.T) {
	if got := BearerHeader("abc.def"); got != "Bearer abc.def" {
		t.Errorf("BearerHeader() = %q", got)
	}
}

// Benchmark tests
func BenchmarkSignDeviceID(b *testing.B) {
	id := GenerateDeviceID()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SignDeviceID(id, "salt")
	}
}

func BenchmarkVerifyDeviceID(b *testing.B) {
	value := SignDeviceID(GenerateDeviceID(), "salt")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		VerifyDeviceID(value, "salt")
	}
}
