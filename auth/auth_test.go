// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name   string
		pollID int64
		salt   string
	}{
		{"standard", 42, "secret-salt"},
		{"zero poll id", 0, "salt"},
		{"empty salt", 456, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.pollID, tt.salt)

			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			key2 := GenerateAdminKey(tt.pollID, tt.salt)
			if key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			if tt.salt != "" {
				differentKey := GenerateAdminKey(tt.pollID+1, tt.salt)
				if key == differentKey {
					t.Error("GenerateAdminKey() produced same key for different poll IDs")
				}
			}

			if strings.Contains(key, "=") {
				t.Error("GenerateAdminKey() contains padding characters")
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	var pollID int64 = 123
	salt := "test-salt"
	validKey := GenerateAdminKey(pollID, salt)

	tests := []struct {
		name     string
		pollID   int64
		adminKey string
		salt     string
		wantErr  bool
	}{
		{"valid key", pollID, validKey, salt, false},
		{"wrong key", pollID, "wrong-key", salt, true},
		{"wrong poll id", 124, validKey, salt, true},
		{"wrong salt", pollID, validKey, "different-salt", true},
		{"empty key", pollID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.pollID, tt.adminKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, ErrInvalidAdminKey)
			}
		})
	}
}

func TestGenerateEditToken(t *testing.T) {
	token, err := GenerateEditToken()
	if err != nil {
		t.Fatalf("GenerateEditToken() error = %v", err)
	}

	if strings.Contains(token, "=") {
		t.Error("GenerateEditToken() contains padding characters")
	}

	// 24 bytes encoded
	if len(token) < 30 {
		t.Errorf("GenerateEditToken() too short: %d chars", len(token))
	}

	tokens := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateEditToken()
		if err != nil {
			t.Fatalf("GenerateEditToken() error on iteration %d: %v", i, err)
		}
		if tokens[token] {
			t.Errorf("GenerateEditToken() produced duplicate token: %s", token)
		}
		tokens[token] = true
	}
}

func TestEditTokenHashing(t *testing.T) {
	token, _ := GenerateEditToken()
	hash := HashEditToken(token, "salt")

	if hash == token {
		t.Fatal("HashEditToken() returned the token itself")
	}
	if len(hash) != 64 {
		t.Errorf("HashEditToken() length = %d, want 64", len(hash))
	}

	tests := []struct {
		name    string
		token   string
		salt    string
		wantErr bool
	}{
		{"matching token", token, "salt", false},
		{"other token", token + "x", "salt", true},
		{"other salt", token, "pepper", true},
		{"empty token", "", "salt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyEditToken(tt.token, hash, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifyEditToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidEditToken {
				t.Errorf("VerifyEditToken() error = %v, want %v", err, ErrInvalidEditToken)
			}
		})
	}
}

func TestGenerateShareSlug(t *testing.T) {
	tests := []struct {
		name  string
		nonce string
		salt  string
	}{
		{"standard", "nonce-abc-123", "slug-salt"},
		{"different nonce", "nonce-xyz-456", "slug-salt"},
		{"different salt", "nonce-abc-123", "other-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug := GenerateShareSlug(tt.nonce, tt.salt)

			// Should not be empty
			if slug == "" {
				t.Error("GenerateShareSlug() returned empty string")
			}

			// Should be deterministic
			slug2 := GenerateShareSlug(tt.nonce, tt.salt)
			if slug != slug2 {
				t.Error("GenerateShareSlug() is not deterministic")
			}

			// Should be reasonably short
			if len(slug) > 15 {
				t.Errorf("GenerateShareSlug() too long: %d chars", len(slug))
			}

			// Should be URL-safe (alphanumeric only)
			for _, c := range slug {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
					t.Errorf("GenerateShareSlug() contains non-alphanumeric char: %c", c)
				}
			}
		})
	}

	// Different inputs should produce different slugs
	slug1 := GenerateShareSlug("poll1", "salt")
	slug2 := GenerateShareSlug("poll2", "salt")
	if slug1 == slug2 {
		t.Error("GenerateShareSlug() produced same slug for different nonces")
	}

	slug3 := GenerateShareSlug("poll1", "salt1")
	slug4 := GenerateShareSlug("poll1", "salt2")
	if slug3 == slug4 {
		t.Error("GenerateShareSlug() produced same slug for different salts")
	}
}

func TestNewShareSlug(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		slug, err := NewShareSlug("salt")
		if err != nil {
			t.Fatalf("NewShareSlug() error = %v", err)
		}
		if seen[slug] {
			t.Errorf("NewShareSlug() produced duplicate slug: %s", slug)
		}
		seen[slug] = true
	}
}

func TestBase62Encode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"zero bytes", []byte{0, 0, 0, 0}},
		{"small value", []byte{0, 0, 0, 1}},
		{"large value", []byte{255, 255, 255, 255, 255, 255, 255, 255}},
		{"mixed value", []byte{42, 123, 200, 17}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := base62Encode(tt.input)

			// Should not be empty (except for all zeros -> "0")
			if result == "" {
				t.Error("base62Encode() returned empty string")
			}

			// Should only contain base62 characters
			for _, c := range result {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
					t.Errorf("base62Encode() contains invalid char: %c", c)
				}
			}

			// Should be deterministic
			result2 := base62Encode(tt.input)
			if result != result2 {
				t.Error("base62Encode() is not deterministic")
			}
		})
	}

	// Different inputs should produce different outputs
	out1 := base62Encode([]byte{1, 2, 3, 4})
	out2 := base62Encode([]byte{5, 6, 7, 8})
	if out1 == out2 {
		t.Error("base62Encode() produced same output for different inputs")
	}
}

// Benchmark tests
func BenchmarkGenerateID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateID(16)
	}
}

func BenchmarkGenerateAdminKey(b *testing.B) {
	salt := "test-salt"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateAdminKey(int64(i), salt)
	}
}

func BenchmarkGenerateEditToken(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateEditToken()
	}
}

func BenchmarkGenerateShareSlug(b *testing.B) {
	nonce := "test-nonce"
	salt := "slug-salt"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateShareSlug(nonce, salt)
	}
}
