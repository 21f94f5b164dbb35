// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidAdminKey  = errors.New("invalid admin key")
	ErrInvalidEditToken = errors.New("invalid edit token")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func sign(salt string, parts ...string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return h.Sum(nil)
}

// GenerateAdminKey creates the organizer key for a poll.
// Deterministic, so it never needs to be stored.
func GenerateAdminKey(pollID int64, salt string) string {
	sum := sign(salt, "admin", strconv.FormatInt(pollID, 10))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the poll
func ValidateAdminKey(pollID int64, adminKey, salt string) error {
	expected := GenerateAdminKey(pollID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateEditToken creates the possession token handed to a respondent.
// Whoever holds it may edit that response.
func GenerateEditToken() (string, error) {
	b := make([]byte, 24) // 192 bits
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate edit token: %w", err)
	}
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// HashEditToken is what the store keeps instead of the token itself
func HashEditToken(token, salt string) string {
	return hex.EncodeToString(sign(salt, "edit", token))
}

// VerifyEditToken checks a presented token against a stored hash
func VerifyEditToken(token, hash, salt string) error {
	if token == "" {
		return ErrInvalidEditToken
	}
	if !hmac.Equal([]byte(HashEditToken(token, salt)), []byte(hash)) {
		return ErrInvalidEditToken
	}
	return nil
}

// GenerateShareSlug creates a short URL slug from a random nonce.
// Uses HMAC for determinism and base62 encoding for URL-friendliness
func GenerateShareSlug(nonce, salt string) string {
	sum := sign(salt, nonce)

	// Take first 8 bytes for a shorter slug
	return base62Encode(sum[:8])
}

// NewShareSlug draws a fresh nonce and derives a slug from it
func NewShareSlug(salt string) (string, error) {
	nonce, err := GenerateID(16)
	if err != nil {
		return "", err
	}
	return GenerateShareSlug(nonce, salt), nil
}

// base62Encode converts bytes to base62 (0-9, a-z, A-Z)
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}
