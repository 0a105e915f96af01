package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes      = 16
	pbkdf2Iters    = 100_000
	pbkdf2KeyBytes = 64
)

// HashPassword derives a PBKDF2-HMAC-SHA512 hash for the provided plaintext
// using a fresh random salt. Both the hash and the salt are hex encoded.
func HashPassword(password string) (hash, salt string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}

	salt = hex.EncodeToString(raw)
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iters, pbkdf2KeyBytes, sha512.New)
	return hex.EncodeToString(key), salt, nil
}

// VerifyPassword recomputes the derivation with the stored salt and compares
// it against the stored hash in constant time.
func VerifyPassword(password, hash, salt string) bool {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iters, pbkdf2KeyBytes, sha512.New)
	expected, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, expected) == 1
}
