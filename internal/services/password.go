package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// legacyHashLength is the length of the hex encoded SHA-256 digests stored
// by accounts that predate bcrypt.
const legacyHashLength = sha256.Size * 2

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// verifyPassword checks password against a stored hash. The second return
// value reports whether the stored hash is a legacy digest that should be
// replaced.
func verifyPassword(stored, password string) (ok bool, legacy bool) {
	if isLegacyHash(stored) {
		sum := sha256.Sum256([]byte(password))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1, true
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
}

func isLegacyHash(stored string) bool {
	if len(stored) != legacyHashLength {
		return false
	}
	for _, r := range stored {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
