package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the stored hashes were created with.
const bcryptCost = 12

// prehash compresses the password to a fixed 44-byte digest so bcrypt's
// 72-byte input limit can never reject a valid password. The pepper keys
// the HMAC rather than being appended to the input.
func prehash(password, pepper string) []byte {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(password))
	digest := mac.Sum(nil)

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(digest)))
	base64.StdEncoding.Encode(encoded, digest)
	return encoded
}

// HashPassword hashes an HMAC prehash of the password. The pepper is a
// server-wide secret, on top of bcrypt's per-hash salt.
func HashPassword(password, pepper string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(password, pepper), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password, pepper string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password, pepper)) == nil
}
