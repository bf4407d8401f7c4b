package util

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	src "math/rand"
)

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const (
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

// Generates a random nonce of custom length in bytes
// method based on https://stackoverflow.com/questions/22892120/how-to-generate-a-random-string-of-a-fixed-length-in-go
// 5. Masking improved version
func GenerateNonce(n int) string {
	b := make([]byte, n)
	// A src.Int63() generates 63 random bits, enough for letterIdxMax characters!
	for i, cache, remain := n-1, src.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = src.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}

	return string(b)
}

// Check if a base64 string is an ed25519 public key.
func IsEd25519PublicKey(b64Key string) bool {
	decoded, err := base64.StdEncoding.DecodeString(b64Key)
	if err != nil {
		// Base64 decoding error.
		return false
	}
	if len(decoded) != ed25519.PublicKeySize {
		// The key is not the correct size.
		return false
	}

	// It's a valid size, so we'll assume it's an Ed25519 public key.
	return true
}

// GenerateAuthKeyPair generates a fresh ed25519 key pair; the public key is
// returned base64 encoded the way the service expects it.
func GenerateAuthKeyPair() (string, ed25519.PrivateKey, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", nil, err
	}
	return base64.StdEncoding.EncodeToString(public), private, nil
}

// EncodePublicKey encodes a raw ed25519 public key to base64.
func EncodePublicKey(pubKey ed25519.PublicKey) string {
	return base64.StdEncoding.EncodeToString(pubKey)
}
