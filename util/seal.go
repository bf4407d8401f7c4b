package util

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

var (
	scryptN   = 32768 // N = CPU/memory cost parameter (suitable as of 2017)
	scryptR   = 8     // r and p must satisfy r * p < 2^30
	scryptP   = 1
	scryptLen = chacha20poly1305.KeySize
)

const SaltSize = 16

// DeriveKey derives a chacha20poly1305 key from a passphrase and salt.
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, scryptLen)
}

// SealWithPassphrase encrypts plain into salt || nonce || ciphertext.
func SealWithPassphrase(passphrase string, plain []byte) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key, kErr := DeriveKey(passphrase, salt)
	if kErr != nil {
		return nil, kErr
	}
	aead, aErr := chacha20poly1305.NewX(key)
	if aErr != nil {
		return nil, aErr
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	sealed := aead.Seal(nil, nonce, plain, nil)

	out := make([]byte, 0, SaltSize+len(nonce)+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// OpenWithPassphrase reverses SealWithPassphrase.
func OpenWithPassphrase(passphrase string, sealed []byte) ([]byte, error) {
	if len(sealed) < SaltSize+chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("sealed payload is truncated")
	}
	salt := sealed[:SaltSize]
	key, kErr := DeriveKey(passphrase, salt)
	if kErr != nil {
		return nil, kErr
	}
	aead, aErr := chacha20poly1305.NewX(key)
	if aErr != nil {
		return nil, aErr
	}
	nonce := sealed[SaltSize : SaltSize+chacha20poly1305.NonceSizeX]
	return aead.Open(nil, nonce, sealed[SaltSize+chacha20poly1305.NonceSizeX:], nil)
}
