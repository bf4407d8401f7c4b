package services

import (
	"crypto/ed25519"
	"encoding/base64"
	"sync"

	"github.com/walletkit/go-wallet-auth/types"
	"github.com/walletkit/go-wallet-auth/util"
)

// Signer produces signatures keyed by which public key the matching private
// key belongs to. The curve arithmetic stays behind this interface.
type Signer interface {
	Sign(publicKeyBase64 string, message []byte) ([]byte, error)
}

// KeyringSigner holds ed25519 private keys indexed by their base64 encoded
// public key.
type KeyringSigner struct {
	mu   sync.Mutex
	keys map[string]ed25519.PrivateKey
}

func NewKeyringSigner() *KeyringSigner {
	return &KeyringSigner{keys: map[string]ed25519.PrivateKey{}}
}

// AddKey registers a private key and returns the base64 public key it is
// indexed under.
func (k *KeyringSigner) AddKey(privateKey ed25519.PrivateKey) string {
	publicKey := util.EncodePublicKey(privateKey.Public().(ed25519.PublicKey))
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[publicKey] = privateKey
	return publicKey
}

func (k *KeyringSigner) RemoveKey(publicKeyBase64 string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.keys, publicKeyBase64)
}

func (k *KeyringSigner) Sign(publicKeyBase64 string, message []byte) ([]byte, error) {
	if !util.IsEd25519PublicKey(publicKeyBase64) {
		return nil, types.ErrBadRequest
	}
	k.mu.Lock()
	privateKey, ok := k.keys[publicKeyBase64]
	k.mu.Unlock()
	if !ok {
		return nil, types.ErrUnknownSigningKey
	}
	return ed25519.Sign(privateKey, message), nil
}

// SignBase64 is a convenience wrapper returning the signature base64 encoded.
func (k *KeyringSigner) SignBase64(publicKeyBase64 string, message []byte) (string, error) {
	signature, err := k.Sign(publicKeyBase64, message)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(signature), nil
}
