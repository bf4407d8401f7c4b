package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/walletkit/go-wallet-auth/types"
	"github.com/walletkit/go-wallet-auth/util"
	"golang.org/x/crypto/chacha20poly1305"
)

const saltSize = util.SaltSize

// on-disk layout: salt || nonce || sealed cbor map
type fileRecords struct {
	Values map[string][]byte `cbor:"values"`
}

// SecureFileStore is an I/O thread-safe, encrypted single-file store. The
// full record map is kept in memory; every mutation re-seals and atomically
// rewrites the file (tmp + rename), so a crashed write never corrupts the
// previous state.
type SecureFileStore struct {
	mu     sync.Mutex
	path   string
	key    []byte
	salt   []byte
	values map[string][]byte
}

func NewSecureFileStore(path string, passphrase string) (*SecureFileStore, error) {
	if passphrase == "" {
		return nil, types.ErrBadRequest
	}
	sf := &SecureFileStore{
		path:   path,
		values: map[string][]byte{},
	}

	fileBytes, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		// fresh store
		salt := make([]byte, saltSize)
		if _, rErr := rand.Read(salt); rErr != nil {
			return nil, rErr
		}
		sf.salt = salt
		key, kErr := util.DeriveKey(passphrase, salt)
		if kErr != nil {
			return nil, kErr
		}
		sf.key = key
		return sf, nil
	}

	if len(fileBytes) < saltSize+chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("store file %s is truncated", path)
	}
	sf.salt = fileBytes[:saltSize]
	key, kErr := util.DeriveKey(passphrase, sf.salt)
	if kErr != nil {
		return nil, kErr
	}
	sf.key = key

	aead, aErr := chacha20poly1305.NewX(key)
	if aErr != nil {
		return nil, aErr
	}
	nonce := fileBytes[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	sealed := fileBytes[saltSize+chacha20poly1305.NonceSizeX:]
	plain, oErr := aead.Open(nil, nonce, sealed, nil)
	if oErr != nil {
		return nil, fmt.Errorf("failed to unseal store %s: %w", path, oErr)
	}
	var records fileRecords
	if uErr := cbor.Unmarshal(plain, &records); uErr != nil {
		return nil, uErr
	}
	if records.Values != nil {
		sf.values = records.Values
	}
	return sf, nil
}

func (sf *SecureFileStore) Get(ctx context.Context, key string) ([]byte, error) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	value, ok := sf.values[key]
	if !ok {
		return nil, types.ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (sf *SecureFileStore) Put(ctx context.Context, key string, value []byte) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	previous, hadPrevious := sf.values[key]
	sf.values[key] = stored
	if err := sf.flushLocked(); err != nil {
		// roll the in-memory map back so memory and disk stay in sync
		if hadPrevious {
			sf.values[key] = previous
		} else {
			delete(sf.values, key)
		}
		return err
	}
	return nil
}

func (sf *SecureFileStore) Delete(ctx context.Context, key string) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	previous, ok := sf.values[key]
	if !ok {
		return nil
	}
	delete(sf.values, key)
	if err := sf.flushLocked(); err != nil {
		sf.values[key] = previous
		return err
	}
	return nil
}

func (sf *SecureFileStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	keys := []string{}
	for k := range sf.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (sf *SecureFileStore) flushLocked() error {
	plain, err := cbor.Marshal(fileRecords{Values: sf.values})
	if err != nil {
		return err
	}
	aead, aErr := chacha20poly1305.NewX(sf.key)
	if aErr != nil {
		return aErr
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, rErr := rand.Read(nonce); rErr != nil {
		return rErr
	}
	sealed := aead.Seal(nil, nonce, plain, nil)

	fileBytes := make([]byte, 0, saltSize+len(nonce)+len(sealed))
	fileBytes = append(fileBytes, sf.salt...)
	fileBytes = append(fileBytes, nonce...)
	fileBytes = append(fileBytes, sealed...)

	tmp := sf.path + ".tmp"
	if dErr := os.MkdirAll(filepath.Dir(sf.path), 0700); dErr != nil {
		return dErr
	}
	if wErr := os.WriteFile(tmp, fileBytes, 0600); wErr != nil {
		return wErr
	}
	return os.Rename(tmp, sf.path)
}
