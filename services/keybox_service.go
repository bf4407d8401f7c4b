package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/walletkit/go-wallet-auth/repository"
	"github.com/walletkit/go-wallet-auth/types"
)

const (
	keyboxKeyPrefix   = "keybox/"
	recoveryKeyPrefix = "recovery_auth/"
)

// AccountDiscovery resolves the currently relevant auth public key for
// (account, scope) from whatever account or in-progress recovery state
// exists locally. types.ErrNotFound means no account applies.
type AccountDiscovery interface {
	ActiveAuthKey(ctx context.Context, accountID string, scope types.AuthTokenScope) (string, error)
}

// KeyboxService persists the active key bundle for an account and implements
// account discovery over it. A pending recovery's auth key, when present,
// takes precedence for the Recovery scope.
type KeyboxService struct {
	store repository.Store
}

func NewKeyboxService(store repository.Store) *KeyboxService {
	return &KeyboxService{store: store}
}

func (ks *KeyboxService) Save(ctx context.Context, keybox *types.Keybox) error {
	encoded, err := cbor.Marshal(keybox)
	if err != nil {
		return err
	}
	return ks.store.Put(ctx, keyboxKeyPrefix+keybox.AccountID, encoded)
}

func (ks *KeyboxService) Get(ctx context.Context, accountID string) (*types.Keybox, error) {
	encoded, err := ks.store.Get(ctx, keyboxKeyPrefix+accountID)
	if err != nil {
		return nil, err
	}
	var keybox types.Keybox
	if uErr := cbor.Unmarshal(encoded, &keybox); uErr != nil {
		return nil, uErr
	}
	return &keybox, nil
}

// SetRecoveryAuthKey records the auth key of an in-progress recovery so it is
// discoverable before the recovered keybox is finalized.
func (ks *KeyboxService) SetRecoveryAuthKey(ctx context.Context, accountID string, scope types.AuthTokenScope, publicKey string) error {
	return ks.store.Put(ctx, recoveryKey(accountID, scope), []byte(publicKey))
}

func (ks *KeyboxService) ClearRecoveryAuthKey(ctx context.Context, accountID string, scope types.AuthTokenScope) error {
	return ks.store.Delete(ctx, recoveryKey(accountID, scope))
}

func recoveryKey(accountID string, scope types.AuthTokenScope) string {
	return fmt.Sprintf("%s%s/%s", recoveryKeyPrefix, accountID, scope)
}

func (ks *KeyboxService) ActiveAuthKey(ctx context.Context, accountID string, scope types.AuthTokenScope) (string, error) {
	recovery, rErr := ks.store.Get(ctx, recoveryKey(accountID, scope))
	if rErr == nil && len(recovery) > 0 {
		return string(recovery), nil
	}
	if rErr != nil && !errors.Is(rErr, types.ErrNotFound) {
		return "", rErr
	}

	keybox, kErr := ks.Get(ctx, accountID)
	if kErr != nil {
		return "", kErr
	}
	switch scope {
	case types.AuthTokenScopeRecovery:
		return keybox.ActiveKeySet.RecoveryAuthPublicKey, nil
	default:
		return keybox.ActiveKeySet.GlobalAuthPublicKey, nil
	}
}
