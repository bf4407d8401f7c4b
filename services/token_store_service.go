package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/walletkit/go-wallet-auth/repository"
	"github.com/walletkit/go-wallet-auth/types"
)

const tokenKeyPrefix = "auth_tokens/"

// TokenStoreService durably stores access/refresh token pairs keyed by
// (account, scope).
type TokenStoreService struct {
	store repository.Store
}

func NewTokenStoreService(store repository.Store) *TokenStoreService {
	return &TokenStoreService{store: store}
}

func scopedKey(accountID string, scope types.AuthTokenScope, part string) string {
	return fmt.Sprintf("%s%s/%s/%s", tokenKeyPrefix, accountID, scope, part)
}

// pre-multi-scope schema stored tokens without a scope segment
func legacyKey(accountID string, part string) string {
	return fmt.Sprintf("%s%s/%s", tokenKeyPrefix, accountID, part)
}

// Get returns the stored pair or nil when absent. When either scoped key is
// missing and scope is Global, the legacy unscoped keys are consulted before
// concluding absence, so tokens issued before scoping was introduced don't
// force a re-authentication. The fallback never applies to Recovery.
func (ts *TokenStoreService) Get(ctx context.Context, accountID string, scope types.AuthTokenScope) (*types.AccountAuthTokens, error) {
	access, aErr := ts.store.Get(ctx, scopedKey(accountID, scope, "access_token"))
	refresh, rErr := ts.store.Get(ctx, scopedKey(accountID, scope, "refresh_token"))
	if aErr == nil && rErr == nil {
		return &types.AccountAuthTokens{AccessToken: string(access), RefreshToken: string(refresh)}, nil
	}
	if (aErr != nil && !errors.Is(aErr, types.ErrNotFound)) || (rErr != nil && !errors.Is(rErr, types.ErrNotFound)) {
		return nil, errors.Join(aErr, rErr)
	}

	if scope != types.AuthTokenScopeGlobal {
		return nil, nil
	}

	access, aErr = ts.store.Get(ctx, legacyKey(accountID, "access_token"))
	refresh, rErr = ts.store.Get(ctx, legacyKey(accountID, "refresh_token"))
	if errors.Is(aErr, types.ErrNotFound) || errors.Is(rErr, types.ErrNotFound) {
		return nil, nil
	}
	if aErr != nil || rErr != nil {
		return nil, errors.Join(aErr, rErr)
	}
	return &types.AccountAuthTokens{AccessToken: string(access), RefreshToken: string(refresh)}, nil
}

// Set writes the pair as two keys in one logical operation. The writes are
// sequential; a failure means the pair must be treated as not updated.
func (ts *TokenStoreService) Set(ctx context.Context, accountID string, scope types.AuthTokenScope, tokens types.AccountAuthTokens) error {
	if err := ts.store.Put(ctx, scopedKey(accountID, scope, "access_token"), []byte(tokens.AccessToken)); err != nil {
		return err
	}
	return ts.store.Put(ctx, scopedKey(accountID, scope, "refresh_token"), []byte(tokens.RefreshToken))
}

// Clear removes every stored token pair, scoped and legacy.
func (ts *TokenStoreService) Clear(ctx context.Context) error {
	keys, err := ts.store.Keys(ctx, tokenKeyPrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if dErr := ts.store.Delete(ctx, key); dErr != nil {
			return dErr
		}
	}
	return nil
}
