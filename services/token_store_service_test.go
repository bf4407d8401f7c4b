package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walletkit/go-wallet-auth/repository"
	"github.com/walletkit/go-wallet-auth/types"
)

func TestTokenStoreSetGet(t *testing.T) {
	store := NewTokenStoreService(repository.NewMemoryStore())
	ctx := context.Background()

	pair := types.AccountAuthTokens{AccessToken: "access", RefreshToken: "refresh"}
	assert.NoError(t, store.Set(ctx, "account-1", types.AuthTokenScopeGlobal, pair))

	got, err := store.Get(ctx, "account-1", types.AuthTokenScopeGlobal)
	assert.NoError(t, err)
	assert.Equal(t, &pair, got)
}

func TestTokenStoreScopesAreIndependent(t *testing.T) {
	store := NewTokenStoreService(repository.NewMemoryStore())
	ctx := context.Background()

	globalPair := types.AccountAuthTokens{AccessToken: "ga", RefreshToken: "gr"}
	recoveryPair := types.AccountAuthTokens{AccessToken: "ra", RefreshToken: "rr"}
	assert.NoError(t, store.Set(ctx, "account-1", types.AuthTokenScopeGlobal, globalPair))
	assert.NoError(t, store.Set(ctx, "account-1", types.AuthTokenScopeRecovery, recoveryPair))

	got, err := store.Get(ctx, "account-1", types.AuthTokenScopeRecovery)
	assert.NoError(t, err)
	assert.Equal(t, &recoveryPair, got)

	got, err = store.Get(ctx, "account-1", types.AuthTokenScopeGlobal)
	assert.NoError(t, err)
	assert.Equal(t, &globalPair, got)
}

func TestTokenStoreAbsentIsNil(t *testing.T) {
	store := NewTokenStoreService(repository.NewMemoryStore())

	got, err := store.Get(context.Background(), "account-1", types.AuthTokenScopeGlobal)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenStoreLegacyFallback(t *testing.T) {
	mem := repository.NewMemoryStore()
	store := NewTokenStoreService(mem)
	ctx := context.Background()

	// tokens written before scoping was introduced live under unscoped keys
	assert.NoError(t, mem.Put(ctx, "auth_tokens/account-1/access_token", []byte("legacy-access")))
	assert.NoError(t, mem.Put(ctx, "auth_tokens/account-1/refresh_token", []byte("legacy-refresh")))

	got, err := store.Get(ctx, "account-1", types.AuthTokenScopeGlobal)
	assert.NoError(t, err)
	assert.Equal(t, &types.AccountAuthTokens{AccessToken: "legacy-access", RefreshToken: "legacy-refresh"}, got)

	// the fallback never applies to the recovery scope
	got, err = store.Get(ctx, "account-1", types.AuthTokenScopeRecovery)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenStoreScopedShadowsLegacy(t *testing.T) {
	mem := repository.NewMemoryStore()
	store := NewTokenStoreService(mem)
	ctx := context.Background()

	assert.NoError(t, mem.Put(ctx, "auth_tokens/account-1/access_token", []byte("legacy-access")))
	assert.NoError(t, mem.Put(ctx, "auth_tokens/account-1/refresh_token", []byte("legacy-refresh")))
	assert.NoError(t, store.Set(ctx, "account-1", types.AuthTokenScopeGlobal, types.AccountAuthTokens{AccessToken: "access", RefreshToken: "refresh"}))

	got, err := store.Get(ctx, "account-1", types.AuthTokenScopeGlobal)
	assert.NoError(t, err)
	assert.Equal(t, "access", got.AccessToken)
}

func TestTokenStoreClear(t *testing.T) {
	mem := repository.NewMemoryStore()
	store := NewTokenStoreService(mem)
	ctx := context.Background()

	assert.NoError(t, mem.Put(ctx, "auth_tokens/account-1/access_token", []byte("legacy-access")))
	assert.NoError(t, store.Set(ctx, "account-1", types.AuthTokenScopeGlobal, types.AccountAuthTokens{AccessToken: "a", RefreshToken: "r"}))
	assert.NoError(t, store.Set(ctx, "account-2", types.AuthTokenScopeRecovery, types.AccountAuthTokens{AccessToken: "a", RefreshToken: "r"}))

	assert.NoError(t, store.Clear(ctx))

	keys, _ := mem.Keys(ctx, "auth_tokens/")
	assert.Empty(t, keys)
}
