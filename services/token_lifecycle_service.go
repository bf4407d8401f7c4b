package services

import (
	"context"
	"errors"

	"github.com/go-kit/log/level"
	"github.com/walletkit/go-wallet-auth/f8e"
	"github.com/walletkit/go-wallet-auth/global"
	"github.com/walletkit/go-wallet-auth/metrics"
	"github.com/walletkit/go-wallet-auth/types"
)

// TokenLifecycleService exposes cached token pairs and a refresh operation
// with a two-tier fallback: the refresh token is tried first, full
// re-authentication via the challenge protocol only when the refresh token is
// rejected. Refresh tokens expire independently of the signing key's
// validity, and unconditionally re-authenticating would mask server-side
// refresh-token bugs.
type TokenLifecycleService struct {
	tokenStore *TokenStoreService
	auth       *AuthService
	f8eClient  *f8e.Client
	discovery  AccountDiscovery
	status     *types.AuthSignatureStatusHandle
	mode       string
}

func NewTokenLifecycleService(tokenStore *TokenStoreService, auth *AuthService, f8eClient *f8e.Client, discovery AccountDiscovery, status *types.AuthSignatureStatusHandle, mode string) *TokenLifecycleService {
	return &TokenLifecycleService{
		tokenStore: tokenStore,
		auth:       auth,
		f8eClient:  f8eClient,
		discovery:  discovery,
		status:     status,
		mode:       mode,
	}
}

// GetTokens returns the cached pair for (account, scope), nil when absent.
func (tls *TokenLifecycleService) GetTokens(ctx context.Context, accountID string, scope types.AuthTokenScope) (*types.AccountAuthTokens, *types.AuthError) {
	tokens, err := tls.tokenStore.Get(ctx, accountID, scope)
	if err != nil {
		return nil, types.NewStorageError(err)
	}
	return tokens, nil
}

func (tls *TokenLifecycleService) SetTokens(ctx context.Context, accountID string, scope types.AuthTokenScope, tokens types.AccountAuthTokens) *types.AuthError {
	if err := tls.tokenStore.Set(ctx, accountID, scope, tokens); err != nil {
		return types.NewStorageError(err)
	}
	return nil
}

// Refresh obtains a fresh pair for (account, scope) and persists it.
func (tls *TokenLifecycleService) Refresh(ctx context.Context, env types.F8eEnvironment, accountID string, scope types.AuthTokenScope) (*types.AccountAuthTokens, *types.AuthError) {
	// a refresh token may still be valid even without a locally resolvable
	// account (e.g. mid-onboarding), so a missing account is not fatal here
	appAuthKey, dErr := tls.discovery.ActiveAuthKey(ctx, accountID, scope)
	if dErr != nil {
		if !errors.Is(dErr, types.ErrNotFound) {
			metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
			return nil, types.NewStorageError(dErr)
		}
		appAuthKey = ""
	}

	cached, gErr := tls.tokenStore.Get(ctx, accountID, scope)
	if gErr != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
		return nil, types.NewStorageError(gErr)
	}
	if cached == nil {
		metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
		return nil, types.NewStorageError(types.ErrNotFound)
	}

	fresh, rErr := tls.f8eClient.RefreshToken(ctx, env, cached.RefreshToken)
	var newTokens types.AccountAuthTokens
	if rErr == nil {
		newTokens = types.AccountAuthTokens{AccessToken: fresh.AccessToken, RefreshToken: fresh.RefreshToken}
		metrics.TokenRefreshTotal.WithLabelValues("refreshed").Inc()
	} else {
		level.Debug(global.Logger).Log("msg", "refresh token rejected, falling back to re-authentication", "accountId", accountID, "err", rErr.Error())
		if appAuthKey == "" {
			metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
			return nil, types.NewAccountMissingError(rErr)
		}
		result, aErr := tls.auth.AuthenticateWithKey(ctx, env, appAuthKey, scope)
		if aErr != nil {
			if aErr.Kind == types.AuthErrorSignatureMismatch {
				// read elsewhere to gate backend availability assumptions
				tls.status.Set(types.AuthSignatureUnauthenticated)
			}
			metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
			return nil, aErr
		}
		tls.status.Set(types.AuthSignatureAuthenticated)
		newTokens = result.Tokens
		metrics.TokenRefreshTotal.WithLabelValues("reauthenticated").Inc()
	}

	if sErr := tls.tokenStore.Set(ctx, accountID, scope, newTokens); sErr != nil {
		return nil, types.NewStorageError(sErr)
	}
	return &newTokens, nil
}

// Clear wipes every stored token pair. Rejected outside development and test
// builds.
func (tls *TokenLifecycleService) Clear(ctx context.Context) *types.AuthError {
	if tls.mode == global.ModeProduction {
		return types.NewStorageError(types.ErrWipeNotAllowed)
	}
	if err := tls.tokenStore.Clear(ctx); err != nil {
		return types.NewStorageError(err)
	}
	tls.status.Reset()
	return nil
}
