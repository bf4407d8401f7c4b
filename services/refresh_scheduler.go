package services

import (
	"context"
	"time"

	"github.com/go-kit/log/level"
	"github.com/robfig/cron/v3"
	"github.com/walletkit/go-wallet-auth/global"
	"github.com/walletkit/go-wallet-auth/types"
	"github.com/walletkit/go-wallet-auth/util"
)

// RefreshScheduler proactively refreshes token pairs on the environment's
// cron so interactive calls rarely block on an expired access token. Tokens
// stay opaque: when the access token parses as a JWS its exp claim is used to
// skip refreshes that would be pointless, otherwise every tick refreshes.
type RefreshScheduler struct {
	env       *types.Environment
	lifecycle *TokenLifecycleService
	minTTL    time.Duration
}

func NewRefreshScheduler(env *types.Environment, lifecycle *TokenLifecycleService, minTTL time.Duration) *RefreshScheduler {
	return &RefreshScheduler{env: env, lifecycle: lifecycle, minTTL: minTTL}
}

// Schedule registers a refresh job for (account, scope) on the given cron
// spec (e.g. "@every 15m").
func (rs *RefreshScheduler) Schedule(cronSpec string, f8eEnv types.F8eEnvironment, accountID string, scope types.AuthTokenScope) (cron.EntryID, error) {
	return rs.env.Cron.AddFunc(cronSpec, func() {
		rs.RunOnce(f8eEnv, accountID, scope)
	})
}

// RunOnce performs a single refresh pass.
func (rs *RefreshScheduler) RunOnce(f8eEnv types.F8eEnvironment, accountID string, scope types.AuthTokenScope) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	tokens, gErr := rs.lifecycle.GetTokens(ctx, accountID, scope)
	if gErr != nil || tokens == nil {
		// nothing cached to keep fresh
		return
	}
	if expiry, ok := util.TokenExpiry(tokens.AccessToken); ok {
		if time.Until(expiry) > rs.minTTL {
			return
		}
	}
	if _, rErr := rs.lifecycle.Refresh(ctx, f8eEnv, accountID, scope); rErr != nil {
		level.Warn(global.Logger).Log("msg", "scheduled token refresh failed", "accountId", accountID, "scope", scope, "err", rErr.Error())
	}
}

func (rs *RefreshScheduler) Start() {
	rs.env.Cron.Start()
}

func (rs *RefreshScheduler) Stop() {
	rs.env.Cron.Stop()
}
