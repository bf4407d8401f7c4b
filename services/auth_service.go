package services

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/walletkit/go-wallet-auth/f8e"
	"github.com/walletkit/go-wallet-auth/global"
	"github.com/walletkit/go-wallet-auth/metrics"
	"github.com/walletkit/go-wallet-auth/types"
)

// AuthService performs the app-key challenge/response login against the
// service. It is also the narrow primitive used to validate that a key pair
// still authenticates. It never writes tokens itself; callers persist the
// result.
type AuthService struct {
	f8eClient *f8e.Client
	signer    Signer
}

func NewAuthService(f8eClient *f8e.Client, signer Signer) *AuthService {
	return &AuthService{f8eClient: f8eClient, signer: signer}
}

// AuthenticateWithKey runs initiate -> sign -> complete. A 404 on initiate
// means the server does not recognize this public key and maps to
// SignatureMismatch; a signing failure maps to ProtocolError; everything else
// is NetworkError.
func (as *AuthService) AuthenticateWithKey(ctx context.Context, env types.F8eEnvironment, publicKey string, scope types.AuthTokenScope) (*types.AuthenticationResult, *types.AuthError) {
	challenge, cErr := as.f8eClient.InitiateChallenge(ctx, env, publicKey, scope)
	if cErr != nil {
		metrics.AuthChallengeAttemptsTotal.WithLabelValues("initiate_failed").Inc()
		if errors.Is(cErr, types.ErrNotFound) {
			return nil, types.NewSignatureMismatchError(cErr)
		}
		return nil, types.NewNetworkError(cErr)
	}

	signature, sErr := as.signer.Sign(publicKey, []byte(challenge.Challenge))
	if sErr != nil {
		metrics.AuthChallengeAttemptsTotal.WithLabelValues("signing_failed").Inc()
		return nil, types.NewProtocolError(sErr)
	}

	tokens, tErr := as.f8eClient.CompleteChallenge(ctx, env, challenge.Username, challenge.Session, base64.StdEncoding.EncodeToString(signature))
	if tErr != nil {
		metrics.AuthChallengeAttemptsTotal.WithLabelValues("complete_failed").Inc()
		global.Logger.Log("msg", "challenge completion failed", "accountId", challenge.AccountID, "err", tErr.Error())
		return nil, types.NewNetworkError(tErr)
	}

	metrics.AuthChallengeAttemptsTotal.WithLabelValues("success").Inc()
	return &types.AuthenticationResult{
		AccountID: challenge.AccountID,
		Tokens: types.AccountAuthTokens{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
		},
	}, nil
}

// AuthenticateWithSignature completes a challenge whose signature was
// produced out of band (e.g. by embedded secure hardware); it skips the
// initiate and signing steps.
func (as *AuthService) AuthenticateWithSignature(ctx context.Context, env types.F8eEnvironment, accountID, session, signatureBase64 string) (*types.AuthenticationResult, *types.AuthError) {
	tokens, tErr := as.f8eClient.CompleteChallenge(ctx, env, accountID, session, signatureBase64)
	if tErr != nil {
		return nil, types.NewNetworkError(tErr)
	}
	return &types.AuthenticationResult{
		AccountID: accountID,
		Tokens: types.AccountAuthTokens{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
		},
	}, nil
}
