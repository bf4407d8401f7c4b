package f8e

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/jarcoal/httpmock"
	"github.com/walletkit/go-wallet-auth/types"
)

// Client talks to the f8e service. The environment is threaded per call so
// one client serves all deployments.
type Client struct {
	client *resty.Client
}

func NewClient(mock bool) *Client {
	cl := resty.New().SetTimeout(time.Second * 10)
	cl.SetHeader("Content-Type", "application/json")
	cl.SetHeader("Accept", "application/json")
	cl.SetHeader("User-Agent", "go-wallet-auth/1.0.0")

	if mock {
		httpmock.ActivateNonDefault(cl.GetClient())
	}
	return &Client{client: cl}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.client.R().SetContext(ctx).SetHeader("X-Request-ID", uuid.NewString())
}

// InitiateChallenge starts the challenge login. A 404 means the service does
// not recognize the submitted public key for any account.
func (c *Client) InitiateChallenge(ctx context.Context, env types.F8eEnvironment, publicKey string, scope types.AuthTokenScope) (*types.InitiateChallengeResponse, error) {
	var result types.InitiateChallengeResponse
	var f8eErr types.F8eError
	resp, err := c.request(ctx).
		SetBody(&types.InitiateChallengeInput{AuthPublicKey: publicKey, Scope: scope}).
		SetResult(&result).
		SetError(&f8eErr).
		Post(fmt.Sprintf("%s/api/v1/auth/challenge", env.BaseURL))
	if err != nil {
		return nil, err
	}
	if hErr := handleError(resp); hErr != nil {
		return nil, hErr
	}
	return &result, nil
}

// CompleteChallenge exchanges the signed challenge for a fresh token pair.
func (c *Client) CompleteChallenge(ctx context.Context, env types.F8eEnvironment, username, session, signatureBase64 string) (*types.TokensResponse, error) {
	var result types.TokensResponse
	var f8eErr types.F8eError
	resp, err := c.request(ctx).
		SetBody(&types.CompleteChallengeInput{Username: username, Session: session, SignatureBase64: signatureBase64}).
		SetResult(&result).
		SetError(&f8eErr).
		Post(fmt.Sprintf("%s/api/v1/auth/challenge/complete", env.BaseURL))
	if err != nil {
		return nil, err
	}
	if hErr := handleError(resp); hErr != nil {
		return nil, hErr
	}
	return &result, nil
}

// RefreshToken trades a refresh token for a fresh token pair.
func (c *Client) RefreshToken(ctx context.Context, env types.F8eEnvironment, refreshToken string) (*types.TokensResponse, error) {
	var result types.TokensResponse
	var f8eErr types.F8eError
	resp, err := c.request(ctx).
		SetBody(&types.RefreshTokenInput{RefreshToken: refreshToken}).
		SetResult(&result).
		SetError(&f8eErr).
		Post(fmt.Sprintf("%s/api/v1/auth/refresh", env.BaseURL))
	if err != nil {
		return nil, err
	}
	if hErr := handleError(resp); hErr != nil {
		return nil, hErr
	}
	return &result, nil
}

// RotateKeyset submits a new auth key set for the account. The synchronous
// response is advisory only; callers validate the rotation by authenticating
// with the new keys.
func (c *Client) RotateKeyset(ctx context.Context, env types.F8eEnvironment, accountID string, input *types.RotateKeysetInput) error {
	var f8eErr types.F8eError
	resp, err := c.request(ctx).
		SetBody(input).
		SetError(&f8eErr).
		Put(fmt.Sprintf("%s/api/v1/accounts/%s/keysets", env.BaseURL, accountID))
	if err != nil {
		return err
	}
	return handleError(resp)
}

// ListTrustedContacts returns the account's social-recovery contacts.
func (c *Client) ListTrustedContacts(ctx context.Context, env types.F8eEnvironment, accountID string) ([]types.TrustedContact, error) {
	var result types.TrustedContactsResponse
	var f8eErr types.F8eError
	resp, err := c.request(ctx).
		SetResult(&result).
		SetError(&f8eErr).
		Get(fmt.Sprintf("%s/api/v1/accounts/%s/relationships", env.BaseURL, accountID))
	if err != nil {
		return nil, err
	}
	if hErr := handleError(resp); hErr != nil {
		return nil, hErr
	}
	return result.Contacts, nil
}

// UploadEndorsements replaces the endorsement certificates for the account's
// trusted contacts.
func (c *Client) UploadEndorsements(ctx context.Context, env types.F8eEnvironment, accountID string, endorsements []types.TrustedContactEndorsement) error {
	var f8eErr types.F8eError
	resp, err := c.request(ctx).
		SetBody(&types.UploadEndorsementsInput{Endorsements: endorsements}).
		SetError(&f8eErr).
		Put(fmt.Sprintf("%s/api/v1/accounts/%s/relationships/endorsements", env.BaseURL, accountID))
	if err != nil {
		return err
	}
	return handleError(resp)
}

// GetHTTPClient exposes the underlying http client for test mocking.
func (c *Client) GetHTTPClient() interface{} {
	return c.client.GetClient()
}
