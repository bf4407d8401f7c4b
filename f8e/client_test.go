package f8e

import (
	"context"
	"fmt"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/walletkit/go-wallet-auth/types"
)

var testEnv = types.F8eEnvironment{Name: "test", BaseURL: "http://localhost:8787"}

func initMockClient() *Client {
	return NewClient(true)
}

func deactivateMock() {
	httpmock.DeactivateAndReset()
}

func TestInitiateChallenge(t *testing.T) {
	client := initMockClient()
	defer deactivateMock()

	responder, _ := httpmock.NewJsonResponder(200, types.InitiateChallengeResponse{
		Challenge: "challenge-bytes",
		Session:   "session-1",
		Username:  "user-1",
		AccountID: "account-1",
	})
	httpmock.RegisterResponder("POST", fmt.Sprintf("%s/api/v1/auth/challenge", testEnv.BaseURL), responder)

	resp, err := client.InitiateChallenge(context.Background(), testEnv, "pubkey", types.AuthTokenScopeGlobal)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "challenge-bytes", resp.Challenge)
	assert.Equal(t, "account-1", resp.AccountID)
}

func TestInitiateChallengeUnknownKey(t *testing.T) {
	client := initMockClient()
	defer deactivateMock()

	responder, _ := httpmock.NewJsonResponder(404, types.F8eError{Error: "not found"})
	httpmock.RegisterResponder("POST", fmt.Sprintf("%s/api/v1/auth/challenge", testEnv.BaseURL), responder)

	_, err := client.InitiateChallenge(context.Background(), testEnv, "unknown", types.AuthTokenScopeGlobal)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCompleteChallenge(t *testing.T) {
	client := initMockClient()
	defer deactivateMock()

	responder, _ := httpmock.NewJsonResponder(200, types.TokensResponse{AccessToken: "access", RefreshToken: "refresh"})
	httpmock.RegisterResponder("POST", fmt.Sprintf("%s/api/v1/auth/challenge/complete", testEnv.BaseURL), responder)

	tokens, err := client.CompleteChallenge(context.Background(), testEnv, "user-1", "session-1", "c2ln")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "access", tokens.AccessToken)
	assert.Equal(t, "refresh", tokens.RefreshToken)
}

func TestRefreshTokenRejected(t *testing.T) {
	client := initMockClient()
	defer deactivateMock()

	responder, _ := httpmock.NewJsonResponder(401, types.F8eError{Error: "refresh token expired"})
	httpmock.RegisterResponder("POST", fmt.Sprintf("%s/api/v1/auth/refresh", testEnv.BaseURL), responder)

	_, err := client.RefreshToken(context.Background(), testEnv, "stale")
	assert.ErrorIs(t, err, types.ErrNotAuthorized)
}

func TestRotateKeyset(t *testing.T) {
	client := initMockClient()
	defer deactivateMock()

	httpmock.RegisterResponder("PUT", fmt.Sprintf("%s/api/v1/accounts/account-1/keysets", testEnv.BaseURL),
		httpmock.NewStringResponder(200, `{}`))

	err := client.RotateKeyset(context.Background(), testEnv, "account-1", &types.RotateKeysetInput{
		KeySet: types.AuthKeySet{GlobalAuthPublicKey: "g", RecoveryAuthPublicKey: "r"},
	})
	assert.NoError(t, err)
}

func TestListTrustedContacts(t *testing.T) {
	client := initMockClient()
	defer deactivateMock()

	responder, _ := httpmock.NewJsonResponder(200, types.TrustedContactsResponse{
		Contacts: []types.TrustedContact{{RelationshipID: "rel-1", IdentityPublicKey: "idk"}},
	})
	httpmock.RegisterResponder("GET", fmt.Sprintf("%s/api/v1/accounts/account-1/relationships", testEnv.BaseURL), responder)

	contacts, err := client.ListTrustedContacts(context.Background(), testEnv, "account-1")
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, contacts, 1)
	assert.Equal(t, "rel-1", contacts[0].RelationshipID)
}
