package services

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/walletkit/go-wallet-auth/f8e"
	"github.com/walletkit/go-wallet-auth/types"
	"github.com/walletkit/go-wallet-auth/util"
)

func TestReendorseTrustedContacts(t *testing.T) {
	client := f8e.NewClient(true)
	defer httpmock.DeactivateAndReset()

	signer := NewKeyringSigner()
	_, private, err := util.GenerateAuthKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	newGlobalKey := signer.AddKey(private)
	rawKey, _ := base64.StdEncoding.DecodeString(newGlobalKey)

	contacts, _ := httpmock.NewJsonResponder(200, types.TrustedContactsResponse{
		Contacts: []types.TrustedContact{
			{RelationshipID: "rel-1", IdentityPublicKey: "identity-1"},
			{RelationshipID: "rel-2", IdentityPublicKey: "identity-2"},
		},
	})
	httpmock.RegisterResponder("GET", contactsURL(), contacts)
	httpmock.RegisterResponder("PUT", endorsementsURL(), func(req *http.Request) (*http.Response, error) {
		var input types.UploadEndorsementsInput
		if dErr := json.NewDecoder(req.Body).Decode(&input); dErr != nil {
			return httpmock.NewJsonResponse(400, types.F8eError{Error: "bad request"})
		}
		if len(input.Endorsements) != 2 {
			return httpmock.NewJsonResponse(400, types.F8eError{Error: "incomplete endorsement set"})
		}
		// every certificate must verify against the new global auth key
		certificate, dErr := base64.StdEncoding.DecodeString(input.Endorsements[0].Certificate)
		if dErr != nil || !ed25519.Verify(ed25519.PublicKey(rawKey), []byte("rel-1|identity-1"), certificate) {
			return httpmock.NewJsonResponse(400, types.F8eError{Error: "invalid certificate"})
		}
		return httpmock.NewJsonResponse(200, map[string]string{})
	})

	service := NewEndorsementService(client, signer)
	assert.NoError(t, service.ReendorseTrustedContacts(context.Background(), testEnv, "account-1", newGlobalKey))
	assert.Equal(t, 1, httpmock.GetCallCountInfo()["PUT "+endorsementsURL()])
}

func TestReendorseNoContacts(t *testing.T) {
	client := f8e.NewClient(true)
	defer httpmock.DeactivateAndReset()

	contacts, _ := httpmock.NewJsonResponder(200, types.TrustedContactsResponse{})
	httpmock.RegisterResponder("GET", contactsURL(), contacts)

	service := NewEndorsementService(client, NewKeyringSigner())
	assert.NoError(t, service.ReendorseTrustedContacts(context.Background(), testEnv, "account-1", "unused"))

	// no upload happens for an empty contact set
	assert.Zero(t, httpmock.GetCallCountInfo()["PUT "+endorsementsURL()])
}

func TestReendorseSigningFailure(t *testing.T) {
	client := f8e.NewClient(true)
	defer httpmock.DeactivateAndReset()

	contacts, _ := httpmock.NewJsonResponder(200, types.TrustedContactsResponse{
		Contacts: []types.TrustedContact{{RelationshipID: "rel-1", IdentityPublicKey: "identity-1"}},
	})
	httpmock.RegisterResponder("GET", contactsURL(), contacts)

	// valid key shape, but the keyring has no private half for it
	publicKey, _, err := util.GenerateAuthKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	service := NewEndorsementService(client, NewKeyringSigner())
	assert.ErrorIs(t, service.ReendorseTrustedContacts(context.Background(), testEnv, "account-1", publicKey), types.ErrUnknownSigningKey)
}
