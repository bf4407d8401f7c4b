package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/walletkit/go-wallet-auth/f8e"
	"github.com/walletkit/go-wallet-auth/types"
)

// EndorsementService re-issues the endorsement certificates binding each
// trusted contact's identity key to the account's current auth keys. Re-runs
// with the same key are safely repeatable; the upload replaces the full set.
type EndorsementService struct {
	f8eClient *f8e.Client
	signer    Signer
}

func NewEndorsementService(f8eClient *f8e.Client, signer Signer) *EndorsementService {
	return &EndorsementService{f8eClient: f8eClient, signer: signer}
}

// ReendorseTrustedContacts signs a fresh certificate for every existing
// trusted contact with the new global auth key and uploads the whole set.
// Any failure leaves the server-side set untouched; there is no partial
// success.
func (es *EndorsementService) ReendorseTrustedContacts(ctx context.Context, env types.F8eEnvironment, accountID string, newGlobalAuthKey string) error {
	contacts, lErr := es.f8eClient.ListTrustedContacts(ctx, env, accountID)
	if lErr != nil {
		return lErr
	}
	if len(contacts) == 0 {
		return nil
	}

	endorsements := make([]types.TrustedContactEndorsement, 0, len(contacts))
	for _, contact := range contacts {
		message := endorsementMessage(contact.RelationshipID, contact.IdentityPublicKey)
		signature, sErr := es.signer.Sign(newGlobalAuthKey, message)
		if sErr != nil {
			return sErr
		}
		endorsements = append(endorsements, types.TrustedContactEndorsement{
			RelationshipID: contact.RelationshipID,
			Certificate:    base64.StdEncoding.EncodeToString(signature),
		})
	}
	return es.f8eClient.UploadEndorsements(ctx, env, accountID, endorsements)
}

func endorsementMessage(relationshipID, identityPublicKey string) []byte {
	return []byte(fmt.Sprintf("%s|%s", relationshipID, identityPublicKey))
}
