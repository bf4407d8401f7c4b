package types

// AuthKeySet is a candidate or active pair of authentication public keys for
// a full account. Keys are base64 encoded ed25519 public keys. The hardware
// signature over the global key is optional and present only when the key set
// was endorsed by the device's secure hardware.
type AuthKeySet struct {
	GlobalAuthPublicKey     string `json:"globalAuthPublicKey" validate:"required"`
	RecoveryAuthPublicKey   string `json:"recoveryAuthPublicKey" validate:"required"`
	HardwareSignedGlobalKey string `json:"hardwareSignedGlobalKey,omitempty"`
}

func (s AuthKeySet) Equal(other AuthKeySet) bool {
	return s.GlobalAuthPublicKey == other.GlobalAuthPublicKey &&
		s.RecoveryAuthPublicKey == other.RecoveryAuthPublicKey
}

// Keybox is the bundle of active key material for a full account. It is
// persisted locally on finalizing a key rotation and is the source for
// account discovery.
type Keybox struct {
	AccountID             string         `json:"accountId" validate:"required"`
	F8eEnvironment        F8eEnvironment `json:"f8eEnvironment" validate:"required"`
	ActiveKeySet          AuthKeySet     `json:"activeKeySet" validate:"required"`
	HardwareAuthPublicKey string         `json:"hardwareAuthPublicKey"`
}

// TrustedContact is a social-recovery contact whose endorsement certificate
// binds its identity key to the account's current auth keys.
type TrustedContact struct {
	RelationshipID    string `json:"relationshipId"`
	IdentityPublicKey string `json:"identityPublicKey"`
	Certificate       string `json:"certificate,omitempty"`
}

// TrustedContactEndorsement is a re-issued certificate for a single contact.
type TrustedContactEndorsement struct {
	RelationshipID string `json:"relationshipId"`
	Certificate    string `json:"certificate"`
}
