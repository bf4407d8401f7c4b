package types

// F8eEnvironment selects which deployment of the service a call targets.
type F8eEnvironment struct {
	Name    string `json:"name" yaml:"name"`
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
}

// for initiating the challenge login
type InitiateChallengeInput struct {
	AuthPublicKey string         `json:"authPublicKey" validate:"required"`
	Scope         AuthTokenScope `json:"scope" validate:"required"`
}

// challenge the client has to sign with the private key matching the
// submitted public key
type InitiateChallengeResponse struct {
	Challenge string `json:"challenge"`
	Session   string `json:"session"`
	Username  string `json:"username"`
	AccountID string `json:"accountId"`
}

type CompleteChallengeInput struct {
	Username        string `json:"username" validate:"required"`
	Session         string `json:"session" validate:"required"`
	SignatureBase64 string `json:"signature" validate:"required"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// both challenge completion and token refresh respond with a fresh pair
type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RotateKeysetInput struct {
	KeySet                    AuthKeySet `json:"keySet" validate:"required"`
	OldGlobalAuthPublicKey    string     `json:"oldGlobalAuthPublicKey"`
	HardwareAuthPublicKey     string     `json:"hardwareAuthPublicKey"`
	HardwareSignedAccountID   string     `json:"hardwareSignedAccountId"`
	HardwareProofOfPossession string     `json:"hardwareProofOfPossession"`
}

type TrustedContactsResponse struct {
	Contacts []TrustedContact `json:"contacts"`
}

type UploadEndorsementsInput struct {
	Endorsements []TrustedContactEndorsement `json:"endorsements" validate:"required"`
}

// generic error body returned by the service
type F8eError struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}
