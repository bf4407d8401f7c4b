package types

// AuthTokenScope is the authorization class of an auth token pair. Global
// authorizes full-account operations; Recovery authorizes only
// recovery-related operations and is the only scope available to a
// not-yet-upgraded lite account.
type AuthTokenScope string

const (
	AuthTokenScopeGlobal   AuthTokenScope = "global"
	AuthTokenScopeRecovery AuthTokenScope = "recovery"
)

// AccountAuthTokens is an access/refresh token pair issued by the service.
// Tokens are opaque strings; the pair is written and read atomically per
// (account, scope).
type AccountAuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthenticationResult is the outcome of a successful challenge login.
type AuthenticationResult struct {
	AccountID string            `json:"accountId"`
	Tokens    AccountAuthTokens `json:"tokens"`
}
