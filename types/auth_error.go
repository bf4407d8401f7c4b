package types

import "fmt"

// AuthErrorKind classifies every failure that can cross the public surface of
// the authentication core. Callers switch on the kind: network and storage
// failures are retryable as-is, signature mismatch and protocol errors mean
// the key material itself is invalid for the account.
type AuthErrorKind int

const (
	AuthErrorUnhandled AuthErrorKind = iota
	AuthErrorNetwork
	AuthErrorProtocol
	AuthErrorSignatureMismatch
	AuthErrorStorage
	AuthErrorAccountMissing
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthErrorNetwork:
		return "network_error"
	case AuthErrorProtocol:
		return "protocol_error"
	case AuthErrorSignatureMismatch:
		return "signature_mismatch"
	case AuthErrorStorage:
		return "storage_error"
	case AuthErrorAccountMissing:
		return "account_missing"
	default:
		return "unhandled_error"
	}
}

// AuthError wraps a lower-level error with its classification. Raw transport
// or storage errors never reach callers of the token lifecycle manager or the
// rotation coordinator, only *AuthError does.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind.String(), e.Err.Error())
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func NewNetworkError(err error) *AuthError {
	return &AuthError{Kind: AuthErrorNetwork, Err: err}
}

func NewProtocolError(err error) *AuthError {
	return &AuthError{Kind: AuthErrorProtocol, Err: err}
}

func NewSignatureMismatchError(err error) *AuthError {
	return &AuthError{Kind: AuthErrorSignatureMismatch, Err: err}
}

func NewStorageError(err error) *AuthError {
	return &AuthError{Kind: AuthErrorStorage, Err: err}
}

func NewAccountMissingError(err error) *AuthError {
	return &AuthError{Kind: AuthErrorAccountMissing, Err: err}
}

func NewUnhandledError(err error) *AuthError {
	return &AuthError{Kind: AuthErrorUnhandled, Err: err}
}

// KeyInvalid reports whether the error means the signing key itself is not
// accepted for the account (as opposed to a transient failure).
func (e *AuthError) KeyInvalid() bool {
	return e.Kind == AuthErrorSignatureMismatch || e.Kind == AuthErrorProtocol
}
