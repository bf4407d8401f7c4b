package util

import (
	"encoding/json"
	"time"

	"github.com/go-jose/go-jose/v3"
)

// TokenExpiry peeks at the exp claim of a token that happens to be a JWS.
// Tokens are otherwise opaque to this module; the peek only informs the
// proactive refresh scheduler and is never a correctness input, so the
// payload is read without signature verification.
func TokenExpiry(token string) (time.Time, bool) {
	object, err := jose.ParseSigned(token)
	if err != nil {
		return time.Time{}, false
	}
	payload := object.UnsafePayloadWithoutVerification()
	var plMap map[string]interface{}
	if uErr := json.Unmarshal(payload, &plMap); uErr != nil {
		return time.Time{}, false
	}
	exp, ok := plMap["exp"]
	if !ok {
		return time.Time{}, false
	}
	expFloat, ok := exp.(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(expFloat), 0), true
}
