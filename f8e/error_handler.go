package f8e

import (
	"encoding/json"
	"errors"

	"github.com/go-kit/log/level"
	"github.com/go-resty/resty/v2"
	"github.com/walletkit/go-wallet-auth/global"
	"github.com/walletkit/go-wallet-auth/types"
)

func handleError(resp *resty.Response) error {
	if resp.StatusCode() == 404 {
		return types.ErrNotFound
	}
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		return types.ErrNotAuthorized
	}
	if resp.StatusCode() == 409 {
		return types.ErrConflict
	}
	if resp.IsError() {
		var body map[string]interface{}
		uErr := json.Unmarshal(resp.Body(), &body)
		if uErr != nil {
			level.Error(global.Logger).Log(uErr, "Failed to unmarshal response")
			return uErr
		}
		if errDesc, ok := body["error"]; ok {
			if errStr, ok := errDesc.(string); ok {
				return errors.New(errStr)
			}
		}
		return types.ErrBadRequest
	}
	return nil
}
