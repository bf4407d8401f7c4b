package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walletkit/go-wallet-auth/types"
	"github.com/walletkit/go-wallet-auth/util"
)

var (
	rotateEnvName string
	rotateAccount string
	rotateHwProof string
	rotateHwAcct  string
)

func init() {
	rotateCmd.Flags().StringVar(&rotateEnvName, "env", "production", "f8e environment name")
	rotateCmd.Flags().StringVar(&rotateAccount, "account", "", "account id")
	rotateCmd.Flags().StringVar(&rotateHwProof, "hw-proof", "", "base64 hardware proof of possession")
	rotateCmd.Flags().StringVar(&rotateHwAcct, "hw-signed-account", "", "base64 account id signed by the hardware key")
	rotateCmd.MarkFlagRequired("account")
	rootCmd.AddCommand(rotateCmd)
}

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate the account's auth keys",
	Long:  "Generate a fresh auth key set and run the crash-resumable rotation protocol; resumes a durably recorded attempt when one exists",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := buildApplication()
		check(err)
		env, err := resolveEnvironment(rotateEnvName)
		check(err)
		ctx := context.Background()

		keybox, kErr := app.keybox.Get(ctx, rotateAccount)
		check(kErr)

		req, rErr := buildRotationRequest(ctx, app)
		check(rErr)

		outcome := app.rotation.StartOrResumeAuthKeyRotation(ctx, env, keybox, req)
		fmt.Printf("rotation outcome: %s\n", outcome.Kind.String())
		switch outcome.Kind {
		case types.RotationOutcomeSuccess, types.RotationOutcomeAcceptable:
			check(outcome.Acknowledge())
		case types.RotationOutcomeAccountLocked:
			fmt.Println("both new and old keys were rejected for rotation; contact support")
		case types.RotationOutcomeUnexpected:
			fmt.Println("transient failure; re-run rotate to resume the recorded attempt")
		}
	},
}

// buildRotationRequest resumes a durably recorded attempt when one exists,
// otherwise generates a fresh key set and starts a new rotation.
func buildRotationRequest(ctx context.Context, app *application) (types.RotationRequest, error) {
	state, err := app.rotation.PendingAttempt(ctx)
	if err != nil {
		return types.RotationRequest{}, err
	}
	if state != nil && state.Kind == types.PendingIncompleteAttempt && state.KeySet != nil {
		return types.RotationRequest{Kind: types.RotationResume, KeySet: *state.KeySet}, nil
	}

	globalKey, globalPriv, gErr := util.GenerateAuthKeyPair()
	if gErr != nil {
		return types.RotationRequest{}, gErr
	}
	recoveryKey, recoveryPriv, rErr := util.GenerateAuthKeyPair()
	if rErr != nil {
		return types.RotationRequest{}, rErr
	}
	app.signer.AddKey(globalPriv)
	app.signer.AddKey(recoveryPriv)

	return types.RotationRequest{
		Kind: types.RotationStart,
		KeySet: types.AuthKeySet{
			GlobalAuthPublicKey:   globalKey,
			RecoveryAuthPublicKey: recoveryKey,
		},
		// hardware inputs are passed through from the device tooling
		HardwareProofOfPossession: rotateHwProof,
		HardwareSignedAccountID:   rotateHwAcct,
	}, nil
}
