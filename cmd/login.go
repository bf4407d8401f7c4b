package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walletkit/go-wallet-auth/types"
)

var (
	loginEnvName string
	loginKeyFile string
	loginScope   string
)

func init() {
	loginCmd.Flags().StringVar(&loginEnvName, "env", "production", "f8e environment name")
	loginCmd.Flags().StringVar(&loginKeyFile, "keyfile", "", "auth key file produced by the keys command")
	loginCmd.Flags().StringVar(&loginScope, "scope", string(types.AuthTokenScopeGlobal), "token scope (global or recovery)")
	loginCmd.MarkFlagRequired("keyfile")
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the challenge protocol",
	Long:  "Run the app-key challenge/response login and persist the issued token pair",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := buildApplication()
		check(err)
		env, err := resolveEnvironment(loginEnvName)
		check(err)
		publicKey, err := loadSigningKey(app, loginKeyFile)
		check(err)

		result, aErr := app.auth.AuthenticateWithKey(context.Background(), env, publicKey, types.AuthTokenScope(loginScope))
		if aErr != nil {
			check(aErr)
		}
		sErr := app.tokenStore.Set(context.Background(), result.AccountID, types.AuthTokenScope(loginScope), result.Tokens)
		check(sErr)

		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Printf("%s\n", string(out))
	},
}
