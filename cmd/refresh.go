package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walletkit/go-wallet-auth/types"
)

var (
	refreshEnvName string
	refreshAccount string
	refreshScope   string
)

func init() {
	refreshCmd.Flags().StringVar(&refreshEnvName, "env", "production", "f8e environment name")
	refreshCmd.Flags().StringVar(&refreshAccount, "account", "", "account id")
	refreshCmd.Flags().StringVar(&refreshScope, "scope", string(types.AuthTokenScopeGlobal), "token scope (global or recovery)")
	refreshCmd.MarkFlagRequired("account")
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the cached token pair",
	Long:  "Refresh the cached token pair for an account and scope, falling back to full re-authentication when the refresh token is rejected",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := buildApplication()
		check(err)
		env, err := resolveEnvironment(refreshEnvName)
		check(err)

		tokens, rErr := app.lifecycle.Refresh(context.Background(), env, refreshAccount, types.AuthTokenScope(refreshScope))
		if rErr != nil {
			check(rErr)
		}
		fmt.Printf("token pair refreshed (access token %d bytes)\n", len(tokens.AccessToken))
	},
}
