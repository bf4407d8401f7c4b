package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/walletkit/go-wallet-auth/util"
)

var outputFile string

func init() {
	keysCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default is stdout)")
	rootCmd.AddCommand(keysCmd)
}

// keysCmd generates an ed25519 auth key pair in the file format the login and
// rotate commands consume
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate ed25519 auth keys",
	Long:  "Generate an ed25519 auth key pair for challenge authentication",
	Run: func(cmd *cobra.Command, args []string) {
		publicKey, privateKey, err := util.GenerateAuthKeyPair()
		check(err)
		keysJson := map[string]interface{}{
			"type":       "wallet_auth_keys_ed25519",
			"publicKey":  publicKey,
			"privateKey": base64.StdEncoding.EncodeToString(privateKey),
			"created":    time.Now().UnixMilli(),
		}
		fileBytes, err := json.MarshalIndent(keysJson, "", "  ")
		check(err)
		if outputFile != "" {
			// fail if file already exists
			if _, err := os.Stat(outputFile); !errors.Is(err, os.ErrNotExist) {
				fmt.Printf("File already exists: %s\n", outputFile)
				os.Exit(1)
			}
			err = os.WriteFile(outputFile, fileBytes, 0600)
			check(err)
			fmt.Printf("Output file: %s\n", outputFile)
		} else {
			fmt.Printf("\n%s\n", string(fileBytes))
		}
	},
}
