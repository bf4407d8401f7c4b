package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func check(e error) {
	if e != nil {
		fmt.Printf("%v\n", e.Error())
		os.Exit(1)
	}
}

var configFile string

var rootCmd = &cobra.Command{
	Use:     "walletauth",
	Short:   "Wallet authentication and auth key rotation toolbox",
	Long:    `walletauth authenticates a wallet account against the custodial service with the app-key challenge protocol, manages per-scope token pairs, and drives the crash-resumable auth key rotation protocol.`,
	Version: "1.0.0",
	Run: func(cmd *cobra.Command, args []string) {
		// empty
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "conf.yaml", "configuration file path")
}

func main() {
	Execute()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
