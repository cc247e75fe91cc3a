// Command pixctl is the operator CLI of the PIX gateway.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pixctl",
		Short:         "Operate the PIX withdrawal gateway",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", os.Getenv("PIXGW_CONFIG"), "Config file (default ./config.yaml)")

	rootCmd.AddCommand(webhookURLCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(configCheckCmd())
	return rootCmd
}
