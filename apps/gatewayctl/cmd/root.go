package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/hasdev/api-gateway/pkg/gwsdk"
	"github.com/spf13/cobra"
)

type contextKey string

const configContextKey contextKey = "gatewayconfig"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "gatewayctl",
		Short: "CLI for the API gateway (login, profile, time, todos)",
		Long: `gatewayctl talks to a running API gateway. Log in once with your email
and password; the session token is kept in the OS keyring and used by the
other commands until it expires.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gwsdk.LoadConfig(cfgFile)
			if err != nil {
				return err
			}

			if err := cfg.Viper().BindPFlag(gwsdk.BaseUrlKey, cmd.Flags().Lookup("base-url")); err != nil {
				return err
			}
			cfg.BaseURL = strings.TrimRight(cfg.Viper().GetString(gwsdk.BaseUrlKey), "/")

			ctx := context.WithValue(cmd.Context(), configContextKey, cfg)
			cmd.SetContext(ctx)

			return nil
		},
	}
)

// GetConfig retrieves the Config from the command context
func GetConfig(cmd *cobra.Command) (*gwsdk.Config, error) {
	cfg, ok := cmd.Context().Value(configContextKey).(*gwsdk.Config)
	if !ok {
		return nil, errors.New("no config in context")
	}
	return cfg, nil
}

// newSdk returns an SDK for the configured gateway carrying the stored token.
func newSdk(cmd *cobra.Command) (*gwsdk.Sdk, error) {
	cfg, err := GetConfig(cmd)
	if err != nil {
		return nil, err
	}
	return gwsdk.NewFromConfig(cfg)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML). Searches: gateway.yaml, .gateway/config.yaml")
	rootCmd.PersistentFlags().String("base-url", "", "Base URL of the gateway (overrides config)")
}
