package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/hasdev/api-gateway/pkg/db"
	"github.com/hasdev/api-gateway/pkg/gwapi/config"
	"github.com/hasdev/api-gateway/pkg/gwapi/services"
	"github.com/hasdev/api-gateway/pkg/gwerr"
	"github.com/spf13/cobra"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grant admin rights to an account",
	Args:  cobra.ExactArgs(1),
	RunE:  promote,
}

var promoteRevoke bool

func init() {
	rootCmd.AddCommand(promoteCmd)
	promoteCmd.Flags().BoolVar(&promoteRevoke, "revoke", false, "Remove admin rights instead")
}

func promote(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.ValidateEnv()
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}
	logger := newLogger(cfg)

	database, err := db.New(ctx, cfg.DBConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	svcs := services.New(cfg, services.Infra{DB: database}, logger)

	account, err := svcs.Accounts.Promote(ctx, args[0], !promoteRevoke)
	if gwerr.IsCode(err, gwerr.CodeNotFound) {
		return fmt.Errorf("no account with email %s", args[0])
	}
	if err != nil {
		return err
	}

	if account.IsAdmin {
		fmt.Printf("✓ %s is now an admin\n", account.Email)
	} else {
		fmt.Printf("✓ %s is no longer an admin\n", account.Email)
	}
	return nil
}
