package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSdk(cmd)
		if err != nil {
			return err
		}

		u, err := sdk.Me(cmd.Context())
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("Logged in: %s\n", u.ProfileName)
		fmt.Printf("Email: %s\n", u.Email)
		fmt.Printf("ID: %s\n", u.ID)
		if u.Provider != "" {
			fmt.Printf("Provider: %s\n", u.Provider)
		}
		if u.IsAdmin {
			fmt.Println("Role: admin")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(meCmd)
}
