package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hasdev/api-gateway/pkg/gwsdk"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmail string
	stdin      = bufio.NewReader(os.Stdin)
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	Long: `Log in to the gateway. The password is read from the terminal without
echo, or from stdin when it is not a terminal.

Examples:
	gatewayctl login --email ada@example.com
	echo "$PASSWORD" | gatewayctl login --email ada@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSdk(cmd)
		if err != nil {
			return err
		}

		email := strings.TrimSpace(loginEmail)
		if email == "" {
			fmt.Fprint(os.Stderr, "Email: ")
			line, err := stdin.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read email: %w", err)
			}
			email = strings.TrimSpace(line)
		}

		password, err := readPassword()
		if err != nil {
			return err
		}

		auth, err := sdk.Login(cmd.Context(), email, password)
		if err != nil {
			return friendly(err)
		}

		name := auth.User.ProfileName
		if name == "" {
			name = auth.User.Email
		}
		fmt.Printf("Logged in as: %s\n", name)
		if exp, err := gwsdk.TokenExpiry(auth.Token); err == nil && !exp.IsZero() {
			fmt.Printf("Token expires: %s\n", exp.Local().Format(time.RFC3339))
		}
		return nil
	},
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no password on stdin")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session and forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSdk(cmd)
		if err != nil {
			return err
		}
		if err := sdk.Logout(cmd.Context()); err != nil {
			return friendly(err)
		}
		fmt.Println("Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
}
