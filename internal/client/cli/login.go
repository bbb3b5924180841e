package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nyattihq/nyatti/internal/client/config"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save a session",
	RunE: func(_ *cobra.Command, _ []string) error {
		reader := bufio.NewReader(os.Stdin)

		fmt.Print("Email: ")
		email, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		email = strings.TrimSpace(email)

		fmt.Print("Password: ")
		passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client := apiClient()
		result, err := client.Login(ctx, email, string(passwordBytes), "")
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		if result.Requires2FA {
			fmt.Print("Two-factor code: ")
			code, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			result, err = client.Login(ctx, email, string(passwordBytes), strings.TrimSpace(code))
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
		}

		if err := config.SaveToken(result.Token); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		name := email
		if result.User != nil && result.User.FirstName != "" {
			name = result.User.FirstName
		}
		fmt.Printf("✓ Signed in as %s\n", name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the saved session",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := config.ClearToken(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Println("✓ Signed out")
		return nil
	},
}
