package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(versionCmd)
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show your profile",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := apiClient().Me(ctx)
		if err != nil {
			return err
		}

		name := user.DisplayName
		if name == "" {
			name = fmt.Sprintf("%s %s", user.FirstName, user.LastName)
		}
		fmt.Printf("Email: %s\n", user.Email)
		fmt.Printf("Name:  %s\n", name)
		twoFA := "disabled"
		if user.TwoFactorEnabled {
			twoFA = "enabled"
		}
		fmt.Printf("2FA:   %s\n", twoFA)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("Nyatti CLI\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Build Time: %s\n", buildTime)
		fmt.Printf("  Git Commit: %s\n", gitCommit)
	},
}
