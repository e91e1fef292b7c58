package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/training-report/internal/config"
	"github.com/spf13/cobra"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print a bcrypt hash for AUTH_PASSWORD_HASH",
	Long:  "Read a password from stdin and print its bcrypt hash, using BCRYPT_COST and PASSWORD_PEPPER from the environment.",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		pw, err := config.NewPasswordConfig()
		if err != nil {
			return err
		}
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password := strings.TrimRight(line, "\r\n")
		if password == "" {
			return fmt.Errorf("password is empty")
		}
		hash, err := pw.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
