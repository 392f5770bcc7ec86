package main

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/foundit-unsri/foundit/internal/auth"
)

func newUseraddCmd(configPath *string) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "useradd <username>",
		Short: "Create a staff account",
		Long: `Create a staff account that can log in to the dashboard.

When --password is omitted a random password is generated and printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer closeLog()

			generated := password == ""
			if generated {
				password, err = generatePassword(16)
				if err != nil {
					return fmt.Errorf("generating password: %w", err)
				}
			}

			database, err := openDatabase(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close()

			authService := auth.NewService(database, nil)
			authService.Cost = cfg.BcryptCost

			id, err := authService.Register(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User created: %s (%s)\n", args[0], id)
			if generated {
				fmt.Fprintf(out, "  Password: %s\n", password)
				fmt.Fprintln(out, "Save this password. It cannot be recovered.")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (generated when empty)")
	return cmd
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
