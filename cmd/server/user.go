package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aetherwealth/aether/internal/auth"
	"github.com/aetherwealth/aether/internal/di"
)

const passwordEnv = "AETHER_PASSWORD"

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard accounts",
	}

	var email, name string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a sign-in account",
		Long: "Creates an account. The password is read from " + passwordEnv +
			" when set, otherwise from the first line of stdin.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(os.Getenv(passwordEnv), cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			container, err := di.InitializeDatabases(cfg, log)
			if err != nil {
				return err
			}
			defer container.Close()
			if err := di.InitializeRepositories(container, cfg, log); err != nil {
				return err
			}

			u, err := container.AuthStore.CreateUser(cmd.Context(), email, name, password)
			if err != nil {
				if errors.Is(err, auth.ErrEmailTaken) {
					return fmt.Errorf("an account for %s already exists", email)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&email, "email", "", "Email address used to sign in")
	createCmd.Flags().StringVar(&name, "name", "", "Full name shown in the dashboard")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("name")

	userCmd.AddCommand(createCmd)
	return userCmd
}

// readPassword prefers the environment value and otherwise reads one line
// from in.
func readPassword(fromEnv string, in io.Reader) (string, error) {
	if fromEnv != "" {
		return fromEnv, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("no password given: set %s or pipe it on stdin", passwordEnv)
	}
	return password, nil
}
