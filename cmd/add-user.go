package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/roster/internal/database"
	"github.com/spf13/cobra"
)

var addUserCmdFlags struct {
	Username string
	Email    string
}

var addUserCmd = &cobra.Command{
	Use:     "add-user",
	Short:   "Add a user without going through the web server",
	Example: `roster add-user --username alice --email alice@example.com`,
	RunE:    addUser,
}

func init() {
	addUserCmd.Flags().StringVar(&addUserCmdFlags.Username, "username", "", "Username of the new user")
	addUserCmd.Flags().StringVar(&addUserCmdFlags.Email, "email", "", "Email address of the new user, must be unique")

	rootCmd.AddCommand(addUserCmd)
}

func addUser(cmd *cobra.Command, _ []string) error {
	if addUserCmdFlags.Username == "" || addUserCmdFlags.Email == "" {
		return errors.New("username and email are required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.New(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close() //nolint: errcheck

	user, err := db.CreateUser(cmd.Context(), addUserCmdFlags.Username, addUserCmdFlags.Email)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			return fmt.Errorf("cannot add %s: %w", addUserCmdFlags.Email, err)
		}
		return fmt.Errorf("failed to add user: %w", err)
	}

	log.Info("user added", "id", user.ID, "username", user.Username, "email", user.Email)
	return nil
}
