package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard users",
	}
	cmd.AddCommand(newUserAddCmd(configPath))
	return cmd
}

func newUserAddCmd(configPath *string) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user who can sign in to the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := startContainer(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer c.Close()

			user, err := c.Services().Auth.CreateUser(cmd.Context(), name, email, password)
			if err != nil {
				return fmt.Errorf("creating user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "sign-in email")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 6 characters")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
