package main

import (
	"github.com/spf13/cobra"
)

func newAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	bootstrap := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the default admin if it does not exist",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			admin, existed, err := a.services.Admins.CreateFirstAdmin(cmd.Context())
			if err != nil {
				return err
			}
			if existed {
				cmd.PrintErrln("admin already exists")
			}
			return printJSON(cmd.OutOrStdout(), admin)
		}),
	}

	var email, name, invitedBy string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin and send the invitation email",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			admin, err := a.services.Admins.CreateAdmin(cmd.Context(), email, name, invitedBy)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), admin)
		}),
	}
	create.Flags().StringVar(&email, "email", "", "admin email address")
	create.Flags().StringVar(&name, "name", "", "display name")
	create.Flags().StringVar(&invitedBy, "invited-by", "cli", "recorded inviter")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(bootstrap, create)
	return cmd
}
