package main

import (
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
	"github.com/spf13/cobra"
)

func newUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User tree maintenance",
	}

	for _, action := range []struct {
		name, short string
	}{
		{service.ActionCheck, "Report orphaned and duplicate users"},
		{service.ActionSync, "Delete orphans and collapse duplicate e-mails"},
		{service.ActionCleanup, "Merge users whose names differ only in case"},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   action.name,
			Short: action.short,
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
				res, err := a.services.Users.RunAdminAction(cmd.Context(), action.name)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			}),
		})
	}
	return cmd
}
