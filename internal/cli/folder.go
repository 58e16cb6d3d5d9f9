package cli

import (
	"github.com/spf13/cobra"
)

func newFolderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folder",
		Aliases: []string{"folders"},
		Short:   "Manage emulated folders",
	}

	create := &cobra.Command{
		Use:   "create BUCKET FOLDER",
		Short: "Write a folder marker object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			key, err := svc.CreateFolder(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "created %s\n", key)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete BUCKET FOLDER",
		Short: "Delete a folder and everything under it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			n, err := svc.DeleteFolder(cmd.Context(), args[0], args[1])
			printf(cmd.OutOrStdout(), "deleted %d object(s)\n", n)
			return err
		},
	}

	exists := &cobra.Command{
		Use:   "exists BUCKET PATH FOLDER",
		Short: "Report whether FOLDER exists among the keys under PATH",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			ok, err := svc.DoesFolderExist(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%t\n", ok)
			return nil
		},
	}

	cmd.AddCommand(create, del, exists)
	return cmd
}
