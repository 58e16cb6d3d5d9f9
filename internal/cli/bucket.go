package cli

import (
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"stowage/internal/domain"
)

func newBucketCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bucket",
		Aliases: []string{"buckets"},
		Short:   "List, create and delete buckets",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List buckets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			buckets, err := svc.ListBuckets(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			printf(tw, "NAME\tCREATED\n")
			for _, b := range buckets {
				printf(tw, "%s\t%s\n", b.Name, b.CreatedAt.UTC().Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	var acl string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a bucket with a canned ACL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			if err := svc.CreateBucket(cmd.Context(), args[0], domain.CannedACL(acl)); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "created bucket %s\n", args[0])
			return nil
		},
	}
	create.Flags().StringVar(&acl, "acl", "", "private, public-read, public-read-write or authenticated-read (default from config)")

	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete every object in a bucket, then the bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			if err := svc.DeleteBucket(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "deleted bucket %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}
