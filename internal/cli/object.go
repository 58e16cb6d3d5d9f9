package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"stowage/internal/domain"
	"stowage/internal/service"
)

func newObjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "object",
		Aliases: []string{"objects"},
		Short:   "Transfer and manage objects",
	}
	cmd.AddCommand(
		newObjectListCmd(a),
		newPushDirCmd(a),
		newUploadCmd(a),
		newStoreCmd(a),
		newFetchCmd(a),
		newURLCmd(a),
		newExistsCmd(a),
		newSizeCmd(a),
		newCopyCmd(a),
		newRenameCmd(a),
		newDeleteCmd(a),
		newDeleteManyCmd(a),
		newExportCmd(a),
	)
	return cmd
}

func newObjectListCmd(a *app) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "list BUCKET",
		Short: "List objects under a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			objects, err := svc.ListObjects(cmd.Context(), args[0], prefix)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			printf(tw, "KEY\tSIZE\tLAST MODIFIED\n")
			for _, o := range objects {
				printf(tw, "%s\t%d\t%s\n", o.Key, o.Size, o.LastModified.UTC().Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "only list keys starting with this prefix")
	return cmd
}

func newPushDirCmd(a *app) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "push-dir DIR BUCKET",
		Short: "Upload every regular file in a local directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			n, err := svc.PushDirectory(cmd.Context(), args[0], args[1], prefix)
			printf(cmd.OutOrStdout(), "uploaded %d file(s) to %s\n", n, args[1])
			return err
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix for the uploaded files")
	return cmd
}

func newUploadCmd(a *app) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "upload BUCKET FILE",
		Short: "Upload a local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			obj, err := svc.UploadFile(cmd.Context(), args[0], args[1], key)
			if err != nil {
				return err
			}
			printStored(cmd, obj)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "object key (defaults to the file name)")
	return cmd
}

func newStoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "store BUCKET KEY DEST",
		Short: "Download an object to a local path",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			n, err := svc.StoreObject(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", n, args[2])
			return nil
		},
	}
}

func newFetchCmd(a *app) *cobra.Command {
	var key, folder, stagingDir string
	cmd := &cobra.Command{
		Use:   "fetch BUCKET URL",
		Short: "Download a remote http(s) resource and store it as an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			obj, err := svc.PutFromURL(cmd.Context(), service.PutFromURLInput{
				Bucket:     args[0],
				SourceURL:  args[1],
				StagingDir: stagingDir,
				Key:        key,
				Folder:     folder,
			})
			if err != nil {
				return err
			}
			printStored(cmd, obj)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "object name within the folder")
	cmd.Flags().StringVar(&folder, "folder", "", "folder the object is placed in")
	cmd.Flags().StringVar(&stagingDir, "staging-dir", "", "local directory for the temporary copy (default from config)")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newURLCmd(a *app) *cobra.Command {
	var expiry time.Duration
	cmd := &cobra.Command{
		Use:   "url BUCKET KEY",
		Short: "Print a time-limited presigned GET URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			u, err := svc.SignedURL(cmd.Context(), args[0], args[1], expiry)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", u)
			return nil
		},
	}
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "URL lifetime (default from config)")
	return cmd
}

func newExistsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exists BUCKET KEY",
		Short: "Report whether an object exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			ok, err := svc.DoesObjectExist(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%t\n", ok)
			return nil
		},
	}
}

func newSizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "size BUCKET KEY",
		Short: "Print an object's size in bytes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			n, err := svc.FileSize(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%d\n", n)
			return nil
		},
	}
}

func newCopyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "copy SRC_BUCKET SRC_KEY DST_BUCKET DST_KEY",
		Short: "Copy an object, possibly across buckets",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			if err := svc.CopyObject(cmd.Context(), args[0], args[1], args[2], args[3]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "copied %s/%s to %s/%s\n", args[0], args[1], args[2], args[3])
			return nil
		},
	}
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename BUCKET OLD_KEY NEW_KEY",
		Short: "Rename an object within a bucket",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			if err := svc.RenameObject(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "renamed %s to %s\n", args[1], args[2])
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete BUCKET KEY",
		Short: "Delete one object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			if err := svc.DeleteObject(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "deleted %s\n", args[1])
			return nil
		},
	}
}

func newDeleteManyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-many BUCKET KEY...",
		Short: "Delete several objects",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			n, err := svc.DeleteObjects(cmd.Context(), args[0], args[1:])
			printf(cmd.OutOrStdout(), "deleted %d of %d object(s)\n", n, len(args)-1)
			return err
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var prefix, format, output string
	cmd := &cobra.Command{
		Use:   "export BUCKET",
		Short: "Write an object inventory as CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.storageService()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return svc.ExportObjects(cmd.Context(), args[0], prefix, domain.ExportFormat(format), w)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "only export keys starting with this prefix")
	cmd.Flags().StringVar(&format, "format", string(domain.ExportCSV), "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func printStored(cmd *cobra.Command, obj *domain.StoredObject) {
	printf(cmd.OutOrStdout(), "stored %s/%s (%d bytes)\n", obj.Bucket, obj.Key, obj.Size)
	if obj.Location != "" {
		printf(cmd.OutOrStdout(), "%s\n", obj.Location)
	}
}
