package cli

import (
	"context"
	"fmt"

	"github.com/kovtools/checkctl/internal/form"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

var documentTypes = []string{
	string(form.SlotStaffPlanning),
	string(form.SlotChildPlanning),
	string(form.SlotChildRegistration),
	string(form.SlotFixedFacesList),
}

type UploadOptions struct {
	GlobalOptions
	filePath string
}

func DefaultUploadOptions() *UploadOptions {
	return &UploadOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdUpload() *cobra.Command {
	o := DefaultUploadOptions()
	cmd := &cobra.Command{
		Use:          "upload TYPE",
		Short:        "Upload a planning document of the given type",
		Example:      "upload staff-planning --file-path /path/to/planning.xlsx",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
	}
	o.Bind(cmd.Flags())

	if err := cmd.MarkFlagRequired("file-path"); err != nil {
		panic(err)
	}

	return cmd
}

func (o *UploadOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.filePath, "file-path", o.filePath, "Path to the document to upload (required)")
}

func (o *UploadOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if !funk.Contains(documentTypes, args[0]) {
		return fmt.Errorf("invalid document type %q. Supported types: %v", args[0], documentTypes)
	}
	return nil
}

func (o *UploadOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	reply, err := c.Upload(ctx, o.filePath, args[0])
	if err != nil {
		return fmt.Errorf("uploading %s: %w", args[0], err)
	}

	fmt.Printf("Uploaded %s as %s\n", o.filePath, reply.ObjectKey)
	return nil
}
