package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	api "github.com/kovtools/checkctl/api/v1alpha1"
	"github.com/kovtools/checkctl/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

const (
	exportJSON = "json"
	exportXLSX = "xlsx"
	exportText = "txt"
	exportDoc  = "doc"
)

var legalExportFormats = []string{exportJSON, exportXLSX, exportText, exportDoc}

type ExportOptions struct {
	GlobalOptions

	Format string
	Output string
}

func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Format:        exportJSON,
	}
}

func NewCmdExport() *cobra.Command {
	o := DefaultExportOptions()
	cmd := &cobra.Command{
		Use:          "export ID",
		Short:        "Export a completed VGC list",
		Example:      "export 7b21d0 --format xlsx --output vgc-list.xlsx",
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

	if err := cmd.MarkFlagRequired("output"); err != nil {
		panic(err)
	}

	return cmd
}

func (o *ExportOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Format, "format", "f", o.Format, fmt.Sprintf("Export format. One of: (%s)", strings.Join(legalExportFormats, ", ")))
	fs.StringVar(&o.Output, "output", o.Output, "Path of the file to write (required)")
}

func (o *ExportOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if !funk.Contains(legalExportFormats, o.Format) {
		return fmt.Errorf("export format must be one of %s", strings.Join(legalExportFormats, ", "))
	}
	return nil
}

func (o *ExportOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	reply, err := c.FetchVGCStatus(ctx, args[0])
	if err != nil {
		return fmt.Errorf("reading vgc/%s: %w", args[0], err)
	}
	if !api.StringToStatusMessage(reply.Status.Message).Terminal() {
		return fmt.Errorf("vgc/%s is not completed yet (status: %s)", args[0], reply.Status.Message)
	}
	result, err := reply.VGCResult()
	if err != nil {
		return fmt.Errorf("decoding vgc result: %w", err)
	}
	if result == nil {
		return fmt.Errorf("vgc/%s completed without a result", args[0])
	}

	var data []byte
	switch o.Format {
	case exportJSON:
		data, err = export.JSON(result)
	case exportXLSX:
		data, err = export.Workbook(result)
	case exportText:
		data = export.Text(result)
	case exportDoc:
		data = export.Doc(result)
	}
	if err != nil {
		return fmt.Errorf("rendering %s export: %w", o.Format, err)
	}

	if err := os.WriteFile(o.Output, data, 0644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	fmt.Printf("Exported vgc/%s to %s\n", args[0], o.Output)
	return nil
}
