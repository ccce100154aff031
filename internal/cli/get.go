package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	api "github.com/kovtools/checkctl/api/v1alpha1"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat}
)

type GetOptions struct {
	GlobalOptions

	Output string
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:          "get (TYPE | TYPE/ID)",
		Short:        "Display submitted jobs or a single job's status.",
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
	return cmd
}

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if _, _, err := parseAndValidateKindId(args[0]); err != nil {
		return err
	}
	if len(o.Output) > 0 && !funk.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	return nil
}

func (o *GetOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	if id != "" {
		var reply *api.JobStatusReply
		if kind == VGCKind {
			reply, err = c.FetchVGCStatus(ctx, id)
		} else {
			reply, err = c.FetchCheckStatus(ctx, id)
		}
		if err != nil {
			return fmt.Errorf("reading %s/%s: %w", kind, id, err)
		}
		return o.printStatus(kind, id, reply)
	}

	// History listing is best-effort: a failing backend degrades to the
	// locally recorded submissions.
	var summaries []api.CheckSummary
	if kind == VGCKind {
		summaries, err = c.ListVGC(ctx)
	} else {
		summaries, err = c.ListChecks(ctx)
	}
	if err != nil {
		zap.S().Named("cli").Warnf("listing %s from backend failed, falling back to local history: %v", plural(kind), err)
		summaries = nil
	}
	summaries = mergeWithLocalHistory(summaries, o.localSummaries(kind))

	return o.printSummaries(summaries)
}

func (o *GetOptions) localSummaries(kind string) []api.CheckSummary {
	entries, err := o.History().List(jobKind(kind))
	if err != nil {
		zap.S().Named("cli").Warnf("reading local history: %v", err)
		return nil
	}
	summaries := make([]api.CheckSummary, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, api.CheckSummary{
			CheckID:   entry.CheckID,
			UpdatedAt: entry.SubmittedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return summaries
}

func mergeWithLocalHistory(remote, local []api.CheckSummary) []api.CheckSummary {
	seen := make(map[string]bool, len(remote))
	merged := remote
	for _, s := range remote {
		seen[s.CheckID] = true
	}
	for _, s := range local {
		if !seen[s.CheckID] {
			merged = append(merged, s)
		}
	}
	return merged
}

func (o *GetOptions) printStatus(kind, id string, reply *api.JobStatusReply) error {
	switch o.Output {
	case jsonFormat:
		return printJSON(reply)
	case yamlFormat:
		return printYAML(reply)
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tPROGRESS")
		progress := "-"
		if reply.Status.Progress != nil {
			progress = fmt.Sprintf("%.0f%%", *reply.Status.Progress)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, reply.Status.Message, progress)
		w.Flush()
		return nil
	}
}

func (o *GetOptions) printSummaries(summaries []api.CheckSummary) error {
	switch o.Output {
	case jsonFormat:
		return printJSON(summaries)
	case yamlFormat:
		return printYAML(summaries)
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
		fmt.Fprintln(w, "ID\tUPDATED")
		for _, s := range summaries {
			updated := s.UpdatedAt
			if updated == "" {
				updated = "-"
			}
			fmt.Fprintf(w, "%s\t%s\n", s.CheckID, updated)
		}
		w.Flush()
		return nil
	}
}

func printJSON(v any) error {
	marshalled, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling resource: %w", err)
	}
	fmt.Printf("%s\n", string(marshalled))
	return nil
}

func printYAML(v any) error {
	marshalled, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling resource: %w", err)
	}
	fmt.Printf("%s\n", string(marshalled))
	return nil
}
