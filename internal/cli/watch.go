package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	api "github.com/kovtools/checkctl/api/v1alpha1"
	"github.com/kovtools/checkctl/internal/client"
	"github.com/kovtools/checkctl/internal/poller"
	"github.com/kovtools/checkctl/internal/presenter"
	"github.com/spf13/cobra"
)

type WatchOptions struct {
	GlobalOptions
}

func DefaultWatchOptions() *WatchOptions {
	return &WatchOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdWatch() *cobra.Command {
	o := DefaultWatchOptions()
	cmd := &cobra.Command{
		Use:          "watch TYPE/ID",
		Short:        "Poll a job until it completes and render the result",
		Example:      "watch check/5f3a9c | watch vgc/7b21d0",
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

func (o *WatchOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("no job id given: expected %s/ID", kind)
	}
	return nil
}

func (o *WatchOptions) Run(ctx context.Context, args []string) error {
	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	return watchJob(ctx, c, o.GlobalOptions, kind, id)
}

// watchJob attaches a poller to the job and blocks until the job turns
// terminal or the user interrupts the watch.
func watchJob(ctx context.Context, c client.Console, o GlobalOptions, kind string, id string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fetch := c.FetchCheckStatus
	if kind == VGCKind {
		fetch = c.FetchVGCStatus
	}

	completed := make(chan *api.JobStatusReply, 1)
	opts := []poller.Option{
		poller.WithOnUpdate(func(s poller.Snapshot) {
			fmt.Printf("%s: %s (%.0f%%)\n", s.JobID, s.Message, s.Progress)
		}),
		poller.WithOnComplete(func(jobID string, reply *api.JobStatusReply) {
			completed <- reply
		}),
	}
	if o.PollInterval > 0 {
		opts = append(opts, poller.WithInterval(o.PollInterval))
	}

	p := poller.New(poller.FetcherFunc(fetch), opts...)
	p.StartWatching(ctx, id)
	defer p.Stop()

	select {
	case <-ctx.Done():
		fmt.Printf("stopped watching %s/%s\n", kind, id)
		return nil
	case reply := <-completed:
		return renderResult(kind, reply)
	}
}

func renderResult(kind string, reply *api.JobStatusReply) error {
	switch kind {
	case VGCKind:
		result, err := reply.VGCResult()
		if err != nil {
			return fmt.Errorf("decoding vgc result: %w", err)
		}
		printVGCTable(result)
	default:
		result, err := reply.CheckResult()
		if err != nil {
			return fmt.Errorf("decoding check result: %w", err)
		}
		printCheckTable(result)
	}
	return nil
}

func printCheckTable(result []api.CheckResultRow) {
	groups := presenter.GroupRows(presenter.CheckRows(result))
	disclosure := presenter.NewDisclosure()

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, "FOLDER\tFILE\tROLES")
	for _, g := range groups {
		roles := strings.Join(disclosure.VisibleTags(g), ", ")
		if hidden := disclosure.HiddenCount(g); hidden > 0 {
			roles = fmt.Sprintf("%s (+%d more)", roles, hidden)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", g.Primary, g.Secondary, roles)
	}
	w.Flush()
}

func printVGCTable(result *api.VGCResult) {
	if result == nil {
		fmt.Println("job completed without a result")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, "CHILD\tSTAFF\tOVERLAP DAYS\tOVERLAP MINUTES\tCOVERAGE")
	for _, entry := range result.VGCList {
		for _, face := range entry.FixedFaces {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
				entry.Child, face.Staff, face.OverlapDays, face.OverlapMinutes,
				presenter.FormatPercent(face.Coverage))
		}
	}
	w.Flush()
}
