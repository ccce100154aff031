package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	api "github.com/kovtools/checkctl/api/v1alpha1"
	"github.com/kovtools/checkctl/internal/client"
	"github.com/kovtools/checkctl/internal/form"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type CreateVGCOptions struct {
	GlobalOptions

	staffPlanningKey string
	childPlanningKey string
	fixedFacesKey    string
	group            string
	watch            bool
}

func DefaultCreateVGCOptions() *CreateVGCOptions {
	return &CreateVGCOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdCreateVGC() *cobra.Command {
	o := DefaultCreateVGCOptions()
	cmd := &cobra.Command{
		Use:          "vgc",
		Short:        "Submit a vgc-list-creation job",
		Example:      "create vgc --staff-planning <key> --child-planning <key> --fixed-faces <key> --group toddlers --watch",
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

func (o *CreateVGCOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.staffPlanningKey, "staff-planning", o.staffPlanningKey, "Object key of the staff planning document")
	fs.StringVar(&o.childPlanningKey, "child-planning", o.childPlanningKey, "Object key of the child planning document")
	fs.StringVar(&o.fixedFacesKey, "fixed-faces", o.fixedFacesKey, "Object key of the fixed-faces list document")
	fs.StringVar(&o.group, "group", o.group, "Target group of the VGC list")
	fs.BoolVarP(&o.watch, "watch", "w", o.watch, "Poll the job until it completes and render the result")
}

func (o *CreateVGCOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	slots := form.NewSlotStore(c, form.KeepRemote)
	bindSlot(slots, form.SlotStaffPlanning, o.staffPlanningKey)
	bindSlot(slots, form.SlotChildPlanning, o.childPlanningKey)
	bindSlot(slots, form.SlotFixedFacesList, o.fixedFacesKey)

	f := form.New(api.JobKindVGCListCreation, slots, c, o.History(), submissionSource)
	f.Group = o.group

	checkID, err := f.Submit(ctx)
	if err != nil {
		var validationErr *client.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("submission blocked:\n  - %s", strings.Join(validationErr.Reasons, "\n  - "))
		}
		return fmt.Errorf("submitting vgc-list creation: %w", err)
	}

	fmt.Printf("VGC-list creation %s submitted\n", checkID)
	if !o.watch {
		return nil
	}
	return watchJob(ctx, c, o.GlobalOptions, VGCKind, checkID)
}
