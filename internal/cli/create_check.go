package cli

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	api "github.com/kovtools/checkctl/api/v1alpha1"
	"github.com/kovtools/checkctl/internal/client"
	"github.com/kovtools/checkctl/internal/form"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

// submissionSource tags payloads produced by this console.
const submissionSource = "checkctl"

var legalModules = []string{form.ModuleVGC, form.ModuleThreeHours}

type CreateCheckOptions struct {
	GlobalOptions

	staffPlanningKey     string
	childPlanningKey     string
	childRegistrationKey string
	fixedFacesKey        string
	fromDate             string
	toDate               string
	modules              []string
	watch                bool
}

func DefaultCreateCheckOptions() *CreateCheckOptions {
	return &CreateCheckOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdCreateCheck() *cobra.Command {
	o := DefaultCreateCheckOptions()
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Submit a compliance check",
		Example: "create check --staff-planning <key> --child-planning <key> " +
			"--from 01-03-2024 --to 03-03-2024 --modules vgc --fixed-faces <key> --watch",
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

func (o *CreateCheckOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.staffPlanningKey, "staff-planning", o.staffPlanningKey, "Object key of the staff planning document")
	fs.StringVar(&o.childPlanningKey, "child-planning", o.childPlanningKey, "Object key of the child planning document")
	fs.StringVar(&o.childRegistrationKey, "child-registration", o.childRegistrationKey, "Object key of the child registration document")
	fs.StringVar(&o.fixedFacesKey, "fixed-faces", o.fixedFacesKey, "Object key of the fixed-faces list document")
	fs.StringVar(&o.fromDate, "from", o.fromDate, "First day of the checked period (DD-MM-YYYY)")
	fs.StringVar(&o.toDate, "to", o.toDate, "Last day of the checked period (DD-MM-YYYY)")
	fs.StringSliceVar(&o.modules, "modules", o.modules, fmt.Sprintf("Optional check modules to enable. One or more of: (%s)", strings.Join(legalModules, ", ")))
	fs.BoolVarP(&o.watch, "watch", "w", o.watch, "Poll the job until it completes and render the result")
}

func (o *CreateCheckOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	for _, module := range o.modules {
		if !funk.Contains(legalModules, module) {
			return fmt.Errorf("invalid module %q. Supported modules: %s", module, strings.Join(legalModules, ", "))
		}
	}
	return nil
}

func (o *CreateCheckOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	slots := form.NewSlotStore(c, form.KeepRemote)
	bindSlot(slots, form.SlotStaffPlanning, o.staffPlanningKey)
	bindSlot(slots, form.SlotChildPlanning, o.childPlanningKey)
	bindSlot(slots, form.SlotChildRegistration, o.childRegistrationKey)
	bindSlot(slots, form.SlotFixedFacesList, o.fixedFacesKey)

	f := form.New(api.JobKindComplianceCheck, slots, c, o.History(), submissionSource)
	f.FromDate = o.fromDate
	f.ToDate = o.toDate
	f.VGCEnabled = funk.Contains(o.modules, form.ModuleVGC)
	f.ThreeHoursEnabled = funk.Contains(o.modules, form.ModuleThreeHours)

	checkID, err := f.Submit(ctx)
	if err != nil {
		var validationErr *client.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("submission blocked:\n  - %s", strings.Join(validationErr.Reasons, "\n  - "))
		}
		return fmt.Errorf("submitting check: %w", err)
	}

	fmt.Printf("Check %s submitted\n", checkID)
	if !o.watch {
		return nil
	}
	return watchJob(ctx, c, o.GlobalOptions, CheckKind, checkID)
}

func bindSlot(slots *form.SlotStore, slot form.Slot, key string) {
	if key == "" {
		return
	}
	slots.Bind(slot, form.DocumentReference{ObjectKey: key, FileName: path.Base(key)})
}
