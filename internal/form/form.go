// Package form gates job submissions on declarative rules and turns a
// valid form into a submission payload.
package form

import (
	"context"
	"time"

	api "github.com/kovtools/checkctl/api/v1alpha1"
	"github.com/kovtools/checkctl/internal/client"
	"go.uber.org/zap"
)

// Module names of the optional check features. Enabling one extends the
// set of required document slots.
const (
	ModuleVGC        = "vgc"
	ModuleThreeHours = "three-hours"
)

// Human-readable rule names surfaced when a rule blocks submission.
const (
	ReasonStaffPlanningRequired     = "staff planning document is required"
	ReasonChildPlanningRequired     = "child planning document is required"
	ReasonFixedFacesRequired        = "fixed-faces list document is required"
	ReasonChildRegistrationRequired = "child registration document is required"
	ReasonDateRequired              = "at least one of from-date and to-date must be set"
	ReasonDateOrder                 = "from-date must not be after to-date"
)

// Evaluation is the aggregate verdict over all applicable rules. All
// violations are collected, not just the first.
type Evaluation struct {
	CanSubmit      bool
	MissingReasons []string
}

// SubmitClient is the client subset a form needs.
type SubmitClient interface {
	SubmitCheck(ctx context.Context, submission api.CheckSubmission) (string, error)
	SubmitVGC(ctx context.Context, submission api.VGCSubmission) (string, error)
}

// Recorder appends successful submissions to the local history.
type Recorder interface {
	Append(kind api.JobKind, checkID string, submittedAt time.Time) error
}

// Form collects the inputs of one job submission. The slot store is
// injected; the form is its single writer while active.
type Form struct {
	Kind  api.JobKind
	Slots *SlotStore

	FromDate string
	ToDate   string
	// VGCEnabled and ThreeHoursEnabled are the feature toggles of a
	// compliance check. Ignored for the vgc-list-creation kind.
	VGCEnabled        bool
	ThreeHoursEnabled bool
	// Group selects the target group of a vgc-list-creation job.
	Group string

	client  SubmitClient
	history Recorder
	source  string
	log     *zap.SugaredLogger
}

func New(kind api.JobKind, slots *SlotStore, submitClient SubmitClient, recorder Recorder, source string) *Form {
	return &Form{
		Kind:    kind,
		Slots:   slots,
		client:  submitClient,
		history: recorder,
		source:  source,
		log:     zap.S().Named("form"),
	}
}

// Evaluate runs every applicable rule. CanSubmit is the conjunction of
// all of them; MissingReasons lists each violated rule by name, in rule
// declaration order.
func (f *Form) Evaluate() Evaluation {
	var reasons []string

	requireSlot := func(slot Slot, reason string) {
		if _, ok := f.Slots.Get(slot); !ok {
			reasons = append(reasons, reason)
		}
	}

	requireSlot(SlotStaffPlanning, ReasonStaffPlanningRequired)
	requireSlot(SlotChildPlanning, ReasonChildPlanningRequired)

	switch f.Kind {
	case api.JobKindVGCListCreation:
		// The VGC list is derived from the fixed-faces roster, so the
		// slot is unconditionally required for this kind.
		requireSlot(SlotFixedFacesList, ReasonFixedFacesRequired)
	default:
		if f.VGCEnabled {
			requireSlot(SlotFixedFacesList, ReasonFixedFacesRequired)
		}
		if f.ThreeHoursEnabled {
			requireSlot(SlotChildRegistration, ReasonChildRegistrationRequired)
		}
		reasons = append(reasons, f.dateReasons()...)
	}

	return Evaluation{
		CanSubmit:      len(reasons) == 0,
		MissingReasons: reasons,
	}
}

func (f *Form) dateReasons() []string {
	if f.FromDate == "" && f.ToDate == "" {
		return []string{ReasonDateRequired}
	}
	if f.FromDate != "" && f.ToDate != "" {
		from, errFrom := time.Parse(DateLayout, f.FromDate)
		to, errTo := time.Parse(DateLayout, f.ToDate)
		if errFrom == nil && errTo == nil && from.After(to) {
			return []string{ReasonDateOrder}
		}
	}
	return nil
}

// Submit validates the form, builds the payload from the currently bound
// slots and delegates to the client. The new job is appended to the local
// history on success only.
func (f *Form) Submit(ctx context.Context) (string, error) {
	eval := f.Evaluate()
	if !eval.CanSubmit {
		return "", client.NewValidationError(eval.MissingReasons)
	}

	var (
		checkID string
		err     error
	)
	switch f.Kind {
	case api.JobKindVGCListCreation:
		checkID, err = f.client.SubmitVGC(ctx, api.VGCSubmission{
			DocumentKeys: f.documentKeys(),
			Source:       f.source,
			Group:        f.Group,
		})
	default:
		var dates []string
		dates, err = ExpandDateRange(f.FromDate, f.ToDate)
		if err != nil {
			return "", client.NewValidationError([]string{err.Error()})
		}
		checkID, err = f.client.SubmitCheck(ctx, api.CheckSubmission{
			Date:         dates,
			Modules:      f.modules(),
			DocumentKeys: f.documentKeys(),
			Source:       f.source,
		})
	}
	if err != nil {
		return "", err
	}

	if f.history != nil {
		if recordErr := f.history.Append(f.Kind, checkID, time.Now()); recordErr != nil {
			f.log.Warnf("job %s submitted but not recorded in local history: %v", checkID, recordErr)
		}
	}
	return checkID, nil
}

// documentKeys lays out the bound object keys in the fixed slot order,
// with null for unbound slots.
func (f *Form) documentKeys() []*string {
	keys := make([]*string, 0, len(SlotOrder))
	for _, slot := range SlotOrder {
		keys = append(keys, f.Slots.Key(slot))
	}
	return keys
}

func (f *Form) modules() []string {
	var modules []string
	if f.VGCEnabled {
		modules = append(modules, ModuleVGC)
	}
	if f.ThreeHoursEnabled {
		modules = append(modules, ModuleThreeHours)
	}
	return modules
}
