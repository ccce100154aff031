package presenter

import (
	"math"
	"reflect"
	"testing"

	api "github.com/kovtools/checkctl/api/v1alpha1"
)

func TestGroupRows(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{Primary: "week-1", Secondary: "monday.xlsx", Tag: "pedagogue"},
		{Primary: "week-1", Secondary: "monday.xlsx", Tag: "assistant"},
		{Primary: "week-1", Secondary: "tuesday.xlsx", Tag: "pedagogue"},
		{Primary: "week-1", Secondary: "monday.xlsx", Tag: "pedagogue"},
	}

	groups := GroupRows(rows)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	// Two rows sharing a composite key fold into one group whose tags
	// are de-duplicated and keep first-seen order.
	if groups[0].Primary != "week-1" || groups[0].Secondary != "monday.xlsx" {
		t.Errorf("group[0] = %s/%s", groups[0].Primary, groups[0].Secondary)
	}
	if !reflect.DeepEqual(groups[0].Tags, []string{"pedagogue", "assistant"}) {
		t.Errorf("group[0].Tags = %v", groups[0].Tags)
	}
	if !reflect.DeepEqual(groups[1].Tags, []string{"pedagogue"}) {
		t.Errorf("group[1].Tags = %v", groups[1].Tags)
	}
}

func TestGroupRowsDropsEmptyTags(t *testing.T) {
	t.Parallel()

	groups := GroupRows([]Row{
		{Primary: "Mila"},
		{Primary: "Noah", Tag: "Anna"},
	})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if len(groups[0].Tags) != 0 {
		t.Errorf("group[0].Tags = %v, want empty", groups[0].Tags)
	}
}

func TestDisclosure(t *testing.T) {
	t.Parallel()

	groups := GroupRows([]Row{
		{Primary: "week-1", Secondary: "monday.xlsx", Tag: "pedagogue"},
		{Primary: "week-1", Secondary: "monday.xlsx", Tag: "assistant"},
		{Primary: "week-1", Secondary: "monday.xlsx", Tag: "intern"},
		{Primary: "week-1", Secondary: "tuesday.xlsx", Tag: "pedagogue"},
	})
	many, single := groups[0], groups[1]

	d := NewDisclosure()

	if got := d.VisibleTags(many); !reflect.DeepEqual(got, []string{"pedagogue"}) {
		t.Errorf("collapsed VisibleTags = %v", got)
	}
	if got := d.HiddenCount(many); got != 2 {
		t.Errorf("HiddenCount = %d, want 2", got)
	}

	// A single-tag group has nothing to disclose.
	if got := d.VisibleTags(single); !reflect.DeepEqual(got, []string{"pedagogue"}) {
		t.Errorf("single-tag VisibleTags = %v", got)
	}
	if got := d.HiddenCount(single); got != 0 {
		t.Errorf("single-tag HiddenCount = %d", got)
	}

	d.Toggle(many)
	if !d.Expanded(many) {
		t.Error("group not expanded after Toggle")
	}
	if got := d.VisibleTags(many); len(got) != 3 {
		t.Errorf("expanded VisibleTags = %v", got)
	}
	// Expansion is tracked per group key.
	if d.Expanded(single) {
		t.Error("expanding one group expanded another")
	}

	d.Toggle(many)
	if d.Expanded(many) {
		t.Error("group still expanded after second Toggle")
	}
}

func TestCheckRows(t *testing.T) {
	t.Parallel()

	rows := CheckRows([]api.CheckResultRow{
		{Folder: "week-1", File: "monday.xlsx", Role: "pedagogue"},
	})
	want := []Row{{Primary: "week-1", Secondary: "monday.xlsx", Tag: "pedagogue"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("CheckRows = %v, want %v", rows, want)
	}
}

func TestVGCRows(t *testing.T) {
	t.Parallel()

	result := &api.VGCResult{
		VGCList: []api.VGCEntry{
			{Child: "Mila", FixedFaces: []api.FixedFace{{Staff: "Anna"}, {Staff: "Bo"}}},
			{Child: "Noah"},
		},
	}
	rows := VGCRows(result)
	want := []Row{
		{Primary: "Mila", Tag: "Anna"},
		{Primary: "Mila", Tag: "Bo"},
		{Primary: "Noah"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("VGCRows = %v, want %v", rows, want)
	}

	if got := VGCRows(nil); got != nil {
		t.Errorf("VGCRows(nil) = %v", got)
	}
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	v := func(f float64) *float64 { return &f }
	nan := math.NaN()

	tests := []struct {
		name  string
		value *float64
		want  string
	}{
		{name: "fraction", value: v(0.8333), want: "83%"},
		{name: "rounds up", value: v(0.835), want: "84%"},
		{name: "full coverage", value: v(1), want: "100%"},
		{name: "zero", value: v(0), want: "0%"},
		{name: "missing", value: nil, want: "-"},
		{name: "not a number", value: &nan, want: "-"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatPercent(tt.value); got != tt.want {
				t.Errorf("FormatPercent = %q, want %q", got, tt.want)
			}
		})
	}
}
