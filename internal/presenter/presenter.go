// Package presenter shapes terminal job results into display structures.
// Everything here is a pure transformation: no network, no timers.
package presenter

import (
	"fmt"
	"math"

	api "github.com/kovtools/checkctl/api/v1alpha1"
)

// Row is one flat result entry before grouping: a tag value observed at
// a (primary, secondary) composite key, e.g. a role in (folder, file) or
// a staff member for (child, staff-date).
type Row struct {
	Primary   string
	Secondary string
	Tag       string
}

// Group collects every tag seen for one composite key. Tags are
// de-duplicated and kept in first-seen order.
type Group struct {
	Primary   string
	Secondary string
	Tags      []string
}

// Key identifies the group, for disclosure tracking.
func (g Group) Key() string {
	return g.Primary + "\x1f" + g.Secondary
}

// GroupRows folds flat rows into groups. Group order follows the first
// occurrence of each composite key; empty tags are dropped.
func GroupRows(rows []Row) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, row := range rows {
		key := row.Primary + "\x1f" + row.Secondary
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Primary: row.Primary, Secondary: row.Secondary})
		}
		if row.Tag == "" {
			continue
		}
		if !contains(groups[i].Tags, row.Tag) {
			groups[i].Tags = append(groups[i].Tags, row.Tag)
		}
	}
	return groups
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// CheckRows flattens a compliance-check result for grouping by
// (folder, file), tagging each pair with the observed role.
func CheckRows(result []api.CheckResultRow) []Row {
	rows := make([]Row, 0, len(result))
	for _, r := range result {
		rows = append(rows, Row{Primary: r.Folder, Secondary: r.File, Tag: r.Role})
	}
	return rows
}

// VGCRows flattens a VGC result for grouping by child, tagging each
// child with its fixed-faces staff.
func VGCRows(result *api.VGCResult) []Row {
	if result == nil {
		return nil
	}
	var rows []Row
	for _, entry := range result.VGCList {
		if len(entry.FixedFaces) == 0 {
			rows = append(rows, Row{Primary: entry.Child})
			continue
		}
		for _, face := range entry.FixedFaces {
			rows = append(rows, Row{Primary: entry.Child, Tag: face.Staff})
		}
	}
	return rows
}

// Disclosure tracks which groups are expanded. A collapsed group shows
// only its first tag; expansion is per group key and survives filtering.
type Disclosure struct {
	expanded map[string]bool
}

func NewDisclosure() *Disclosure {
	return &Disclosure{expanded: make(map[string]bool)}
}

func (d *Disclosure) Toggle(g Group) {
	d.expanded[g.Key()] = !d.expanded[g.Key()]
}

func (d *Disclosure) Expanded(g Group) bool {
	return d.expanded[g.Key()]
}

// VisibleTags returns the tags to render for the group in its current
// disclosure state.
func (d *Disclosure) VisibleTags(g Group) []string {
	if d.expanded[g.Key()] || len(g.Tags) <= 1 {
		return g.Tags
	}
	return g.Tags[:1]
}

// HiddenCount is the number of tags behind the "show N more" control.
func (d *Disclosure) HiddenCount(g Group) int {
	return len(g.Tags) - len(d.VisibleTags(g))
}

// FormatPercent renders a 0..1 fraction as a whole percentage. Missing
// and non-numeric values render as a placeholder instead of failing.
func FormatPercent(value *float64) string {
	if value == nil || math.IsNaN(*value) {
		return "-"
	}
	return fmt.Sprintf("%d%%", int(math.Round(*value*100)))
}
