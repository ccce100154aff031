// Package history keeps the console's local record of submitted jobs.
// The record is append-only: entries are added on successful submission
// and never removed, so a previously submitted job can always be
// re-attached to a watch.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	api "github.com/kovtools/checkctl/api/v1alpha1"
	"github.com/kovtools/checkctl/internal/fileio"
)

// Entry is one locally recorded submission.
type Entry struct {
	CheckID     string    `json:"check_id"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type Store struct {
	writer *fileio.Writer
	reader *fileio.Reader
}

// NewStore returns a store persisting under dir, one file per job kind.
func NewStore(dir string) *Store {
	writer := fileio.NewWriter()
	writer.SetRootdir(dir)
	reader := fileio.NewReader()
	reader.SetRootdir(dir)
	return &Store{writer: writer, reader: reader}
}

func historyFile(kind api.JobKind) string {
	return fmt.Sprintf("history-%s.json", kind)
}

// Append records a new submission for the given kind.
func (s *Store) Append(kind api.JobKind, checkID string, submittedAt time.Time) error {
	entries, err := s.List(kind)
	if err != nil {
		return err
	}
	entries = append(entries, Entry{CheckID: checkID, SubmittedAt: submittedAt})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := s.writer.WriteFile(historyFile(kind), data); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// List returns the recorded submissions for the given kind in submission
// order. A missing history file yields an empty list.
func (s *Store) List(kind api.JobKind) ([]Entry, error) {
	data, err := s.reader.ReadFile(historyFile(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SubmittedAt.Before(entries[j].SubmittedAt)
	})
	return entries, nil
}
