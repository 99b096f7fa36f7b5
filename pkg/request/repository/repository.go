package repository

import (
	"context"
	"errors"

	"carrierpay/entities"
	"carrierpay/pkg/sheet"
)

var (
	// ErrStaleRevision means someone committed since the snapshot was loaded.
	ErrStaleRevision = errors.New("record store changed since it was loaded")
	// ErrNoData means the store does not exist yet or cannot be read.
	ErrNoData = errors.New("no data available")
	// ErrNoStore accompanies ErrNoData when nothing was ever committed; the
	// first commit must then expect revision 0.
	ErrNoStore = errors.New("record store does not exist yet")
)

// Snapshot is the whole store as of one revision.
type Snapshot struct {
	Rows     []entities.PaymentRequest
	Revision int64
	// Issues lists cells that could not be read; the affected fields are
	// zero/nil in Rows.
	Issues []sheet.Issue
}

// Find returns the index of the row with the given id, or -1.
func (s *Snapshot) Find(rowID string) int {
	for i := range s.Rows {
		if s.Rows[i].RowID == rowID {
			return i
		}
	}
	return -1
}

// AmountIssues returns the unreadable money cells of the given shipments
// that are still open on the rows: a cell set again since the load no longer
// counts.
func (s *Snapshot) AmountIssues(mbls []string) []sheet.Issue {
	want := map[string]bool{}
	for _, m := range mbls {
		want[m] = true
	}
	var out []sheet.Issue
	for _, is := range sheet.Issues(s.Rows) {
		if is.IsAmount() && want[is.MBL] {
			out = append(out, is)
		}
	}
	return out
}

// RecordStore persists the ordered collection of payment request rows.
// Commit replaces the stored rows only if the store is still at revision
// expected, and returns the new revision.
type RecordStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	// Peek reads like Load but never writes, not even the row id backfill.
	Peek(ctx context.Context) (*Snapshot, error)
	Commit(ctx context.Context, rows []entities.PaymentRequest, expected int64) (int64, error)
}

// Expect is the revision a commit must match: the client's when it sent
// one, else the one just loaded.
func (s *Snapshot) Expect(client *int64) int64 {
	if client != nil {
		return *client
	}
	return s.Revision
}

// LoadForAppend is Load for operations that may create the store: a store
// that was never committed is an empty snapshot at revision 0.
func LoadForAppend(ctx context.Context, s RecordStore) (*Snapshot, error) {
	snap, err := s.Load(ctx)
	if errors.Is(err, ErrNoStore) {
		return &Snapshot{}, nil
	}
	return snap, err
}
