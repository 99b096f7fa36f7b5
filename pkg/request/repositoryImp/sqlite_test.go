package repositoryImp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"carrierpay/database"
	"carrierpay/pkg/request/repository"
	"carrierpay/pkg/sheet"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func TestSQLite_EmptyStore(t *testing.T) {
	snap, err := NewSQLite(newDB(t)).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Rows)
	assert.Zero(t, snap.Revision)
}

func TestSQLite_CommitLoadAndPrune(t *testing.T) {
	ctx := context.Background()
	s := NewSQLite(newDB(t))

	rows := sampleRows()
	rev, err := s.Commit(ctx, rows, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "r1", snap.Rows[0].RowID)
	assert.True(t, snap.Rows[1].Amount.Equal(rows[1].Amount))
	require.NotNil(t, snap.Rows[0].PaymentRequestDate)
	assert.True(t, snap.Rows[0].PaymentRequestDate.Equal(*rows[0].PaymentRequestDate))

	// reorder and drop one row
	snap.Rows = snap.Rows[1:]
	snap.Rows[0].Status = "USD Pending"
	rev, err = s.Commit(ctx, snap.Rows, snap.Revision)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)

	again, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, again.Rows, 1)
	assert.Equal(t, "r2", again.Rows[0].RowID)
	assert.Equal(t, "USD Pending", again.Rows[0].Status)
	assert.Equal(t, 0, again.Rows[0].Seq)
}

func TestSQLite_StaleCommitRejected(t *testing.T) {
	ctx := context.Background()
	s := NewSQLite(newDB(t))

	_, err := s.Commit(ctx, sampleRows(), 0)
	require.NoError(t, err)

	_, err = s.Commit(ctx, sampleRows(), 0)
	require.ErrorIs(t, err, repository.ErrStaleRevision)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Revision)
}

func TestImportIfEmpty(t *testing.T) {
	ctx := context.Background()
	src := NewXLSX(filepath.Join(t.TempDir(), "store.xlsx"), zap.NewNop())
	_, err := src.Commit(ctx, sampleRows(), 0)
	require.NoError(t, err)

	dst := NewSQLite(newDB(t))
	n, err := ImportIfEmpty(ctx, dst, src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = ImportIfEmpty(ctx, dst, src)
	require.NoError(t, err)
	assert.Zero(t, n, "a populated store is left alone")

	snap, err := dst.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Rows, 2)
}

func TestImportIfEmpty_NoWorkbook(t *testing.T) {
	src := NewXLSX(filepath.Join(t.TempDir(), "missing.xlsx"), zap.NewNop())
	n, err := ImportIfEmpty(context.Background(), NewSQLite(newDB(t)), src)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLite_KeepsUnreadableCells(t *testing.T) {
	ctx := context.Background()
	s := NewSQLite(newDB(t))

	rows := sampleRows()
	rows[0].KeepRaw(sheet.ColAmountPaid, "ten")
	_, err := s.Commit(ctx, rows, 0)
	require.NoError(t, err)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Issues, 1)
	assert.Equal(t, "ten", snap.Issues[0].Raw)
	assert.Len(t, snap.AmountIssues([]string{"MBL-001"}), 1)

	peek, err := s.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Revision, peek.Revision)
	assert.Len(t, peek.Issues, 1)
}
