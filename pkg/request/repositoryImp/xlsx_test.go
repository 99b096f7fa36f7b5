package repositoryImp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"carrierpay/entities"
	"carrierpay/pkg/request/repository"
	"carrierpay/pkg/sheet"
)

func sampleRows() []entities.PaymentRequest {
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	return []entities.PaymentRequest{
		{RowID: "r1", MBL: "MBL-001", Currency: entities.CurrencyINR, Amount: decimal.RequireFromString("1000"), PaymentRequestDate: &day},
		{RowID: "r2", MBL: "MBL-002", Currency: entities.CurrencyUSD, Amount: decimal.RequireFromString("500.25"), GSTAmountINR: decimal.RequireFromString("50")},
	}
}

func TestXLSX_MissingWorkbook(t *testing.T) {
	s := NewXLSX(filepath.Join(t.TempDir(), "store.xlsx"), zap.NewNop())

	_, err := s.Load(context.Background())
	require.ErrorIs(t, err, repository.ErrNoData)
	require.ErrorIs(t, err, repository.ErrNoStore)

	snap, err := repository.LoadForAppend(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, snap.Rows)
	assert.Zero(t, snap.Revision)
}

func TestXLSX_CommitLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewXLSX(filepath.Join(t.TempDir(), "nested", "store.xlsx"), zap.NewNop())

	rev, err := s.Commit(ctx, sampleRows(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Revision)
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "r1", snap.Rows[0].RowID)
	assert.Equal(t, "MBL-002", snap.Rows[1].MBL)
	assert.True(t, snap.Rows[1].Amount.Equal(decimal.RequireFromString("500.25")))
	assert.True(t, snap.Rows[1].GSTAmountINR.Equal(decimal.RequireFromString("50")))
	require.NotNil(t, snap.Rows[0].PaymentRequestDate)
	assert.Equal(t, "07-03-2025", sheet.FormatDate(snap.Rows[0].PaymentRequestDate))
	assert.Empty(t, snap.Issues)
}

func TestXLSX_StaleCommitRejected(t *testing.T) {
	ctx := context.Background()
	s := NewXLSX(filepath.Join(t.TempDir(), "store.xlsx"), zap.NewNop())

	_, err := s.Commit(ctx, sampleRows(), 0)
	require.NoError(t, err)

	// two editors load revision 1; the second commit must lose
	a, err := s.Load(ctx)
	require.NoError(t, err)
	b, err := s.Load(ctx)
	require.NoError(t, err)

	a.Rows[0].Status = "Paid"
	_, err = s.Commit(ctx, a.Rows, a.Revision)
	require.NoError(t, err)

	b.Rows[0].Status = "Part Payment: ₹1 Pending"
	_, err = s.Commit(ctx, b.Rows, b.Revision)
	require.ErrorIs(t, err, repository.ErrStaleRevision)

	cur, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Paid", cur.Rows[0].Status)
	assert.Equal(t, int64(2), cur.Revision)
}

func TestXLSX_BackfillsRowIDsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.xlsx")

	// a workbook as the old tool wrote it: no Row ID column, no revision sheet
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{sheet.ColMBL, sheet.ColCurrency, sheet.ColAmount}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"MBL-9", "INR", 100}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"MBL-9", "INR", "1,250.50"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s := NewXLSX(path, zap.NewNop())
	first, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, first.Rows, 2)
	assert.NotEmpty(t, first.Rows[0].RowID)
	assert.NotEqual(t, first.Rows[0].RowID, first.Rows[1].RowID)
	assert.Equal(t, int64(1), first.Revision)
	assert.True(t, first.Rows[1].Amount.Equal(decimal.RequireFromString("1250.50")))

	second, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Revision, second.Revision, "ids are assigned only once")
	assert.Equal(t, first.Rows[0].RowID, second.Rows[0].RowID)
}

func TestXLSX_ReportsUnreadableCells(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bad.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{sheet.ColRowID, sheet.ColMBL, sheet.ColAmount, sheet.ColPaymentDate}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"x1", "MBL-7", "ten", "soon"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	snap, err := NewXLSX(path, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Issues, 2)
	assert.True(t, snap.Rows[0].Amount.IsZero())
	assert.Nil(t, snap.Rows[0].PaymentDate)
	assert.Len(t, snap.AmountIssues([]string{"MBL-7"}), 1)
	assert.Empty(t, snap.AmountIssues([]string{"MBL-8"}))
}

func TestXLSX_MissingMBLColumnIsNoData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Something", "Else"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewXLSX(path, zap.NewNop()).Load(context.Background())
	require.ErrorIs(t, err, repository.ErrNoData)
	assert.NotErrorIs(t, err, repository.ErrNoStore)
}

func writeBadAmount(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{sheet.ColRowID, sheet.ColMBL, sheet.ColCurrency, sheet.ColAmount}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"x1", "MBL-7", "INR", "ten"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"x2", "MBL-7", "INR", "1.000,50"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func TestXLSX_CommitKeepsUnreadableCells(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	writeBadAmount(t, path)
	s := NewXLSX(path, zap.NewNop())

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Issues, 2)

	// an unrelated edit, as scheduling would make
	snap.Rows[0].Status = "Pay On: 11-Apr-2025"
	_, err = s.Commit(ctx, snap.Rows, snap.Revision)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	col := 0
	for i, c := range sheet.Columns {
		if c == sheet.ColAmount {
			col = i + 1
		}
	}
	for row, want := range map[int]string{2: "ten", 3: "1.000,50"} {
		cell, err := excelize.CoordinatesToCellName(col, row)
		require.NoError(t, err)
		got, err := f.GetCellValue("Sheet1", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, again.Issues, 2)
	assert.Len(t, again.AmountIssues([]string{"MBL-7"}), 2)
}

func TestXLSX_PeekDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{sheet.ColMBL, sheet.ColCurrency, sheet.ColAmount}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"MBL-9", "INR", 100}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s := NewXLSX(path, zap.NewNop())
	for range 2 {
		snap, err := s.Peek(ctx)
		require.NoError(t, err)
		assert.Zero(t, snap.Revision)
		assert.Empty(t, snap.Rows[0].RowID, "no ids assigned")
	}

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.Revision)

	_, err = NewXLSX(filepath.Join(t.TempDir(), "none.xlsx"), zap.NewNop()).Peek(ctx)
	require.ErrorIs(t, err, repository.ErrNoStore)
}
