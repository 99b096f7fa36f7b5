package serviceImp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carrierpay/entities"
	"carrierpay/pkg/release/service"
	"carrierpay/pkg/request/repository"
	"carrierpay/pkg/request/repositoryImp"
)

func newService(t *testing.T) (service.ReleaseService, repository.RecordStore) {
	t.Helper()
	store := repositoryImp.NewXLSX(filepath.Join(t.TempDir(), "store.xlsx"), zap.NewNop())
	amt := decimal.RequireFromString("100")
	rows := []entities.PaymentRequest{
		{RowID: "p1", MBL: "PAID", Carrier: "ONE", Currency: "INR", Amount: amt, Status: "Paid"},
		{RowID: "p2", MBL: "PAID", Carrier: "ONE", Currency: "INR", Amount: amt, Status: " paid"},
		{RowID: "q1", MBL: "PART", Currency: "INR", Amount: amt, Status: "Part Payment: ₹50 Pending"},
		{RowID: "q2", MBL: "PART", Currency: "INR", Amount: amt, Status: "Part Payment: ₹50 Pending"},
		{RowID: "u1", MBL: "USD", Currency: "USD", Amount: amt, Status: "USD Pending"},
		{RowID: "d1", MBL: "DONE", Currency: "INR", Amount: amt, Status: "Paid", BLReleased: entities.BLReleased},
	}
	_, err := store.Commit(context.Background(), rows, 0)
	require.NoError(t, err)
	return NewReleaseService(store, zap.NewNop()), store
}

func TestEligible(t *testing.T) {
	svc, _ := newService(t)
	out, err := svc.Eligible(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Shipments, 1)
	assert.Equal(t, "PAID", out.Shipments[0].MBL)
	assert.Equal(t, []string{"p1", "p2"}, out.Shipments[0].RowIDs)
	assert.Equal(t, "ONE", out.Shipments[0].Carrier)
}

func TestRelease_WholeShipment(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	out, err := svc.Release(ctx, "PAID", service.ReleaseInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, out.Released)
	assert.Equal(t, int64(2), out.Revision)

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Rows[snap.Find("p1")].IsReleased())
	assert.True(t, snap.Rows[snap.Find("p2")].IsReleased())

	_, err = svc.Release(ctx, "PAID", service.ReleaseInput{})
	require.ErrorIs(t, err, service.ErrAlreadyReleased)
}

func TestRelease_SelectedRows(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	out, err := svc.Release(ctx, "PAID", service.ReleaseInput{RowIDs: []string{"p2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, out.Released)

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Rows[snap.Find("p1")].IsReleased())
	assert.True(t, snap.Rows[snap.Find("p2")].IsReleased())

	_, err = svc.Release(ctx, "PAID", service.ReleaseInput{RowIDs: []string{"q1"}})
	require.ErrorIs(t, err, service.ErrRowNotInShipment)
}

func TestRelease_Refused(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		mbl  string
		want error
	}{
		{"PART", service.ErrReleaseNotAllowed},
		{"USD", service.ErrReleaseNotAllowed},
		{"DONE", service.ErrAlreadyReleased},
		{"GHOST", service.ErrShipmentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.mbl, func(t *testing.T) {
			svc, store := newService(t)
			_, err := svc.Release(ctx, tt.mbl, service.ReleaseInput{})
			require.ErrorIs(t, err, tt.want)

			snap, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), snap.Revision, "no row mutated")
			for _, r := range snap.Rows {
				if r.MBL != "DONE" {
					assert.False(t, r.IsReleased(), r.RowID)
				}
			}
		})
	}
}
