package serviceImp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"carrierpay/entities"
	"carrierpay/pkg/clock"
	"carrierpay/pkg/request/repository"
	"carrierpay/pkg/request/repositoryImp"
	"carrierpay/pkg/schedule/service"
)

var now = time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(d int) *time.Time {
	t := time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newService(t *testing.T) (service.ScheduleService, repository.RecordStore) {
	t.Helper()
	store := repositoryImp.NewXLSX(filepath.Join(t.TempDir(), "store.xlsx"), zap.NewNop())
	rows := []entities.PaymentRequest{
		{RowID: "a1", MBL: "OPEN-1", LDCCutoff: "12-04-2025", BLType: "DIRECT", Currency: entities.CurrencyINR, Amount: dec("1234"), PaymentRequestDate: day(2)},
		{RowID: "a2", MBL: "OPEN-1", BLType: "MASTER", Currency: entities.CurrencyUSD, Amount: dec("10"), GSTAmountINR: dec("18"), PaymentRequestDate: day(5)},
		{RowID: "b1", MBL: "OPEN-2", Currency: entities.CurrencyINR, Amount: dec("999999.5"), Status: "Part Payment: ₹5 Pending"},
		{RowID: "c1", MBL: "PAID-1", Currency: entities.CurrencyINR, Amount: dec("10"), Status: "Paid"},
		{RowID: "d1", MBL: "PLANNED-1", Currency: entities.CurrencyINR, Amount: dec("10"), Status: "Pay On: 09-Apr-2025"},
		{RowID: "e1", MBL: "MIXED-1", Currency: entities.CurrencyINR, Amount: dec("10")},
		{RowID: "e2", MBL: "MIXED-1", Currency: entities.CurrencyINR, Amount: dec("10"), Status: "Paid"},
	}
	_, err := store.Commit(context.Background(), rows, 0)
	require.NoError(t, err)
	return NewScheduleService(store, clock.Fixed(now), zap.NewNop()), store
}

func TestSummary(t *testing.T) {
	svc, _ := newService(t)
	out, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, out.Shipments, 2)
	first := out.Shipments[0]
	assert.Equal(t, "OPEN-1", first.MBL)
	assert.Equal(t, "12-04-2025", first.LDCCutoff)
	assert.Equal(t, "DIRECT", first.BLType, "first row wins")
	assert.True(t, first.ExpectedINR.Equal(dec("1252")), first.ExpectedINR.String())
	assert.True(t, first.ExpectedUSD.Equal(dec("10")))
	assert.Equal(t, day(5), first.PaymentRequestDate, "latest request date")
	assert.Equal(t, "OPEN-2", out.Shipments[1].MBL)
}

func TestTotals(t *testing.T) {
	svc, _ := newService(t)
	out, err := svc.Totals(context.Background(), []string{"OPEN-1", "OPEN-2"})
	require.NoError(t, err)
	assert.True(t, out.INR.Equal(dec("1001251.5")))
	assert.Equal(t, "₹ 1,001,251.50", out.INRText)
	assert.Equal(t, "$ 10.00", out.USDText)

	_, err = svc.Totals(context.Background(), []string{"NOPE"})
	require.ErrorIs(t, err, service.ErrShipmentNotFound)
}

func TestMoney(t *testing.T) {
	p := message.NewPrinter(language.English)
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹ 0.00"},
		{"1234.5", "₹ 1,234.50"},
		{"1234567890123456.78", "₹ 1,234,567,890,123,456.78"},
		{"-1234.505", "₹ -1,234.51"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, money(p, "₹", dec(tt.in)), tt.in)
	}
}

func TestSchedule(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	out, err := svc.Schedule(ctx, service.ScheduleInput{MBLs: []string{"OPEN-1"}, PaymentDate: "tomorrow"})
	require.NoError(t, err)
	assert.Equal(t, "Pay On: 11-Apr-2025", out.Status)
	assert.Equal(t, "2025-04-11", out.PaymentDate)
	require.Len(t, out.Rows, 2)

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	for _, id := range []string{"a1", "a2"} {
		r := snap.Rows[snap.Find(id)]
		assert.Equal(t, "Pay On: 11-Apr-2025", r.Status)
		assert.Equal(t, day(11), r.ScheduledPaymentDate)
	}
	assert.Equal(t, "Part Payment: ₹5 Pending", snap.Rows[snap.Find("b1")].Status)

	// already planned now
	_, err = svc.Schedule(ctx, service.ScheduleInput{MBLs: []string{"OPEN-1"}, PaymentDate: "today"})
	require.ErrorIs(t, err, service.ErrNotSchedulable)
}

func TestSchedule_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		mbls []string
		want error
	}{
		{"paid shipment", []string{"OPEN-2", "PAID-1"}, service.ErrNotSchedulable},
		{"planned shipment", []string{"OPEN-2", "PLANNED-1"}, service.ErrNotSchedulable},
		{"one paid row", []string{"OPEN-2", "MIXED-1"}, service.ErrNotSchedulable},
		{"unknown shipment", []string{"OPEN-2", "GHOST"}, service.ErrShipmentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			_, err := svc.Schedule(ctx, service.ScheduleInput{MBLs: tt.mbls, PaymentDate: "2025-04-20"})
			require.ErrorIs(t, err, tt.want)

			snap, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), snap.Revision, "nothing committed")
			assert.Nil(t, snap.Rows[snap.Find("b1")].ScheduledPaymentDate)
		})
	}
}

func TestSchedule_BadDate(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Schedule(context.Background(), service.ScheduleInput{MBLs: []string{"OPEN-1"}, PaymentDate: "next week"})
	require.ErrorIs(t, err, service.ErrBadPaymentDate)
}
