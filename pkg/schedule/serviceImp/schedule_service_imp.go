package serviceImp

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"carrierpay/entities"
	"carrierpay/pkg/clock"
	"carrierpay/pkg/logger"
	"carrierpay/pkg/reconcile"
	"carrierpay/pkg/request/repository"
	"carrierpay/pkg/schedule/service"
	"carrierpay/pkg/validate"
)

var tracer = otel.Tracer("carrierpay/schedule")

type schedSvc struct {
	store    repository.RecordStore
	clock    clock.Clock
	validate *validator.Validate
	printer  *message.Printer
	logger   *zap.Logger
}

func NewScheduleService(store repository.RecordStore, c clock.Clock, l *zap.Logger) service.ScheduleService {
	return &schedSvc{
		store:    store,
		clock:    c,
		validate: validate.New(),
		printer:  message.NewPrinter(language.English),
		logger:   l,
	}
}

// schedulable is false once any row of the shipment is paid or planned.
func schedulable(items []entities.PaymentRequest) bool {
	for _, it := range items {
		if reconcile.IsPaid(it.Status) || reconcile.IsScheduled(it.Status) {
			return false
		}
	}
	return true
}

func (s *schedSvc) Summary(ctx context.Context) (*service.Summary, error) {
	ctx, span := tracer.Start(ctx, "schedule.Summary")
	defer span.End()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	order, idx := reconcile.Group(snap.Rows)
	out := &service.Summary{Revision: snap.Revision, Shipments: []service.PlanningEntry{}}
	for _, mbl := range order {
		items := reconcile.Pick(snap.Rows, idx[mbl])
		if !schedulable(items) {
			continue
		}
		t := reconcile.Aggregate(items)
		e := service.PlanningEntry{
			MBL:         mbl,
			LDCCutoff:   items[0].LDCCutoff,
			BLType:      items[0].BLType,
			ExpectedINR: t.ExpectedINR,
			ExpectedUSD: t.ExpectedUSD,
			Status:      items[0].Status,
		}
		for _, it := range items {
			if d := it.PaymentRequestDate; d != nil && (e.PaymentRequestDate == nil || d.After(*e.PaymentRequestDate)) {
				e.PaymentRequestDate = d
			}
		}
		out.Shipments = append(out.Shipments, e)
	}
	return out, nil
}

func (s *schedSvc) Totals(ctx context.Context, mbls []string) (*service.Totals, error) {
	ctx, span := tracer.Start(ctx, "schedule.Totals")
	defer span.End()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	_, idx := reconcile.Group(snap.Rows)
	out := &service.Totals{MBLs: mbls}
	for _, mbl := range mbls {
		indices, ok := idx[mbl]
		if !ok {
			return nil, fmt.Errorf("%w: %s", service.ErrShipmentNotFound, mbl)
		}
		t := reconcile.Aggregate(reconcile.Pick(snap.Rows, indices))
		out.INR = out.INR.Add(t.ExpectedINR)
		out.USD = out.USD.Add(t.ExpectedUSD)
	}
	out.INRText = money(s.printer, "₹", out.INR)
	out.USDText = money(s.printer, "$", out.USD)
	return out, nil
}

// money renders d with two decimals and grouped whole units. The whole part
// is grouped as an integer so no digit goes through a float.
func money(p *message.Printer, symbol string, d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign, d = "-", d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).StringFixed(2)[1:]
	return symbol + " " + sign + p.Sprintf("%d", whole.IntPart()) + cents
}

func (s *schedSvc) Schedule(ctx context.Context, in service.ScheduleInput) (*service.ScheduleResult, error) {
	ctx, span := tracer.Start(ctx, "schedule.Schedule")
	defer span.End()

	if err := validate.Struct(s.validate, in); err != nil {
		return nil, err
	}
	day, ok := clock.Resolve(s.clock, strings.TrimSpace(in.PaymentDate))
	if !ok {
		return nil, fmt.Errorf("%w: %q", service.ErrBadPaymentDate, in.PaymentDate)
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	_, idx := reconcile.Group(snap.Rows)
	// check every shipment before touching any row
	for _, mbl := range in.MBLs {
		indices, ok := idx[mbl]
		if !ok {
			return nil, fmt.Errorf("%w: %s", service.ErrShipmentNotFound, mbl)
		}
		if !schedulable(reconcile.Pick(snap.Rows, indices)) {
			return nil, fmt.Errorf("%w: %s is already paid or scheduled", service.ErrNotSchedulable, mbl)
		}
	}

	status := reconcile.ScheduledStatus(day)
	targeted := map[string]bool{}
	for _, mbl := range in.MBLs {
		targeted[mbl] = true
		for _, i := range idx[mbl] {
			d := day
			snap.Rows[i].ScheduledPaymentDate = &d
			snap.Rows[i].Status = status
		}
	}

	rev, err := s.store.Commit(ctx, snap.Rows, snap.Expect(in.Revision))
	if err != nil {
		return nil, fmt.Errorf("schedule payments: %w", err)
	}
	span.SetAttributes(attribute.Int("shipments", len(in.MBLs)), attribute.String("status", status))
	logger.Info(ctx, s.logger, "payments scheduled",
		zap.Strings("mbls", in.MBLs), zap.String("status", status), zap.Int64("revision", rev))

	out := &service.ScheduleResult{PaymentDate: day.Format("2006-01-02"), Status: status, Revision: rev}
	for _, r := range snap.Rows {
		if targeted[r.MBL] {
			out.Rows = append(out.Rows, r)
		}
	}
	return out, nil
}
