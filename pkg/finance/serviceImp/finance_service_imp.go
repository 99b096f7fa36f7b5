package serviceImp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"carrierpay/entities"
	"carrierpay/pkg/clock"
	"carrierpay/pkg/finance/service"
	"carrierpay/pkg/logger"
	"carrierpay/pkg/reconcile"
	"carrierpay/pkg/request/repository"
	"carrierpay/pkg/sheet"
	"carrierpay/pkg/validate"
)

const exportSheet = "Report"

var tracer = otel.Tracer("carrierpay/finance")

type financeSvc struct {
	store    repository.RecordStore
	clock    clock.Clock
	strict   bool
	validate *validator.Validate
	logger   *zap.Logger
}

// NewFinanceService builds the payment entry service. With strict set,
// reconciling a shipment that has unreadable amount cells is refused.
func NewFinanceService(store repository.RecordStore, c clock.Clock, strict bool, l *zap.Logger) service.FinanceService {
	return &financeSvc{store: store, clock: c, strict: strict, validate: validate.New(), logger: l}
}

func (s *financeSvc) Due(ctx context.Context, on time.Time) (*service.DueResult, error) {
	ctx, span := tracer.Start(ctx, "finance.Due")
	defer span.End()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := &service.DueResult{On: on.Format("2006-01-02"), Revision: snap.Revision, Rows: []entities.PaymentRequest{}}
	for _, r := range snap.Rows {
		if strings.ToLower(strings.TrimSpace(r.Status)) == "paid" {
			continue
		}
		if sheet.SameDay(r.ScheduledPaymentDate, on) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out, nil
}

func (s *financeSvc) RecordPayments(ctx context.Context, in service.PaymentsInput) (*service.PaymentsResult, error) {
	ctx, span := tracer.Start(ctx, "finance.RecordPayments")
	defer span.End()

	if err := validate.Struct(s.validate, in); err != nil {
		return nil, err
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var mbls []string
	seen := map[string]bool{}
	for _, e := range in.Entries {
		i := snap.Find(e.RowID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", service.ErrRowNotFound, e.RowID)
		}
		applyEntry(&snap.Rows[i], e)
		if mbl := snap.Rows[i].MBL; !seen[mbl] {
			seen[mbl] = true
			mbls = append(mbls, mbl)
		}
	}

	if issues := snap.AmountIssues(mbls); len(issues) > 0 {
		lines := make([]string, 0, len(issues))
		for _, is := range issues {
			lines = append(lines, is.String())
		}
		if s.strict {
			return nil, fmt.Errorf("%w: %s", service.ErrMalformedAmount, strings.Join(lines, "; "))
		}
		logger.Warn(ctx, s.logger, "reconciling over unreadable amounts, treated as zero", zap.Strings("cells", lines))
	}

	outcomes := reconcile.Apply(snap.Rows, mbls, clock.Today(s.clock))
	rev, err := s.store.Commit(ctx, snap.Rows, snap.Expect(in.Revision))
	if err != nil {
		return nil, fmt.Errorf("record payments: %w", err)
	}

	span.SetAttributes(attribute.Int("entries", len(in.Entries)), attribute.Int("shipments", len(mbls)))
	for _, mbl := range mbls {
		logger.Info(ctx, s.logger, "shipment reconciled",
			zap.String("mbl", mbl), zap.String("status", outcomes[mbl].Status), zap.Int64("revision", rev))
	}

	out := &service.PaymentsResult{Shipments: outcomes, Revision: rev}
	for _, r := range snap.Rows {
		if seen[r.MBL] {
			out.Rows = append(out.Rows, r)
		}
	}
	return out, nil
}

func applyEntry(r *entities.PaymentRequest, e service.PaymentEntry) {
	r.ClearRaw(sheet.ColPaymentDate, sheet.ColAmountPaid)
	r.PaymentDate = sheet.ParseDate(e.PaymentDate).Value
	r.PaymentReference = strings.TrimSpace(e.PaymentReference)
	r.AmountPaidCurrency = e.AmountPaidCurrency
	r.AmountPaid = e.AmountPaid
	r.PaymentMode = strings.TrimSpace(e.PaymentMode)
	r.SwiftCertificateLink = strings.TrimSpace(e.SwiftCertificateLink)
	if e.IRNRequired {
		r.IRNInvoice = entities.IRNRequired
	} else {
		r.IRNInvoice = ""
	}
}

func (s *financeSvc) All(ctx context.Context) (*service.Rows, error) {
	ctx, span := tracer.Start(ctx, "finance.All")
	defer span.End()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &service.Rows{Rows: snap.Rows, Revision: snap.Revision}, nil
}

func (s *financeSvc) Export(ctx context.Context) (string, []byte, error) {
	ctx, span := tracer.Start(ctx, "finance.Export")
	defer span.End()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return "", nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return "", nil, err
	}
	for i, row := range sheet.Encode(snap.Rows) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return "", nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return "", nil, fmt.Errorf("export row %d: %w", i+1, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("export: %w", err)
	}
	name := "All_Payments_" + s.clock.Now().Format("20060102_150405") + ".xlsx"
	return name, buf.Bytes(), nil
}
