package serviceImp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"carrierpay/entities"
	"carrierpay/pkg/clock"
	"carrierpay/pkg/logger"
	"carrierpay/pkg/reconcile"
	"carrierpay/pkg/request/repository"
	"carrierpay/pkg/request/service"
	"carrierpay/pkg/sheet"
	"carrierpay/pkg/validate"
)

var tracer = otel.Tracer("carrierpay/request")

type requestSvc struct {
	store    repository.RecordStore
	clock    clock.Clock
	validate *validator.Validate
	logger   *zap.Logger
}

func NewRequestService(store repository.RecordStore, c clock.Clock, l *zap.Logger) service.RequestService {
	return &requestSvc{store: store, clock: c, validate: validate.New(), logger: l}
}

func (s *requestSvc) Create(ctx context.Context, in service.CreateInput) (*service.Result, error) {
	ctx, span := tracer.Start(ctx, "request.Create")
	defer span.End()

	if err := validate.Struct(s.validate, in); err != nil {
		return nil, err
	}
	snap, err := repository.LoadForAppend(ctx, s.store)
	if err != nil {
		return nil, err
	}
	expected := snap.Expect(in.Revision)
	today := clock.Today(s.clock)

	rows := snap.Rows
	created := make([]string, 0, len(in.Requests))
	var mbls []string
	for _, r := range in.Requests {
		row := entities.PaymentRequest{
			RowID:              uuid.NewString(),
			DateOfCreation:     dateOr(r.DateOfCreation, today),
			Carrier:            r.Carrier,
			CarrierInvoiceNo:   strings.TrimSpace(r.CarrierInvoiceNo),
			CarrierInvoiceLink: strings.TrimSpace(r.CarrierInvoiceLink),
			InvoiceDate:        sheet.ParseDate(r.InvoiceDate).Value,
			MBL:                strings.TrimSpace(r.MBL),
			BLType:             r.BLType,
			SOB:                sheet.ParseDate(r.SOB).Value,
			ETA:                sheet.ParseDate(r.ETA).Value,
			LDCCutoff:          r.LDCCutoff,
			Remarks:            r.Remarks,
			Currency:           r.Currency,
			Amount:             r.Amount,
			GSTAmountINR:       r.GSTAmountINR,
			PaymentRequestDate: dateOr(r.PaymentRequestDate, today),
		}
		rows = append(rows, row)
		created = append(created, row.RowID)
		if !row.Amount.IsZero() || !row.GSTAmountINR.IsZero() {
			mbls = append(mbls, row.MBL)
		}
	}
	reconcile.Refresh(rows, mbls, today)

	rev, err := s.store.Commit(ctx, rows, expected)
	if err != nil {
		return nil, fmt.Errorf("create requests: %w", err)
	}
	span.SetAttributes(attribute.Int("rows", len(created)))
	logger.Info(ctx, s.logger, "payment requests created", zap.Int("rows", len(created)), zap.Int64("revision", rev))

	out := &service.Result{Revision: rev}
	want := map[string]bool{}
	for _, id := range created {
		want[id] = true
	}
	for _, r := range rows {
		if want[r.RowID] {
			out.Rows = append(out.Rows, r)
		}
	}
	return out, nil
}

func (s *requestSvc) Update(ctx context.Context, rowID string, p service.RequestPatch) (*entities.PaymentRequest, int64, error) {
	ctx, span := tracer.Start(ctx, "request.Update")
	defer span.End()
	span.SetAttributes(attribute.String("row_id", rowID))

	if err := validate.Struct(s.validate, p); err != nil {
		return nil, 0, err
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, 0, err
	}
	i := snap.Find(rowID)
	if i < 0 {
		return nil, 0, fmt.Errorf("%w: %s", service.ErrRowNotFound, rowID)
	}

	cur := &snap.Rows[i]
	mbls := []string{cur.MBL}
	// only a change to what is owed can move the derived status
	money := p.MBL != nil || p.Currency != nil || p.Amount != nil || p.GSTAmountINR != nil
	if p.Carrier != nil {
		cur.Carrier = *p.Carrier
	}
	if p.CarrierInvoiceNo != nil {
		cur.CarrierInvoiceNo = strings.TrimSpace(*p.CarrierInvoiceNo)
	}
	if p.CarrierInvoiceLink != nil {
		cur.CarrierInvoiceLink = strings.TrimSpace(*p.CarrierInvoiceLink)
	}
	if p.InvoiceDate != nil {
		cur.InvoiceDate = sheet.ParseDate(*p.InvoiceDate).Value
		cur.ClearRaw(sheet.ColInvoiceDate)
	}
	if p.MBL != nil {
		cur.MBL = strings.TrimSpace(*p.MBL)
		mbls = append(mbls, cur.MBL)
	}
	if p.BLType != nil {
		cur.BLType = *p.BLType
	}
	if p.SOB != nil {
		cur.SOB = sheet.ParseDate(*p.SOB).Value
		cur.ClearRaw(sheet.ColSOB)
	}
	if p.ETA != nil {
		cur.ETA = sheet.ParseDate(*p.ETA).Value
		cur.ClearRaw(sheet.ColETA)
	}
	if p.LDCCutoff != nil {
		cur.LDCCutoff = *p.LDCCutoff
	}
	if p.Remarks != nil {
		cur.Remarks = *p.Remarks
	}
	if p.Currency != nil {
		cur.Currency = *p.Currency
	}
	if p.Amount != nil {
		cur.Amount = *p.Amount
		cur.ClearRaw(sheet.ColAmount)
	}
	if p.GSTAmountINR != nil {
		cur.GSTAmountINR = *p.GSTAmountINR
		cur.ClearRaw(sheet.ColGSTAmountINR)
	}
	if money {
		reconcile.Refresh(snap.Rows, mbls, clock.Today(s.clock))
	}

	rev, err := s.store.Commit(ctx, snap.Rows, snap.Expect(p.Revision))
	if err != nil {
		return nil, 0, fmt.Errorf("update request %s: %w", rowID, err)
	}
	updated := snap.Rows[i]
	return &updated, rev, nil
}

func (s *requestSvc) Report(ctx context.Context) (*service.Result, error) {
	ctx, span := tracer.Start(ctx, "request.Report")
	defer span.End()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &service.Result{Rows: snap.Rows, Revision: snap.Revision}, nil
}

// dateOr parses raw, falling back to def when it is blank.
func dateOr(raw string, def time.Time) *time.Time {
	if v := sheet.ParseDate(raw).Value; v != nil {
		return v
	}
	d := def
	return &d
}
