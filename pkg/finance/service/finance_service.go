package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"carrierpay/entities"
	"carrierpay/pkg/reconcile"
)

// ErrMalformedAmount rejects a reconciliation over unreadable money cells
// when the strict amount policy is on.
var ErrMalformedAmount = errors.New("malformed amount cells")

// ErrRowNotFound is returned when a payment entry names an unknown row.
var ErrRowNotFound = errors.New("row not found")

// PaymentEntry replaces the payment fields of one row.
type PaymentEntry struct {
	RowID                string          `json:"row_id" validate:"required"`
	PaymentDate          string          `json:"payment_date" validate:"omitempty,sheetdate"`
	PaymentReference     string          `json:"payment_reference"`
	AmountPaidCurrency   string          `json:"amount_paid_currency" validate:"omitempty,oneof=INR USD"`
	AmountPaid           decimal.Decimal `json:"amount_paid" validate:"gte=0"`
	PaymentMode          string          `json:"payment_mode"`
	SwiftCertificateLink string          `json:"swift_certificate_link" validate:"omitempty,url"`
	IRNRequired          bool            `json:"irn_required"`
}

type PaymentsInput struct {
	Entries  []PaymentEntry `json:"entries" validate:"required,min=1,dive"`
	Revision *int64         `json:"revision"`
}

type Rows struct {
	Rows     []entities.PaymentRequest `json:"rows"`
	Revision int64                     `json:"revision"`
}

type DueResult struct {
	On       string                    `json:"on"`
	Rows     []entities.PaymentRequest `json:"rows"`
	Revision int64                     `json:"revision"`
}

type PaymentsResult struct {
	// Shipments holds the derived status of every reconciled MBL.
	Shipments map[string]reconcile.Outcome `json:"shipments"`
	Rows      []entities.PaymentRequest    `json:"rows"`
	Revision  int64                        `json:"revision"`
}

type FinanceService interface {
	Due(ctx context.Context, on time.Time) (*DueResult, error)
	RecordPayments(ctx context.Context, in PaymentsInput) (*PaymentsResult, error)
	All(ctx context.Context) (*Rows, error)
	Export(ctx context.Context) (filename string, data []byte, err error)
}
