package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"carrierpay/entities"
)

var ErrRowNotFound = errors.New("row not found")

// NewRequest is one charge line as Central Ops enters it. Dates are
// DD-MM-YYYY (or ISO) strings.
type NewRequest struct {
	DateOfCreation     string          `json:"date_of_creation" validate:"omitempty,sheetdate"`
	Carrier            string          `json:"carrier" validate:"omitempty,carrier"`
	CarrierInvoiceNo   string          `json:"carrier_invoice_no"`
	CarrierInvoiceLink string          `json:"carrier_invoice_link" validate:"omitempty,url"`
	InvoiceDate        string          `json:"invoice_date" validate:"omitempty,sheetdate"`
	MBL                string          `json:"mbl" validate:"required,notblank"`
	BLType             string          `json:"bl_type" validate:"omitempty,oneof=DIRECT MASTER"`
	SOB                string          `json:"sob" validate:"omitempty,sheetdate"`
	ETA                string          `json:"eta" validate:"omitempty,sheetdate"`
	LDCCutoff          string          `json:"ldc_cutoff"`
	Remarks            string          `json:"remarks" validate:"omitempty,charge_type"`
	Currency           string          `json:"currency" validate:"required,oneof=INR USD"`
	Amount             decimal.Decimal `json:"amount" validate:"gte=0"`
	GSTAmountINR       decimal.Decimal `json:"gst_amount_inr" validate:"gte=0"`
	PaymentRequestDate string          `json:"payment_request_date" validate:"omitempty,sheetdate"`
}

type CreateInput struct {
	Requests []NewRequest `json:"requests" validate:"required,min=1,dive"`
	Revision *int64       `json:"revision"`
}

// RequestPatch edits intake fields; nil fields are left alone. Payment,
// status, release and schedule fields are not editable here.
type RequestPatch struct {
	Carrier            *string          `json:"carrier" validate:"omitempty,carrier"`
	CarrierInvoiceNo   *string          `json:"carrier_invoice_no"`
	CarrierInvoiceLink *string          `json:"carrier_invoice_link" validate:"omitempty,url"`
	InvoiceDate        *string          `json:"invoice_date" validate:"omitempty,sheetdate"`
	MBL                *string          `json:"mbl" validate:"omitempty,notblank"`
	BLType             *string          `json:"bl_type" validate:"omitempty,oneof=DIRECT MASTER"`
	SOB                *string          `json:"sob" validate:"omitempty,sheetdate"`
	ETA                *string          `json:"eta" validate:"omitempty,sheetdate"`
	LDCCutoff          *string          `json:"ldc_cutoff"`
	Remarks            *string          `json:"remarks" validate:"omitempty,charge_type"`
	Currency           *string          `json:"currency" validate:"omitempty,oneof=INR USD"`
	Amount             *decimal.Decimal `json:"amount" validate:"omitempty,gte=0"`
	GSTAmountINR       *decimal.Decimal `json:"gst_amount_inr" validate:"omitempty,gte=0"`
	Revision           *int64           `json:"revision"`
}

// Result is a set of rows as of one store revision.
type Result struct {
	Rows     []entities.PaymentRequest `json:"rows"`
	Revision int64                     `json:"revision"`
}

type RequestService interface {
	Create(ctx context.Context, in CreateInput) (*Result, error)
	Update(ctx context.Context, rowID string, p RequestPatch) (*entities.PaymentRequest, int64, error)
	Report(ctx context.Context) (*Result, error)
}
