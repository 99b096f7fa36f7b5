package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"

	BLReleased  = "Released"
	IRNRequired = "Required"
)

// PaymentRequest is one charge/invoice line of a shipment. Rows sharing an MBL
// are reconciled together and carry the same Status.
type PaymentRequest struct {
	RowID string `gorm:"primaryKey;size:36" json:"row_id"`
	Seq   int    `gorm:"index" json:"seq"` // position in the store

	DateOfCreation     *time.Time `json:"date_of_creation"`
	Carrier            string     `json:"carrier"`
	CarrierInvoiceNo   string     `json:"carrier_invoice_no"`
	CarrierInvoiceLink string     `json:"carrier_invoice_link"`
	InvoiceDate        *time.Time `json:"invoice_date"`
	MBL                string     `gorm:"column:mbl;index" json:"mbl"`
	BLType             string     `json:"bl_type"` // DIRECT|MASTER
	SOB                *time.Time `gorm:"column:sob" json:"sob"`
	ETA                *time.Time `gorm:"column:eta" json:"eta"`
	LDCCutoff          string     `gorm:"column:ldc_cutoff" json:"ldc_cutoff"`
	Remarks            string     `json:"remarks"` // charge type

	Currency     string          `gorm:"size:3" json:"currency"`
	Amount       decimal.Decimal `gorm:"type:decimal(14,2)" json:"amount"`
	GSTAmountINR decimal.Decimal `gorm:"column:gst_amount_inr;type:decimal(14,2)" json:"gst_amount_inr"`

	Status     string `gorm:"index" json:"status"`
	BLReleased string `gorm:"column:bl_released" json:"bl_released"`

	PaymentRequestDate   *time.Time      `json:"payment_request_date"`
	ScheduledPaymentDate *time.Time      `gorm:"index" json:"scheduled_payment_date"`
	PaymentDate          *time.Time      `json:"payment_date"`
	PaymentReference     string          `json:"payment_reference"`
	AmountPaidCurrency   string          `gorm:"size:3" json:"amount_paid_currency"`
	AmountPaid           decimal.Decimal `gorm:"type:decimal(14,2)" json:"amount_paid"`
	PaymentMode          string          `json:"payment_mode"`
	SwiftCertificateLink string          `json:"swift_certificate_link"`
	IRNInvoice           string          `gorm:"column:irn_invoice" json:"irn_invoice"`
	PaymentUpdatedDate   *time.Time      `json:"payment_updated_date"`

	// RawCells holds, by column name, the text of cells that could not be
	// read. It is written back as-is until the field is set again.
	RawCells map[string]string `gorm:"serializer:json;type:text" json:"raw_cells,omitempty"`
}

func (PaymentRequest) TableName() string { return "payment_requests" }

// IsReleased reports whether the row's bill of lading was released.
func (p *PaymentRequest) IsReleased() bool { return p.BLReleased == BLReleased }

// Raw returns the unreadable text kept for col, if any.
func (p *PaymentRequest) Raw(col string) (string, bool) {
	v, ok := p.RawCells[col]
	return v, ok
}

// KeepRaw remembers the unreadable text of col.
func (p *PaymentRequest) KeepRaw(col, raw string) {
	if p.RawCells == nil {
		p.RawCells = map[string]string{}
	}
	p.RawCells[col] = raw
}

// ClearRaw forgets col's unreadable text once the field was set explicitly.
func (p *PaymentRequest) ClearRaw(cols ...string) {
	for _, c := range cols {
		delete(p.RawCells, c)
	}
	if len(p.RawCells) == 0 {
		p.RawCells = nil
	}
}
