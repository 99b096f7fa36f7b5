package sheet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"carrierpay/entities"
)

var ErrMissingColumn = errors.New("sheet is missing a required column")

// Issue is a cell that could not be understood. Line is 1-based and counts the
// header, so it matches what a spreadsheet user sees.
type Issue struct {
	Line   int    `json:"line"`
	RowID  string `json:"row_id,omitempty"`
	MBL    string `json:"mbl,omitempty"`
	Column string `json:"column"`
	Raw    string `json:"raw"`
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d (%s) %q: %q", i.Line, i.MBL, i.Column, i.Raw)
}

// IsAmount reports whether the issue is about a money column.
func (i Issue) IsAmount() bool {
	switch i.Column {
	case ColAmount, ColGSTAmountINR, ColAmountPaid:
		return true
	}
	return false
}

// Decode turns sheet rows (header first) into payment requests. Unreadable
// cells are left zero/nil and reported as issues; blank rows are skipped.
func Decode(rows [][]string) ([]entities.PaymentRequest, []Issue, error) {
	if len(rows) == 0 {
		return nil, nil, nil
	}
	h := NewHeader(rows[0])
	if !h.Has(ColMBL) {
		return nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColMBL)
	}

	var out []entities.PaymentRequest
	var issues []Issue
	for n, rec := range rows[1:] {
		if blank(rec) {
			continue
		}
		line := n + 2
		get := func(col string) string {
			idx := h.Index(col)
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		p := entities.PaymentRequest{
			RowID:                get(ColRowID),
			Seq:                  len(out),
			Carrier:              get(ColCarrier),
			CarrierInvoiceNo:     get(ColCarrierInvoiceNo),
			CarrierInvoiceLink:   get(ColCarrierInvoiceLink),
			MBL:                  get(ColMBL),
			BLType:               get(ColBLType),
			LDCCutoff:            get(ColLDCCutoff),
			Remarks:              get(ColRemarks),
			Currency:             strings.ToUpper(get(ColCurrency)),
			Status:               get(ColStatus),
			BLReleased:           get(ColBLReleased),
			PaymentReference:     get(ColPaymentReference),
			AmountPaidCurrency:   strings.ToUpper(get(ColAmountPaidCurrency)),
			PaymentMode:          get(ColPaymentMode),
			SwiftCertificateLink: get(ColSwiftCertificateLink),
			IRNInvoice:           get(ColIRNInvoice),
		}

		amount := func(col string, dst *decimal.Decimal) {
			r := ParseAmount(get(col))
			if r.State == Invalid {
				issues = append(issues, Issue{Line: line, RowID: p.RowID, MBL: p.MBL, Column: col, Raw: r.Raw})
				p.KeepRaw(col, r.Raw)
			}
			*dst = r.Value
		}
		date := func(col string, dst **time.Time) {
			r := ParseDate(get(col))
			if r.State == Invalid {
				issues = append(issues, Issue{Line: line, RowID: p.RowID, MBL: p.MBL, Column: col, Raw: r.Raw})
				p.KeepRaw(col, r.Raw)
			}
			*dst = r.Value
		}

		amount(ColAmount, &p.Amount)
		amount(ColGSTAmountINR, &p.GSTAmountINR)
		amount(ColAmountPaid, &p.AmountPaid)

		date(ColDateOfCreation, &p.DateOfCreation)
		date(ColInvoiceDate, &p.InvoiceDate)
		date(ColSOB, &p.SOB)
		date(ColETA, &p.ETA)
		date(ColPaymentRequestDate, &p.PaymentRequestDate)
		date(ColScheduledPaymentDate, &p.ScheduledPaymentDate)
		date(ColPaymentDate, &p.PaymentDate)
		date(ColPaymentUpdatedDate, &p.PaymentUpdatedDate)

		out = append(out, p)
	}
	return out, issues, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Encode renders payment requests as typed cell rows, header first. Amounts
// become numbers so the sheet stays summable; dates become DD-MM-YYYY text.
// Unreadable cells that were never set again keep their original text.
func Encode(items []entities.PaymentRequest) [][]any {
	out := make([][]any, 0, len(items)+1)
	head := make([]any, len(Columns))
	for i, c := range Columns {
		head[i] = c
	}
	out = append(out, head)

	for i := range items {
		p := &items[i]
		date := func(col string, t *time.Time) any {
			if raw, ok := p.Raw(col); ok && t == nil {
				return raw
			}
			return FormatDate(t)
		}
		amount := func(col string, d decimal.Decimal, blankZero bool) any {
			if raw, ok := p.Raw(col); ok && d.IsZero() {
				return raw
			}
			if blankZero && d.IsZero() {
				return ""
			}
			return d.InexactFloat64()
		}
		out = append(out, []any{
			p.RowID,
			date(ColDateOfCreation, p.DateOfCreation),
			p.Carrier,
			p.CarrierInvoiceNo,
			p.CarrierInvoiceLink,
			date(ColInvoiceDate, p.InvoiceDate),
			p.MBL,
			p.BLType,
			date(ColSOB, p.SOB),
			date(ColETA, p.ETA),
			p.LDCCutoff,
			p.Remarks,
			p.Currency,
			amount(ColAmount, p.Amount, false),
			amount(ColGSTAmountINR, p.GSTAmountINR, true),
			p.BLReleased,
			p.Status,
			date(ColPaymentRequestDate, p.PaymentRequestDate),
			date(ColScheduledPaymentDate, p.ScheduledPaymentDate),
			date(ColPaymentDate, p.PaymentDate),
			p.PaymentReference,
			p.AmountPaidCurrency,
			amount(ColAmountPaid, p.AmountPaid, true),
			p.PaymentMode,
			p.SwiftCertificateLink,
			p.IRNInvoice,
			date(ColPaymentUpdatedDate, p.PaymentUpdatedDate),
		})
	}
	return out
}

// Issues lists the unreadable cells still kept on rows. Line assumes the
// rows sit in the sheet in Seq order under a header.
func Issues(rows []entities.PaymentRequest) []Issue {
	var out []Issue
	for _, p := range rows {
		for _, col := range Columns {
			if raw, ok := p.Raw(col); ok {
				out = append(out, Issue{Line: p.Seq + 2, RowID: p.RowID, MBL: p.MBL, Column: col, Raw: raw})
			}
		}
	}
	return out
}
