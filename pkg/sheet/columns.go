package sheet

import "strings"

// Column names of the payment request sheet. They are addressed by exact name;
// only surrounding whitespace and a BOM are ignored when matching headers.
const (
	ColRowID                = "Row ID"
	ColDateOfCreation       = "Date of Creation"
	ColCarrier              = "Carrier"
	ColCarrierInvoiceNo     = "Carrier Invoice #"
	ColCarrierInvoiceLink   = "Carrier Invoice Link"
	ColInvoiceDate          = "Invoice Date"
	ColMBL                  = "MBL #"
	ColBLType               = "BL Type"
	ColSOB                  = "SOB"
	ColETA                  = "ETA"
	ColLDCCutoff            = "LDC Cut-off"
	ColRemarks              = "Remarks"
	ColCurrency             = "Currency"
	ColAmount               = "Amount"
	ColGSTAmountINR         = "GST Amount in INR (If Freight in USD and GST in INR)"
	ColBLReleased           = "BL Released?"
	ColStatus               = "Status"
	ColPaymentRequestDate   = "Payment Request Date"
	ColScheduledPaymentDate = "Scheduled Payment Date"
	ColPaymentDate          = "Payment Date"
	ColPaymentReference     = "Payment Reference Number"
	ColAmountPaidCurrency   = "Amount Paid Currency"
	ColAmountPaid           = "Amount Paid"
	ColPaymentMode          = "Payment Mode"
	ColSwiftCertificateLink = "SWIFT Certificate Link"
	ColIRNInvoice           = "IRN Invoice"
	ColPaymentUpdatedDate   = "Payment Updated Date"
)

// Columns is the write order of the sheet.
var Columns = []string{
	ColRowID,
	ColDateOfCreation,
	ColCarrier,
	ColCarrierInvoiceNo,
	ColCarrierInvoiceLink,
	ColInvoiceDate,
	ColMBL,
	ColBLType,
	ColSOB,
	ColETA,
	ColLDCCutoff,
	ColRemarks,
	ColCurrency,
	ColAmount,
	ColGSTAmountINR,
	ColBLReleased,
	ColStatus,
	ColPaymentRequestDate,
	ColScheduledPaymentDate,
	ColPaymentDate,
	ColPaymentReference,
	ColAmountPaidCurrency,
	ColAmountPaid,
	ColPaymentMode,
	ColSwiftCertificateLink,
	ColIRNInvoice,
	ColPaymentUpdatedDate,
}

// Header maps column names to their position in a sheet's first row.
type Header map[string]int

func norm(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	return strings.TrimSpace(s)
}

// NewHeader indexes a header row. The first occurrence of a name wins.
func NewHeader(row []string) Header {
	h := Header{}
	for i, name := range row {
		k := norm(name)
		if k == "" {
			continue
		}
		if _, ok := h[k]; !ok {
			h[k] = i
		}
	}
	return h
}

// Index returns the position of col, or -1.
func (h Header) Index(col string) int {
	if i, ok := h[norm(col)]; ok {
		return i
	}
	return -1
}

// Has reports whether col is present.
func (h Header) Has(col string) bool { return h.Index(col) >= 0 }
