// Package reconcile derives a shipment's payment status from its line items.
//
// All amounts are decimals compared at paise precision, so a shipment whose
// payments add up to the expected INR total is Paid regardless of how the
// individual amounts were entered.
package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"carrierpay/entities"
)

const (
	StatusPaid       = "Paid"
	StatusUSDPending = "USD Pending"
	StatusOverPaid   = "Over Paid: Check Amount"

	ScheduledPrefix = "Pay On:"
	scheduledLayout = "02-Jan-2006"
)

// precision is the number of decimal places money is compared at.
const precision = 2

// Totals are the per-shipment sums status derivation works from.
type Totals struct {
	ExpectedINR    decimal.Decimal `json:"expected_inr"`
	ExpectedUSD    decimal.Decimal `json:"expected_usd"`
	PaidINR        decimal.Decimal `json:"paid_inr"`
	USDPaymentDone bool            `json:"usd_payment_done"`
}

// Aggregate sums the line items of one shipment. GST is always INR, so it is
// added to the INR expectation even on USD rows.
func Aggregate(items []entities.PaymentRequest) Totals {
	var t Totals
	for _, it := range items {
		switch it.Currency {
		case entities.CurrencyINR:
			t.ExpectedINR = t.ExpectedINR.Add(it.Amount)
		case entities.CurrencyUSD:
			t.ExpectedUSD = t.ExpectedUSD.Add(it.Amount)
		}
		t.ExpectedINR = t.ExpectedINR.Add(it.GSTAmountINR)

		if it.AmountPaidCurrency == entities.CurrencyINR {
			t.PaidINR = t.PaidINR.Add(it.AmountPaid)
		}
		if strings.TrimSpace(it.SwiftCertificateLink) != "" {
			t.USDPaymentDone = true
		}
	}
	return t
}

// usdPending reports a USD leg that has no SWIFT proof yet.
func (t Totals) usdPending() bool {
	return t.ExpectedUSD.IsPositive() && !t.USDPaymentDone
}

// Outcome is a derived status. Updated means the payment-updated date moves to
// today; otherwise it is cleared.
type Outcome struct {
	Status  string `json:"status"`
	Updated bool   `json:"updated"`
}

// Derive computes the status of a shipment from its totals. It is a pure
// function: previous is only returned when no INR payment was recorded.
func Derive(t Totals, previous string) Outcome {
	paid := t.PaidINR.Round(precision)
	expected := t.ExpectedINR.Round(precision)

	switch {
	case paid.Equal(expected):
		if t.usdPending() {
			return Outcome{Status: StatusUSDPending, Updated: true}
		}
		return Outcome{Status: StatusPaid, Updated: true}

	case paid.IsPositive() && paid.LessThan(expected):
		diff := expected.Sub(paid).Round(precision)
		status := "Part Payment: ₹" + diff.String() + " Pending"
		if t.usdPending() {
			status += " | " + StatusUSDPending
		}
		return Outcome{Status: status, Updated: true}

	case paid.GreaterThan(expected):
		return Outcome{Status: StatusOverPaid, Updated: true}
	}
	return Outcome{Status: previous}
}

// Group returns shipment ids in first-seen order and the row indices of each.
func Group(rows []entities.PaymentRequest) ([]string, map[string][]int) {
	var order []string
	idx := map[string][]int{}
	for i, r := range rows {
		if _, ok := idx[r.MBL]; !ok {
			order = append(order, r.MBL)
		}
		idx[r.MBL] = append(idx[r.MBL], i)
	}
	return order, idx
}

// Pick copies the rows at the given indices.
func Pick(rows []entities.PaymentRequest, indices []int) []entities.PaymentRequest {
	out := make([]entities.PaymentRequest, 0, len(indices))
	for _, i := range indices {
		out = append(out, rows[i])
	}
	return out
}

// Apply reconciles each listed shipment over all of its rows and writes the
// resulting status and payment-updated date to every one of them. Shipments
// not present in rows are skipped.
func Apply(rows []entities.PaymentRequest, mbls []string, today time.Time) map[string]Outcome {
	_, idx := Group(rows)
	out := make(map[string]Outcome, len(mbls))
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	for _, mbl := range mbls {
		indices, ok := idx[mbl]
		if !ok {
			continue
		}
		group := Pick(rows, indices)
		res := Derive(Aggregate(group), group[0].Status)
		for _, i := range indices {
			rows[i].Status = res.Status
			if res.Updated {
				d := day
				rows[i].PaymentUpdatedDate = &d
			} else {
				rows[i].PaymentUpdatedDate = nil
			}
		}
		out[mbl] = res
	}
	return out
}

// Refresh re-derives the listed shipments that already carry payment
// evidence, so an intake edit cannot leave a stale Paid or Part Payment
// status behind. Shipments with nothing paid keep their status.
func Refresh(rows []entities.PaymentRequest, mbls []string, today time.Time) map[string]Outcome {
	_, idx := Group(rows)
	var touched []string
	for _, mbl := range mbls {
		for _, i := range idx[mbl] {
			if !rows[i].AmountPaid.IsZero() || strings.TrimSpace(rows[i].SwiftCertificateLink) != "" {
				touched = append(touched, mbl)
				break
			}
		}
	}
	if len(touched) == 0 {
		return map[string]Outcome{}
	}
	return Apply(rows, touched, today)
}

// IsPaid matches the Paid status the way users type it.
func IsPaid(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusPaid)
}

// IsScheduled reports a "Pay On:" status.
func IsScheduled(status string) bool {
	return strings.HasPrefix(status, ScheduledPrefix)
}

// ScheduledStatus is the status of a shipment planned for payment on day.
func ScheduledStatus(day time.Time) string {
	return ScheduledPrefix + " " + day.Format(scheduledLayout)
}

// ShipmentStatus is the status shared by all rows of a shipment, or "" when
// the rows disagree.
func ShipmentStatus(items []entities.PaymentRequest) string {
	if len(items) == 0 {
		return ""
	}
	s := items[0].Status
	for _, it := range items[1:] {
		if it.Status != s {
			return ""
		}
	}
	return s
}
