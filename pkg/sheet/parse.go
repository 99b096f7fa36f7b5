package sheet

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// DateLayout is the format dates are written in.
const DateLayout = "02-01-2006"

// State tells how a raw cell was understood.
type State int

const (
	Empty State = iota
	Valid
	Invalid
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Valid:
		return "valid"
	default:
		return "invalid"
	}
}

// AmountResult is the outcome of reading a money cell. Callers decide what an
// Invalid cell means for them; Value is zero unless State is Valid.
type AmountResult struct {
	Value decimal.Decimal
	State State
	Raw   string
}

// groupedAmount accepts commas only as digit grouping: western thousands
// (1,234,567.50) or Indian lakhs (12,34,567.50).
var groupedAmount = regexp.MustCompile(`^[+-]?(\d{1,3}(,\d{3})+|\d{1,2}(,\d{2})*,\d{3})(\.\d+)?$`)

// ParseAmount reads a money cell. Commas are accepted as digit grouping only;
// anything else with a comma is Invalid.
func ParseAmount(raw string) AmountResult {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return AmountResult{State: Empty, Raw: raw}
	}
	if strings.Contains(s, ",") {
		if !groupedAmount.MatchString(s) {
			return AmountResult{State: Invalid, Raw: raw}
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return AmountResult{State: Invalid, Raw: raw}
	}
	return AmountResult{Value: d, State: Valid, Raw: raw}
}

// DateResult is the outcome of reading a date cell.
type DateResult struct {
	Value *time.Time
	State State
	Raw   string
}

var dateLayouts = []string{
	DateLayout,
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02-Jan-2006",
	"2-Jan-2006",
}

// ParseDate reads a date cell permissively: the written DD-MM-YYYY form, ISO
// dates and timestamps, and raw Excel serial numbers.
func ParseDate(raw string) DateResult {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "nat") {
		return DateResult{State: Empty, Raw: raw}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := DateOf(t)
			return DateResult{Value: &d, State: Valid, Raw: raw}
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1 && f < 2958466 {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			d := DateOf(t)
			return DateResult{Value: &d, State: Valid, Raw: raw}
		}
	}
	return DateResult{State: Invalid, Raw: raw}
}

// DateOf drops the clock part of t, keeping its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate writes t as DD-MM-YYYY; nil becomes an empty cell.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// SameDay compares two optional dates by calendar day.
func SameDay(a *time.Time, b time.Time) bool {
	if a == nil {
		return false
	}
	return DateOf(*a).Equal(DateOf(b))
}
