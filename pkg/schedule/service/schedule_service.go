package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"carrierpay/entities"
)

var (
	ErrShipmentNotFound = errors.New("shipment not found")
	// ErrNotSchedulable means a shipment is already paid or already planned.
	ErrNotSchedulable = errors.New("shipment cannot be scheduled")
	ErrBadPaymentDate = errors.New("payment date must be today, tomorrow or YYYY-MM-DD")
)

// PlanningEntry is one shipment awaiting a payment date.
type PlanningEntry struct {
	MBL                string          `json:"mbl"`
	LDCCutoff          string          `json:"ldc_cutoff"`
	BLType             string          `json:"bl_type"`
	ExpectedINR        decimal.Decimal `json:"expected_inr"`
	ExpectedUSD        decimal.Decimal `json:"expected_usd"`
	PaymentRequestDate *time.Time      `json:"payment_request_date"`
	Status             string          `json:"status"`
}

type Summary struct {
	Shipments []PlanningEntry `json:"shipments"`
	Revision  int64           `json:"revision"`
}

// Totals are the sums of a planner's selection, with display strings.
type Totals struct {
	MBLs    []string        `json:"mbls"`
	INR     decimal.Decimal `json:"inr"`
	USD     decimal.Decimal `json:"usd"`
	INRText string          `json:"inr_text"`
	USDText string          `json:"usd_text"`
}

type ScheduleInput struct {
	MBLs []string `json:"mbls" validate:"required,min=1,dive,required"`
	// PaymentDate is today, tomorrow or YYYY-MM-DD.
	PaymentDate string `json:"payment_date" validate:"required"`
	Revision    *int64 `json:"revision"`
}

type ScheduleResult struct {
	PaymentDate string                    `json:"payment_date"`
	Status      string                    `json:"status"`
	Rows        []entities.PaymentRequest `json:"rows"`
	Revision    int64                     `json:"revision"`
}

type ScheduleService interface {
	Summary(ctx context.Context) (*Summary, error)
	Totals(ctx context.Context, mbls []string) (*Totals, error)
	Schedule(ctx context.Context, in ScheduleInput) (*ScheduleResult, error)
}
