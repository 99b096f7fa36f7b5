package service

import (
	"context"
	"errors"

	"carrierpay/entities"
)

var (
	ErrShipmentNotFound = errors.New("shipment not found")
	// ErrReleaseNotAllowed means at least one row of the shipment is not Paid.
	ErrReleaseNotAllowed = errors.New("BL release requires the shipment to be Paid")
	ErrAlreadyReleased   = errors.New("BL already released")
	ErrRowNotInShipment  = errors.New("row does not belong to the shipment")
)

// EligibleShipment is a Paid shipment with documents still held.
type EligibleShipment struct {
	MBL      string   `json:"mbl"`
	Carrier  string   `json:"carrier"`
	Status   string   `json:"status"`
	RowIDs   []string `json:"row_ids"`
	Released int      `json:"released"`
}

type Eligible struct {
	Shipments []EligibleShipment `json:"shipments"`
	Revision  int64              `json:"revision"`
}

type ReleaseInput struct {
	// RowIDs narrows the release to some rows; empty means the whole shipment.
	RowIDs   []string `json:"row_ids"`
	Revision *int64   `json:"revision"`
}

type ReleaseResult struct {
	MBL      string                    `json:"mbl"`
	Released []string                  `json:"released"`
	Rows     []entities.PaymentRequest `json:"rows"`
	Revision int64                     `json:"revision"`
}

type ReleaseService interface {
	Eligible(ctx context.Context) (*Eligible, error)
	Release(ctx context.Context, mbl string, in ReleaseInput) (*ReleaseResult, error)
}
