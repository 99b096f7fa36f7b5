package serviceImp

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"carrierpay/entities"
	"carrierpay/pkg/logger"
	"carrierpay/pkg/reconcile"
	"carrierpay/pkg/release/service"
	"carrierpay/pkg/request/repository"
)

var tracer = otel.Tracer("carrierpay/release")

type releaseSvc struct {
	store  repository.RecordStore
	logger *zap.Logger
}

func NewReleaseService(store repository.RecordStore, l *zap.Logger) service.ReleaseService {
	return &releaseSvc{store: store, logger: l}
}

func allPaid(items []entities.PaymentRequest) bool {
	for _, it := range items {
		if !reconcile.IsPaid(it.Status) {
			return false
		}
	}
	return len(items) > 0
}

func (s *releaseSvc) Eligible(ctx context.Context) (*service.Eligible, error) {
	ctx, span := tracer.Start(ctx, "release.Eligible")
	defer span.End()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	order, idx := reconcile.Group(snap.Rows)
	out := &service.Eligible{Revision: snap.Revision, Shipments: []service.EligibleShipment{}}
	for _, mbl := range order {
		items := reconcile.Pick(snap.Rows, idx[mbl])
		if !allPaid(items) {
			continue
		}
		e := service.EligibleShipment{MBL: mbl, Carrier: items[0].Carrier, Status: items[0].Status}
		for _, it := range items {
			e.RowIDs = append(e.RowIDs, it.RowID)
			if it.IsReleased() {
				e.Released++
			}
		}
		if e.Released == len(items) {
			continue
		}
		out.Shipments = append(out.Shipments, e)
	}
	return out, nil
}

func (s *releaseSvc) Release(ctx context.Context, mbl string, in service.ReleaseInput) (*service.ReleaseResult, error) {
	ctx, span := tracer.Start(ctx, "release.Release")
	defer span.End()
	span.SetAttributes(attribute.String("mbl", mbl))

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	_, idx := reconcile.Group(snap.Rows)
	indices, ok := idx[mbl]
	if !ok {
		return nil, fmt.Errorf("%w: %s", service.ErrShipmentNotFound, mbl)
	}
	if !allPaid(reconcile.Pick(snap.Rows, indices)) {
		return nil, fmt.Errorf("%w: %s", service.ErrReleaseNotAllowed, mbl)
	}

	targets := indices
	if len(in.RowIDs) > 0 {
		member := map[string]int{}
		for _, i := range indices {
			member[snap.Rows[i].RowID] = i
		}
		targets = make([]int, 0, len(in.RowIDs))
		for _, id := range in.RowIDs {
			i, ok := member[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s not in %s", service.ErrRowNotInShipment, id, mbl)
			}
			targets = append(targets, i)
		}
	}

	var released []string
	for _, i := range targets {
		if !snap.Rows[i].IsReleased() {
			released = append(released, snap.Rows[i].RowID)
		}
	}
	if len(released) == 0 {
		return nil, fmt.Errorf("%w: %s", service.ErrAlreadyReleased, mbl)
	}
	for _, i := range targets {
		snap.Rows[i].BLReleased = entities.BLReleased
	}

	rev, err := s.store.Commit(ctx, snap.Rows, snap.Expect(in.Revision))
	if err != nil {
		return nil, fmt.Errorf("release %s: %w", mbl, err)
	}
	logger.Info(ctx, s.logger, "BL released", zap.String("mbl", mbl), zap.Int("rows", len(released)), zap.Int64("revision", rev))

	return &service.ReleaseResult{
		MBL:      mbl,
		Released: released,
		Rows:     reconcile.Pick(snap.Rows, indices),
		Revision: rev,
	}, nil
}
