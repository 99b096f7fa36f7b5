package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"carrierpay/entities"
	"carrierpay/pkg/logger"
	"carrierpay/pkg/request/repository"
	"carrierpay/pkg/sheet"
)

const (
	dataSheet = "Sheet1"
	metaSheet = "_meta"
)

// xlsxStore keeps the rows in a workbook. The revision lives in a hidden
// sheet; every commit rewrites the workbook through a temp file + rename.
type xlsxStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

func NewXLSX(path string, l *zap.Logger) repository.RecordStore {
	return &xlsxStore{path: path, logger: l}
}

func (s *xlsxStore) Load(ctx context.Context) (*repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return nil, err
	}

	// rows typed in by hand or written by older tooling have no id yet
	missing := 0
	for i := range snap.Rows {
		if snap.Rows[i].RowID == "" {
			snap.Rows[i].RowID = uuid.NewString()
			missing++
		}
	}
	if missing > 0 {
		next := snap.Revision + 1
		if err := s.write(snap.Rows, next); err != nil {
			return nil, fmt.Errorf("assign row ids: %w", err)
		}
		snap.Revision = next
		logger.Info(ctx, s.logger, "assigned row ids", zap.Int("rows", missing), zap.String("path", s.path))
	}
	return snap, nil
}

func (s *xlsxStore) Peek(ctx context.Context) (*repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *xlsxStore) Commit(ctx context.Context, rows []entities.PaymentRequest, expected int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.revision()
	if err != nil {
		return 0, err
	}
	if cur != expected {
		return 0, fmt.Errorf("%w: at %d, expected %d", repository.ErrStaleRevision, cur, expected)
	}
	next := expected + 1
	if err := s.write(rows, next); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *xlsxStore) read() (*repository.Snapshot, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w (%w): %s", repository.ErrNoData, repository.ErrNoStore, s.path)
		}
		return nil, fmt.Errorf("%w: open %s: %v", repository.ErrNoData, s.path, err)
	}
	defer f.Close()

	name := firstDataSheet(f)
	if name == "" {
		return nil, fmt.Errorf("%w: %s has no sheets", repository.ErrNoData, s.path)
	}
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", repository.ErrNoData, name, err)
	}
	rows, issues, err := sheet.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}
	return &repository.Snapshot{Rows: rows, Revision: readRevision(f), Issues: issues}, nil
}

// revision reads only the counter; a missing workbook is revision 0.
func (s *xlsxStore) revision() (int64, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()
	return readRevision(f), nil
}

func (s *xlsxStore) write(rows []entities.PaymentRequest, rev int64) error {
	f := excelize.NewFile()
	defer f.Close()

	for i := range rows {
		rows[i].Seq = i
	}
	for i, row := range sheet.Encode(rows) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(dataSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(metaSheet); err != nil {
		return err
	}
	if err := f.SetCellValue(metaSheet, "A1", "revision"); err != nil {
		return err
	}
	if err := f.SetCellValue(metaSheet, "B1", rev); err != nil {
		return err
	}
	if err := f.SetSheetVisible(metaSheet, false); err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	// keep the extension: excelize refuses to save anything but a workbook name
	tmp := filepath.Join(filepath.Dir(s.path), "~"+filepath.Base(s.path))
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("save %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func firstDataSheet(f *excelize.File) string {
	for _, name := range f.GetSheetList() {
		if name != metaSheet {
			return name
		}
	}
	return ""
}

func readRevision(f *excelize.File) int64 {
	v, err := f.GetCellValue(metaSheet, "B1")
	if err != nil || v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
