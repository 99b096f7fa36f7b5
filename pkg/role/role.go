// Package role maps a user's email to the panel they may use.
//
// Roles come from a Users workbook with one sheet per role, each sheet
// holding an "email" column. The first sheet (in workbook order) listing an
// email decides the role; anyone not listed is a viewer.
package role

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"carrierpay/pkg/logger"
)

const (
	Admin      = "Admin"
	CentralOps = "Central Ops"
	Finance    = "Finance"
	View       = "view"
)

const emailColumn = "email"

// Known reports whether r has a panel in this service.
func Known(r string) bool {
	switch r {
	case Admin, CentralOps, Finance, View:
		return true
	}
	return false
}

type Registry interface {
	// Resolve returns the role for email. An Admin whose email is not the
	// pinned planner is reported as "Admin (not planner)", which is not Known.
	Resolve(ctx context.Context, email string) string
}

type sheetEmails struct {
	role   string
	emails map[string]bool
}

type workbookRegistry struct {
	path    string
	planner string
	logger  *zap.Logger

	mu      sync.Mutex
	modTime time.Time
	sheets  []sheetEmails
}

// NewWorkbook reads roles from the workbook at path, reloading it whenever
// the file changes. planner, when set, is the only email granted Admin.
func NewWorkbook(path, planner string, l *zap.Logger) Registry {
	return &workbookRegistry{path: path, planner: normalize(planner), logger: l}
}

func normalize(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (r *workbookRegistry) Resolve(ctx context.Context, email string) string {
	email = normalize(email)
	sheets, err := r.load()
	if err != nil {
		logger.Error(ctx, r.logger, "failed to load user data", zap.String("path", r.path), zap.Error(err))
	}

	role := View
	for _, s := range sheets {
		if s.emails[email] {
			role = s.role
			break
		}
	}
	if role == Admin && r.planner != "" && email != r.planner {
		return Admin + " (not planner)"
	}
	return role
}

func (r *workbookRegistry) load() ([]sheetEmails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, err := os.Stat(r.path)
	if err != nil {
		r.sheets = nil
		return nil, err
	}
	if r.sheets != nil && st.ModTime().Equal(r.modTime) {
		return r.sheets, nil
	}

	sheets, err := readWorkbook(r.path)
	if err != nil {
		return nil, err
	}
	r.sheets, r.modTime = sheets, st.ModTime()
	return sheets, nil
}

func readWorkbook(path string) ([]sheetEmails, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []sheetEmails
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		if len(rows) == 0 {
			continue
		}
		col := -1
		for i, h := range rows[0] {
			if normalize(h) == emailColumn {
				col = i
				break
			}
		}
		if col < 0 {
			return nil, errors.New("sheet " + name + " has no email column")
		}
		s := sheetEmails{role: name, emails: map[string]bool{}}
		for _, row := range rows[1:] {
			if col < len(row) {
				if e := normalize(row[col]); e != "" {
					s.emails[e] = true
				}
			}
		}
		out = append(out, s)
	}
	return out, nil
}
