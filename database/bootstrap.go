// database/bootstrap.go
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carrierpay/entities"
)

func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	// run the row-id rebuild BEFORE AutoMigrate, which cannot add a primary key
	if err := migratePaymentRequestsRowID(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := db.AutoMigrate(
		&entities.PaymentRequest{},
		&entities.StoreRevision{},
		&entities.AccessEvent{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

type colInfo struct {
	Cid       int
	Name      string
	Type      string
	NotNull   int
	DfltValue sql.NullString
	Pk        int
}

func tableColumns(db *gorm.DB, table string) ([]colInfo, error) {
	var cols []colInfo
	if err := db.Raw(`PRAGMA table_info(` + table + `)`).Scan(&cols).Error; err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	return cols, nil
}

// uuidExpr yields a random version-4 style id inside sqlite.
const uuidExpr = `lower(hex(randomblob(4)) || '-' || hex(randomblob(2)) || '-4' || substr(hex(randomblob(2)), 2) || '-' ||
	substr('89ab', 1 + (abs(random()) % 4), 1) || substr(hex(randomblob(2)), 2) || '-' || hex(randomblob(6)))`

// migratePaymentRequestsRowID rebuilds payment_requests tables created
// before rows had a row_id (keyed by an integer id), giving every row a
// fresh id and keeping its position.
func migratePaymentRequestsRowID(db *gorm.DB) error {
	var tbl string
	if err := db.Raw(`SELECT name FROM sqlite_master WHERE type='table' AND name='payment_requests'`).Scan(&tbl).Error; err != nil {
		return fmt.Errorf("check table exist: %w", err)
	}
	if tbl == "" {
		// fresh DB, nothing to do
		return nil
	}

	cols, err := tableColumns(db, "payment_requests")
	if err != nil {
		return err
	}
	oldCols := map[string]bool{}
	for _, c := range cols {
		name := strings.ToLower(c.Name)
		if name == "row_id" && c.Pk == 1 {
			// already good
			return nil
		}
		oldCols[name] = true
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`ALTER TABLE payment_requests RENAME TO payment_requests_legacy`).Error; err != nil {
			return err
		}
		// index names travel with the renamed table and would clash
		var indexes []string
		if err := tx.Raw(`SELECT name FROM sqlite_master WHERE type='index' AND tbl_name='payment_requests_legacy' AND sql IS NOT NULL`).Scan(&indexes).Error; err != nil {
			return err
		}
		for _, idx := range indexes {
			if err := tx.Exec(`DROP INDEX "` + idx + `"`).Error; err != nil {
				return err
			}
		}
		if err := tx.Migrator().CreateTable(&entities.PaymentRequest{}); err != nil {
			return err
		}
		newCols, err := tableColumns(tx, "payment_requests")
		if err != nil {
			return err
		}

		var shared []string
		for _, c := range newCols {
			name := strings.ToLower(c.Name)
			if name != "row_id" && name != "seq" && oldCols[name] {
				shared = append(shared, name)
			}
		}
		order := "rowid"
		if oldCols["seq"] {
			order = "seq, rowid"
		}
		list := strings.Join(shared, ", ")
		if list != "" {
			list = ", " + list
		}
		copySQL := fmt.Sprintf(`
INSERT INTO payment_requests (row_id, seq%s)
SELECT %s, ROW_NUMBER() OVER (ORDER BY %s) - 1%s FROM payment_requests_legacy;
`, list, uuidExpr, order, list)
		if err := tx.Exec(copySQL).Error; err != nil {
			return err
		}
		return tx.Exec(`DROP TABLE payment_requests_legacy`).Error
	})
}
