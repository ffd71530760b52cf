package database

import (
	"database/sql"
	"fmt"
	"strings"

	"shopopti/internal/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB

	// ReportDB is a plain database/sql handle over the pq driver, used
	// by the aggregate outcome-stats query. Nil when running on SQLite.
	ReportDB *sql.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var reportDB *sql.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			reportDB, err = sql.Open("postgres", databaseURL)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite doesn't take the Postgres DDL below
		if err := db.AutoMigrate(&models.SupplierConnection{}, &models.CatalogProduct{}, &models.ImportOutcome{}); err != nil {
			return nil, fmt.Errorf("failed to migrate tables: %w", err)
		}
		return &Database{DB: db}, nil
	}

	// Create tables manually with raw SQL
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS supplier_connections (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		provider TEXT NOT NULL,
		api_key TEXT NOT NULL,
		api_secret TEXT,
		base_url TEXT,
		status TEXT DEFAULT 'active',
		last_synced TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS catalog_products (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		price DECIMAL(10,2),
		stock INTEGER DEFAULT 0,
		category TEXT,
		sku TEXT,
		images TEXT,
		published BOOLEAN DEFAULT true,
		supplier_id TEXT,
		external_id TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS import_outcomes (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		supplier_id TEXT,
		external_id TEXT,
		catalog_product_id TEXT,
		status TEXT NOT NULL,
		detail TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_supplier_connections_user_id ON supplier_connections (user_id);
	CREATE INDEX IF NOT EXISTS idx_catalog_products_user_id ON catalog_products (user_id);
	CREATE INDEX IF NOT EXISTS idx_import_outcomes_user_id ON import_outcomes (user_id);
	CREATE INDEX IF NOT EXISTS idx_import_outcomes_supplier_id ON import_outcomes (supplier_id);
	`

	err = db.Exec(createTablesSQL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db, ReportDB: reportDB}, nil
}

// OutcomeStat is one row of the per-supplier outcome report.
type OutcomeStat struct {
	SupplierID string `json:"supplier_id"`
	Status     string `json:"status"`
	Count      int64  `json:"count"`
}

// OutcomeStats aggregates import outcomes by supplier and status for
// one user. Uses the pq handle when available, gorm raw SQL otherwise.
func (d *Database) OutcomeStats(userID string) ([]OutcomeStat, error) {
	const query = `
		SELECT supplier_id, status, COUNT(*) AS count
		FROM import_outcomes
		WHERE user_id = $1
		GROUP BY supplier_id, status
		ORDER BY supplier_id, status`

	stats := []OutcomeStat{}

	if d.ReportDB != nil {
		rows, err := d.ReportDB.Query(query, userID)
		if err != nil {
			return nil, fmt.Errorf("outcome stats query: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var s OutcomeStat
			if err := rows.Scan(&s.SupplierID, &s.Status, &s.Count); err != nil {
				return nil, fmt.Errorf("outcome stats scan: %w", err)
			}
			stats = append(stats, s)
		}
		return stats, rows.Err()
	}

	err := d.DB.Raw(
		"SELECT supplier_id, status, COUNT(*) AS count FROM import_outcomes WHERE user_id = ? GROUP BY supplier_id, status ORDER BY supplier_id, status",
		userID,
	).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("outcome stats query: %w", err)
	}
	return stats, nil
}

func (d *Database) Close() error {
	if d.ReportDB != nil {
		d.ReportDB.Close()
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
