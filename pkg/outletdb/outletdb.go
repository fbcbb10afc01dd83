package outletdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	DefaultMaxRows = 50
	DefaultTimeout = 10 * time.Second
)

var ErrNotConfigured = errors.New("outletdb: dsn is not configured")

const schemaDescription = `Table outlets (one row per ZUS Coffee outlet):
  id       BIGINT PRIMARY KEY
  name     TEXT NOT NULL   -- outlet name, e.g. 'ZUS Coffee SS2'
  location TEXT            -- full street address including city and state
  hours    TEXT            -- opening hours as free text, 'Not Listed' when unknown
  services TEXT            -- comma separated list, e.g. 'Dine-in, Takeaway, Delivery'`

type Config struct {
	DSN     string        `envconfig:"DSN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
	MaxRows int           `envconfig:"MAX_ROWS" split_words:"true" default:"50"`
}

type Outlet struct {
	bun.BaseModel `bun:"table:outlets,alias:o"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Name     string `bun:"name,notnull"`
	Location string `bun:"location"`
	Hours    string `bun:"hours"`
	Services string `bun:"services"`
}

// DB is the Postgres-backed outlets store.
type DB struct {
	db      *bun.DB
	timeout time.Duration
	maxRows int
}

func Open(ctx context.Context, cfg Config) (*DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrNotConfigured
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	store := newDB(db, cfg)
	pingCtx, cancel := context.WithTimeout(ctx, store.timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("outletdb: ping: %w", err)
	}
	return store, nil
}

func newDB(db *bun.DB, cfg Config) *DB {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &DB{db: db, timeout: timeout, maxRows: maxRows}
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Schema() string {
	return schemaDescription
}

// Replace recreates the outlets table and inserts outlets in one transaction.
func (d *DB) Replace(ctx context.Context, outlets []Outlet) error {
	return d.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDropTable().Model((*Outlet)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop outlets table: %w", err)
		}
		if _, err := tx.NewCreateTable().Model((*Outlet)(nil)).Exec(ctx); err != nil {
			return fmt.Errorf("create outlets table: %w", err)
		}
		if len(outlets) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&outlets).Exec(ctx); err != nil {
			return fmt.Errorf("insert outlets: %w", err)
		}
		return nil
	})
}

// QueryRows runs statement inside a read-only transaction and renders every value
// as text. Rows beyond the configured limit are dropped.
func (d *DB) QueryRows(ctx context.Context, statement string) (contractx.ResultSet, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	tx, err := d.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return contractx.ResultSet{}, fmt.Errorf("outletdb: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "SET TRANSACTION READ ONLY"); err != nil {
		return contractx.ResultSet{}, fmt.Errorf("outletdb: set read only: %w", err)
	}

	rows, err := tx.QueryContext(ctx, statement)
	if err != nil {
		return contractx.ResultSet{}, fmt.Errorf("outletdb: query: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, d.maxRows)
}

type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRows(rows rowScanner, maxRows int) (contractx.ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return contractx.ResultSet{}, fmt.Errorf("outletdb: columns: %w", err)
	}

	result := contractx.ResultSet{Columns: columns}
	for rows.Next() {
		if len(result.Rows) >= maxRows {
			log.Debug().Int("max_rows", maxRows).Msg("outlet query truncated")
			result.Truncated = true
			break
		}
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return contractx.ResultSet{}, fmt.Errorf("outletdb: scan: %w", err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = renderValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return contractx.ResultSet{}, fmt.Errorf("outletdb: rows: %w", err)
	}
	return result, nil
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
