package tttplot

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const DefaultArchiveTable = "ttt_points"

// ErrNotArchived is returned by Load when a run holds no points for a condition.
var ErrNotArchived = errors.New("no archived ttt data")

// Archive keeps loaded TTT tables in a SQL database, keyed by run id and
// condition name, so that figures can be rebuilt without rerunning the tool.
type Archive struct {
	db     *sqlx.DB
	table  string
	source string
}

// OpenArchive connects to a "mysql" or "sqlite" archive.
func OpenArchive(driver, dsn string) (*Archive, error) {
	var (
		db     *sqlx.DB
		err    error
		table  = DefaultArchiveTable
		source = dsn
	)
	switch driver {
	case "mysql":
		var cfg *ArchiveConfig
		if cfg, err = ParseArchiveDSN(dsn); err != nil {
			return nil, err
		}
		table = cfg.Table()
		source = cfg.Redacted()
		db, err = sqlx.Open("mysql", cfg.DriverDSN())
	case "sqlite":
		db, err = sqlx.Open("sqlite", dsn)
		if err == nil {
			// a single writer avoids SQLITE_BUSY on file databases
			db.SetMaxOpenConns(1)
		}
	default:
		return nil, errors.Errorf("unknown archive driver %q", driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s archive", driver)
	}
	return &Archive{db: db, table: table, source: source}, nil
}

// Source describes where the archive lives, with any password masked.
func (a *Archive) Source() string {
	return a.source
}

func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) Migrate(ctx context.Context) error {
	qry := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id VARCHAR(64) NOT NULL,
	condition_name VARCHAR(128) NOT NULL,
	seq INTEGER NOT NULL,
	elapsed DOUBLE NOT NULL,
	probability DOUBLE NOT NULL,
	PRIMARY KEY (run_id, condition_name, seq)
)`, a.table)
	if _, err := a.db.ExecContext(ctx, qry); err != nil {
		return errors.Wrap(err, "cannot create archive table")
	}
	return nil
}

// Store replaces the points archived for c in runID with t.
func (a *Archive) Store(ctx context.Context, runID string, c Condition, t Table) (err error) {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "cannot begin archive transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	del := fmt.Sprintf("DELETE FROM %s WHERE run_id = ? AND condition_name = ?", a.table)
	if _, err = tx.ExecContext(ctx, del, runID, c.Name()); err != nil {
		return errors.Wrap(err, "cannot clear archived points")
	}
	ins := fmt.Sprintf("INSERT INTO %s (run_id, condition_name, seq, elapsed, probability) VALUES (?, ?, ?, ?, ?)", a.table)
	for i, r := range t {
		if _, err = tx.ExecContext(ctx, ins, runID, c.Name(), i, r.Elapsed, r.Probability); err != nil {
			return errors.Wrapf(err, "cannot archive point %d", i)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "cannot commit archive transaction")
	}
	return nil
}

// Load returns the points archived for c in runID, in the order they were stored.
func (a *Archive) Load(ctx context.Context, runID string, c Condition) (Table, error) {
	var t Table
	qry := fmt.Sprintf("SELECT elapsed, probability FROM %s WHERE run_id = ? AND condition_name = ? ORDER BY seq", a.table)
	if err := a.db.SelectContext(ctx, &t, qry, runID, c.Name()); err != nil {
		return nil, errors.Wrap(err, "cannot load archived points")
	}
	if len(t) == 0 {
		return nil, errors.Wrapf(ErrNotArchived, "run %s, condition %s", runID, c.Name())
	}
	return t, nil
}

// Runs lists the archived run ids in ascending order.
func (a *Archive) Runs(ctx context.Context) ([]string, error) {
	var runs []string
	qry := fmt.Sprintf("SELECT DISTINCT run_id FROM %s ORDER BY run_id", a.table)
	if err := a.db.SelectContext(ctx, &runs, qry); err != nil {
		return nil, errors.Wrap(err, "cannot list archived runs")
	}
	return runs, nil
}
