package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/vulcan/internal/clock"
)

// sequenceCounter hands out the global sequence shared by snapshots and
// every event table. Per-table ids cannot order rows across tables; the
// shared sequence can, so the stats views can interleave answers and
// session boundaries.
//
// The counter row lives outside the migrated schema. The mutex serializes
// callers in this process and RETURNING makes each increment atomic.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next returns the next sequence number.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// builder is the SQL dialect every repo writes in.
var builder = entsql.Dialect(dialect.SQLite)

// exec runs a write statement.
func exec(ctx context.Context, drv *entsql.Driver, q entsql.Querier) (sql.Result, error) {
	query, args := q.Query()
	var res sql.Result
	if err := drv.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// scanAll runs a select and scans every row into v, a pointer to a slice.
// Rows are closed before returning.
func scanAll(ctx context.Context, drv *entsql.Driver, q entsql.Querier, v any) error {
	query, args := q.Query()
	rows := &entsql.Rows{}
	if err := drv.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, v)
}

// eventRepo implements EventRepo on the event tables.
type eventRepo struct {
	drv   *entsql.Driver
	seq   *sequenceCounter
	clock clock.Clock
}

// insertEvent assigns a sequence and timestamp and appends one row.
func (r *eventRepo) insertEvent(ctx context.Context, table string, cols []string, vals []any) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	ins := builder.Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seq, r.clock.Now().UnixMilli()}, vals...)...)
	if _, err := exec(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// applyOpts adds the QueryOpts filters to a select over an event table.
func applyOpts(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	return sel
}
