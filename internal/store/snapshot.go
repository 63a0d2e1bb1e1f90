package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// SnapshotVersion is the current ProgressData layout.
const SnapshotVersion = 1

type snapshotRow struct {
	ID        int64  `sql:"id"`
	Sequence  int64  `sql:"sequence"`
	Timestamp int64  `sql:"timestamp"`
	Data      string `sql:"data"`
}

// snapshotRepo implements SnapshotRepo on the snapshots table.
type snapshotRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Data.Version == 0 {
		snap.Data.Version = SnapshotVersion
	}
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.Sequence == 0 {
		if snap.Sequence, err = r.seq.Next(ctx); err != nil {
			return err
		}
	}

	ins := builder.Insert(tableSnapshots).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, snap.Timestamp.UnixMilli(), string(data))
	res, err := exec(ctx, r.drv, ins)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = id
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	var rows []snapshotRow
	sel := builder.Select("id", "sequence", "timestamp", "data").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(1)
	if err := scanAll(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	var data ProgressData
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		slog.Warn("discarding undecodable progress snapshot", "id", row.ID, "err", err)
		return nil, nil
	}
	return &Snapshot{
		ID:        row.ID,
		Sequence:  row.Sequence,
		Timestamp: time.UnixMilli(row.Timestamp),
		Data:      data,
	}, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	var ids []int64
	sel := builder.Select("id").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id"))
	if err := scanAll(ctx, r.drv, sel, &ids); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if len(ids) <= keep {
		return nil
	}

	stale := make([]any, 0, len(ids)-keep)
	for _, id := range ids[keep:] {
		stale = append(stale, id)
	}
	del := builder.Delete(tableSnapshots).Where(entsql.In("id", stale...))
	if _, err := exec(ctx, r.drv, del); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Clear(ctx context.Context) error {
	if _, err := exec(ctx, r.drv, builder.Delete(tableSnapshots)); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}
