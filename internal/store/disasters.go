package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/disaster"
)

type disasterRow struct {
	ID            string  `db:"id"`
	WorldID       string  `db:"world_id"`
	SettlementID  string  `db:"settlement_id"`
	Kind          string  `db:"kind"`
	Severity      float64 `db:"severity"`
	BiomeFilter   string  `db:"biome_filter"`
	Status        string  `db:"status"`
	LastProcessed string  `db:"last_processed"`
	ScheduledAt   int64   `db:"scheduled_at"`
	WarningAt     int64   `db:"warning_at"`
	ImpactAt      int64   `db:"impact_at"`
	AftermathAt   int64   `db:"aftermath_at"`
	ResolveAt     int64   `db:"resolve_at"`
}

func (r disasterRow) toEvent() *disaster.Event {
	return &disaster.Event{
		ID:            r.ID,
		WorldID:       r.WorldID,
		SettlementID:  r.SettlementID,
		Kind:          catalog.DisasterKind(r.Kind),
		Severity:      r.Severity,
		BiomeFilter:   r.BiomeFilter,
		Status:        disaster.Status(r.Status),
		LastProcessed: disaster.Status(r.LastProcessed),
		ScheduledAt:   time.Unix(r.ScheduledAt, 0).UTC(),
		WarningAt:     time.Unix(r.WarningAt, 0).UTC(),
		ImpactAt:      time.Unix(r.ImpactAt, 0).UTC(),
		AftermathAt:   time.Unix(r.AftermathAt, 0).UTC(),
		ResolveAt:     time.Unix(r.ResolveAt, 0).UTC(),
	}
}

// CreateDisaster inserts a scheduled disaster event.
func (q *queries) CreateDisaster(ctx context.Context, ev *disaster.Event) error {
	if ev.Status == "" {
		ev.Status = disaster.StatusScheduled
	}
	if ev.LastProcessed == "" {
		ev.LastProcessed = disaster.StatusScheduled
	}
	_, err := q.ext.ExecContext(ctx, `INSERT INTO disasters
		(id, world_id, settlement_id, kind, severity, biome_filter, status,
		 last_processed, scheduled_at, warning_at, impact_at, aftermath_at, resolve_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.WorldID, ev.SettlementID, string(ev.Kind), ev.Severity,
		ev.BiomeFilter, string(ev.Status), string(ev.LastProcessed),
		ev.ScheduledAt.Unix(), ev.WarningAt.Unix(), ev.ImpactAt.Unix(),
		ev.AftermathAt.Unix(), ev.ResolveAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert disaster %s: %w", ev.ID, err)
	}
	return nil
}

// Disaster loads one disaster by ID.
func (q *queries) Disaster(ctx context.Context, id string) (*disaster.Event, error) {
	var row disasterRow
	err := sqlx.GetContext(ctx, q.ext, &row, `SELECT * FROM disasters WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("disaster %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select disaster %s: %w", id, err)
	}
	return row.toEvent(), nil
}

// UnresolvedDisastersFor returns a settlement's disasters that have not
// reached RESOLVED, oldest impact first.
func (q *queries) UnresolvedDisastersFor(ctx context.Context, settlementID string) ([]*disaster.Event, error) {
	var rows []disasterRow
	err := sqlx.SelectContext(ctx, q.ext, &rows,
		`SELECT * FROM disasters WHERE settlement_id = ? AND status != ? ORDER BY impact_at`,
		settlementID, string(disaster.StatusResolved))
	if err != nil {
		return nil, fmt.Errorf("select disasters for %s: %w", settlementID, err)
	}
	events := make([]*disaster.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.toEvent())
	}
	return events, nil
}

// UpdateDisasterProgress advances a disaster's status and processing
// watermark. Backwards moves violate the forward-only lifecycle and fail
// with ErrInvalidState.
func (q *queries) UpdateDisasterProgress(ctx context.Context, id string, status, lastProcessed disaster.Status) error {
	var cur disasterRow
	err := sqlx.GetContext(ctx, q.ext, &cur, `SELECT * FROM disasters WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("disaster %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("select disaster %s: %w", id, err)
	}
	if status.Order() < disaster.Status(cur.Status).Order() {
		return fmt.Errorf("disaster %s: %s -> %s: %w", id, cur.Status, status, ErrInvalidState)
	}

	_, err = q.ext.ExecContext(ctx,
		`UPDATE disasters SET status = ?, last_processed = ? WHERE id = ?`,
		string(status), string(lastProcessed), id)
	if err != nil {
		return fmt.Errorf("update disaster %s: %w", id, err)
	}
	return nil
}
