package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mkarlsen/bastion/internal/structure"
)

type structureRow struct {
	ID            string  `db:"id"`
	SettlementID  string  `db:"settlement_id"`
	TypeKey       string  `db:"type_key"`
	Level         int     `db:"level"`
	Health        float64 `db:"health"`
	Slot          int     `db:"slot"`
	CreatedAt     int64   `db:"created_at"`
	LastHarvestAt int64   `db:"last_harvest_at"`
}

func (r structureRow) toInstance() structure.Instance {
	inst := structure.Instance{
		ID:           r.ID,
		SettlementID: r.SettlementID,
		TypeKey:      r.TypeKey,
		Level:        r.Level,
		Health:       r.Health,
		Slot:         r.Slot,
		CreatedAt:    time.Unix(r.CreatedAt, 0).UTC(),
	}
	if r.LastHarvestAt > 0 {
		inst.LastHarvestAt = time.Unix(r.LastHarvestAt, 0).UTC()
	}
	return inst
}

// CreateStructure inserts a structure row.
func (q *queries) CreateStructure(ctx context.Context, inst *structure.Instance) error {
	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = time.Now().UTC()
	}
	var harvest int64
	if !inst.LastHarvestAt.IsZero() {
		harvest = inst.LastHarvestAt.Unix()
	}
	_, err := q.ext.ExecContext(ctx, `INSERT INTO structures
		(id, settlement_id, type_key, level, health, slot, created_at, last_harvest_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inst.ID, inst.SettlementID, inst.TypeKey, inst.Level, inst.Health,
		inst.Slot, inst.CreatedAt.Unix(), harvest,
	)
	if err != nil {
		return fmt.Errorf("insert structure %s: %w", inst.ID, err)
	}
	return nil
}

// Structure loads one structure by ID.
func (q *queries) Structure(ctx context.Context, id string) (*structure.Instance, error) {
	var row structureRow
	err := sqlx.GetContext(ctx, q.ext, &row, `SELECT * FROM structures WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("structure %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select structure %s: %w", id, err)
	}
	inst := row.toInstance()
	return &inst, nil
}

// StructuresWithTypes loads every structure of a settlement joined with its
// catalog record, so downstream calculators never re-derive the master-data
// join. Structures whose type key is missing from the catalog carry a nil
// Type and are ignored by calculators.
func (q *queries) StructuresWithTypes(ctx context.Context, settlementID string) ([]structure.WithType, error) {
	var rows []structureRow
	err := sqlx.SelectContext(ctx, q.ext, &rows,
		`SELECT * FROM structures WHERE settlement_id = ? ORDER BY id`, settlementID)
	if err != nil {
		return nil, fmt.Errorf("select structures %s: %w", settlementID, err)
	}

	out := make([]structure.WithType, 0, len(rows))
	for _, r := range rows {
		wt := structure.WithType{Instance: r.toInstance()}
		if st, ok := q.cat.Structure(r.TypeKey); ok {
			wt.Type = st
		}
		out = append(out, wt)
	}
	return out, nil
}

// UpdateStructureLevel sets a structure's level after an upgrade.
func (q *queries) UpdateStructureLevel(ctx context.Context, id string, level int) error {
	res, err := q.ext.ExecContext(ctx, `UPDATE structures SET level = ? WHERE id = ?`, level, id)
	if err != nil {
		return fmt.Errorf("update structure level %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("structure %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateStructureHealth sets a structure's health after disaster damage.
func (q *queries) UpdateStructureHealth(ctx context.Context, id string, health float64) error {
	res, err := q.ext.ExecContext(ctx, `UPDATE structures SET health = ? WHERE id = ?`, health, id)
	if err != nil {
		return fmt.Errorf("update structure health %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("structure %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateStructureHarvest records the harvest timestamp after a production
// credit.
func (q *queries) UpdateStructureHarvest(ctx context.Context, id string, at time.Time) error {
	_, err := q.ext.ExecContext(ctx,
		`UPDATE structures SET last_harvest_at = ? WHERE id = ?`, at.Unix(), id)
	if err != nil {
		return fmt.Errorf("update structure harvest %s: %w", id, err)
	}
	return nil
}

// DeleteStructure removes a structure row (demolish).
func (q *queries) DeleteStructure(ctx context.Context, id string) error {
	res, err := q.ext.ExecContext(ctx, `DELETE FROM structures WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete structure %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("structure %s: %w", id, ErrNotFound)
	}
	return nil
}
