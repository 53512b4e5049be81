package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mkarlsen/bastion/internal/resource"
	"github.com/mkarlsen/bastion/internal/settlement"
)

type settlementRow struct {
	ID         string  `db:"id"`
	PlayerID   string  `db:"player_id"`
	WorldID    string  `db:"world_id"`
	Name       string  `db:"name"`
	Biome      string  `db:"biome"`
	Resilience float64 `db:"resilience"`
	CreatedAt  int64   `db:"created_at"`
}

func (r settlementRow) toSettlement() *settlement.Settlement {
	return &settlement.Settlement{
		ID:         r.ID,
		PlayerID:   r.PlayerID,
		WorldID:    r.WorldID,
		Name:       r.Name,
		Biome:      r.Biome,
		Resilience: r.Resilience,
		CreatedAt:  time.Unix(r.CreatedAt, 0).UTC(),
	}
}

// CreateSettlement inserts a settlement together with its empty ledger and
// starting population, all in one transaction.
func (s *Store) CreateSettlement(ctx context.Context, sett *settlement.Settlement, startCapacity, startPopulation int64) error {
	return s.InTx(ctx, func(tx *Tx) error {
		return tx.CreateSettlement(ctx, sett, startCapacity, startPopulation)
	})
}

// CreateSettlement inserts the settlement and its child rows. Only safe
// inside a transaction.
func (q *queries) CreateSettlement(ctx context.Context, sett *settlement.Settlement, startCapacity, startPopulation int64) error {
	if sett.CreatedAt.IsZero() {
		sett.CreatedAt = time.Now().UTC()
	}
	_, err := q.ext.ExecContext(ctx, `INSERT INTO settlements
		(id, player_id, world_id, name, biome, resilience, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sett.ID, sett.PlayerID, sett.WorldID, sett.Name, sett.Biome,
		sett.Resilience, sett.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert settlement %s: %w", sett.ID, err)
	}

	led := resource.NewLedger(sett.ID, startCapacity)
	if err := q.SaveLedger(ctx, led); err != nil {
		return err
	}

	pop := &settlement.Population{SettlementID: sett.ID, Current: startPopulation, Capacity: startPopulation}
	_, err = q.ext.ExecContext(ctx,
		`INSERT INTO populations (settlement_id, current, capacity) VALUES (?, ?, ?)`,
		pop.SettlementID, pop.Current, pop.Capacity,
	)
	if err != nil {
		return fmt.Errorf("insert population %s: %w", sett.ID, err)
	}
	return nil
}

// Settlement loads one settlement by ID.
func (q *queries) Settlement(ctx context.Context, id string) (*settlement.Settlement, error) {
	var row settlementRow
	err := sqlx.GetContext(ctx, q.ext, &row, `SELECT * FROM settlements WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settlement %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select settlement %s: %w", id, err)
	}
	return row.toSettlement(), nil
}

// SettlementExists reports whether the settlement row exists.
func (q *queries) SettlementExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q.ext, &n, `SELECT COUNT(1) FROM settlements WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("settlement exists %s: %w", id, err)
	}
	return n > 0, nil
}

// ListSettlementIDs returns every settlement ID, ordered for stable shard
// assignment in the scheduler.
func (q *queries) ListSettlementIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := sqlx.SelectContext(ctx, q.ext, &ids, `SELECT id FROM settlements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	return ids, nil
}

// DeleteSettlement removes a settlement; child rows cascade.
func (q *queries) DeleteSettlement(ctx context.Context, id string) error {
	res, err := q.ext.ExecContext(ctx, `DELETE FROM settlements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete settlement %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("settlement %s: %w", id, ErrNotFound)
	}
	return nil
}

// Ledger loads a settlement's resource ledger.
func (q *queries) Ledger(ctx context.Context, settlementID string) (*resource.Ledger, error) {
	var row struct {
		SettlementID string `db:"settlement_id"`
		AmountsJSON  string `db:"amounts_json"`
		Capacity     int64  `db:"capacity"`
	}
	err := sqlx.GetContext(ctx, q.ext, &row, `SELECT * FROM ledgers WHERE settlement_id = ?`, settlementID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ledger %s: %w", settlementID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select ledger %s: %w", settlementID, err)
	}

	led := &resource.Ledger{SettlementID: row.SettlementID, Capacity: row.Capacity}
	if err := json.Unmarshal([]byte(row.AmountsJSON), &led.Amounts); err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", settlementID, err)
	}
	if led.Amounts == nil {
		led.Amounts = make(map[resource.Type]int64)
	}
	return led, nil
}

// SaveLedger writes a settlement's ledger (insert or replace).
func (q *queries) SaveLedger(ctx context.Context, led *resource.Ledger) error {
	amounts, err := json.Marshal(led.Amounts)
	if err != nil {
		return fmt.Errorf("encode ledger %s: %w", led.SettlementID, err)
	}
	_, err = q.ext.ExecContext(ctx,
		`INSERT OR REPLACE INTO ledgers (settlement_id, amounts_json, capacity) VALUES (?, ?, ?)`,
		led.SettlementID, string(amounts), led.Capacity,
	)
	if err != nil {
		return fmt.Errorf("save ledger %s: %w", led.SettlementID, err)
	}
	return nil
}

// SetLedgerCapacity updates only the capacity ceiling, preserving amounts.
func (q *queries) SetLedgerCapacity(ctx context.Context, settlementID string, capacity int64) error {
	_, err := q.ext.ExecContext(ctx,
		`UPDATE ledgers SET capacity = ? WHERE settlement_id = ?`, capacity, settlementID)
	if err != nil {
		return fmt.Errorf("set ledger capacity %s: %w", settlementID, err)
	}
	return nil
}

// Population loads a settlement's population row.
func (q *queries) Population(ctx context.Context, settlementID string) (*settlement.Population, error) {
	var pop settlement.Population
	err := sqlx.GetContext(ctx, q.ext, &pop, `SELECT * FROM populations WHERE settlement_id = ?`, settlementID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("population %s: %w", settlementID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select population %s: %w", settlementID, err)
	}
	return &pop, nil
}

// SavePopulation writes a settlement's population row.
func (q *queries) SavePopulation(ctx context.Context, pop *settlement.Population) error {
	_, err := q.ext.ExecContext(ctx,
		`INSERT OR REPLACE INTO populations (settlement_id, current, capacity) VALUES (?, ?, ?)`,
		pop.SettlementID, pop.Current, pop.Capacity,
	)
	if err != nil {
		return fmt.Errorf("save population %s: %w", pop.SettlementID, err)
	}
	return nil
}
