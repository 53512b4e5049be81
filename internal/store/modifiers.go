package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/settlement"
)

type modifierRow struct {
	SettlementID     string  `db:"settlement_id"`
	Type             string  `db:"type"`
	TotalValue       float64 `db:"total_value"`
	SourceCount      int     `db:"source_count"`
	ContributorsJSON string  `db:"contributors_json"`
}

// ReplaceModifiers swaps a settlement's modifier rows wholesale inside its
// own transaction, so a concurrent reader never sees a mix of old and new
// rows.
func (s *Store) ReplaceModifiers(ctx context.Context, settlementID string, mods []settlement.Modifier) error {
	return s.InTx(ctx, func(tx *Tx) error {
		return tx.ReplaceModifiers(ctx, settlementID, mods)
	})
}

// ReplaceModifiers deletes the old rows and inserts the new set. Only
// atomic when already inside a transaction.
func (q *queries) ReplaceModifiers(ctx context.Context, settlementID string, mods []settlement.Modifier) error {
	if _, err := q.ext.ExecContext(ctx,
		`DELETE FROM settlement_modifiers WHERE settlement_id = ?`, settlementID); err != nil {
		return fmt.Errorf("clear modifiers %s: %w", settlementID, err)
	}
	for _, m := range mods {
		contributors, err := json.Marshal(m.Contributors)
		if err != nil {
			return fmt.Errorf("encode modifier %s/%s: %w", settlementID, m.Type, err)
		}
		_, err = q.ext.ExecContext(ctx, `INSERT INTO settlement_modifiers
			(settlement_id, type, total_value, source_count, contributors_json)
			VALUES (?, ?, ?, ?, ?)`,
			settlementID, string(m.Type), m.TotalValue, m.SourceCount, string(contributors),
		)
		if err != nil {
			return fmt.Errorf("insert modifier %s/%s: %w", settlementID, m.Type, err)
		}
	}
	return nil
}

// Modifiers returns a settlement's stored modifier rows ordered by type.
// A settlement with no structures yields an empty list, not an error.
func (q *queries) Modifiers(ctx context.Context, settlementID string) ([]settlement.Modifier, error) {
	var rows []modifierRow
	err := sqlx.SelectContext(ctx, q.ext, &rows,
		`SELECT * FROM settlement_modifiers WHERE settlement_id = ? ORDER BY type`, settlementID)
	if err != nil {
		return nil, fmt.Errorf("select modifiers %s: %w", settlementID, err)
	}

	mods := make([]settlement.Modifier, 0, len(rows))
	for _, r := range rows {
		m := settlement.Modifier{
			SettlementID: r.SettlementID,
			Type:         catalog.ModifierType(r.Type),
			TotalValue:   r.TotalValue,
			SourceCount:  r.SourceCount,
		}
		if err := json.Unmarshal([]byte(r.ContributorsJSON), &m.Contributors); err != nil {
			return nil, fmt.Errorf("decode modifier %s/%s: %w", settlementID, r.Type, err)
		}
		mods = append(mods, m)
	}
	return mods, nil
}
