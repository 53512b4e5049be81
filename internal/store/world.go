package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mkarlsen/bastion/internal/world"
)

// SaveWorldTiles replaces a world's tile set (full replace, one
// transaction). Called once at world setup.
func (s *Store) SaveWorldTiles(ctx context.Context, worldID string, tiles []world.Tile) error {
	return s.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.tx.ExecContext(ctx,
			`DELETE FROM world_tiles WHERE world_id = ?`, worldID); err != nil {
			return fmt.Errorf("clear world tiles %s: %w", worldID, err)
		}
		stmt, err := tx.tx.PreparexContext(ctx, `INSERT INTO world_tiles
			(world_id, q, r, biome, elevation, moisture) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare tile insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range tiles {
			if _, err := stmt.ExecContext(ctx, worldID, t.Q, t.R, t.Biome, t.Elevation, t.Moisture); err != nil {
				return fmt.Errorf("insert tile (%d,%d): %w", t.Q, t.R, err)
			}
		}
		return nil
	})
}

// BiomeAt returns the biome at a world coordinate; settlement founding uses
// it to stamp the settlement's biome.
func (q *queries) BiomeAt(ctx context.Context, worldID string, tq, tr int) (string, error) {
	var biome string
	err := sqlx.GetContext(ctx, q.ext, &biome,
		`SELECT biome FROM world_tiles WHERE world_id = ? AND q = ? AND r = ?`, worldID, tq, tr)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("tile (%d,%d): %w", tq, tr, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("select tile (%d,%d): %w", tq, tr, err)
	}
	return biome, nil
}
