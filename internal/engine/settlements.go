package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkarlsen/bastion/internal/settlement"
	"github.com/mkarlsen/bastion/internal/store"
	"github.com/mkarlsen/bastion/internal/world"
)

// FoundSettlement creates a settlement on the given world tile, deriving
// its biome from the world map. Tiles off the map default to Grassland.
func (e *Engine) FoundSettlement(ctx context.Context, playerID, worldID, name string, q, r int) (*settlement.Settlement, error) {
	biome, err := e.st.BiomeAt(ctx, worldID, q, r)
	if errors.Is(err, store.ErrNotFound) {
		biome = world.BiomeGrassland
	} else if err != nil {
		return nil, err
	}

	sett := &settlement.Settlement{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		WorldID:   worldID,
		Name:      name,
		Biome:     biome,
		CreatedAt: e.now(),
	}
	if err := e.st.CreateSettlement(ctx, sett, baseStorageCapacity, basePopulationCapacity); err != nil {
		return nil, err
	}
	slog.Info("settlement founded",
		"settlement", sett.ID,
		"player", playerID,
		"biome", biome)
	return sett, nil
}

// RemoveSettlement deletes a settlement and all dependent rows, and drops
// its lock entry so the table does not grow unbounded.
func (e *Engine) RemoveSettlement(ctx context.Context, settlementID string) error {
	unlock := e.locks.Lock(settlementID)
	defer unlock()

	if err := e.st.DeleteSettlement(ctx, settlementID); err != nil {
		return err
	}
	e.locks.Forget(settlementID)
	slog.Info("settlement removed", "settlement", settlementID)
	return nil
}

// SettlementStatus is the read-model snapshot served by the status endpoint.
type SettlementStatus struct {
	Settlement *settlement.Settlement `json:"settlement"`
	Population *settlement.Population `json:"population"`
	Resources  map[string]int64       `json:"resources"`
	Capacity   int64                  `json:"storage_capacity"`
	Structures int                    `json:"structures"`
}

// Status assembles a settlement snapshot for API consumers.
func (e *Engine) Status(ctx context.Context, settlementID string) (*SettlementStatus, error) {
	sett, err := e.st.Settlement(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, err)
	}
	pop, err := e.st.Population(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	led, err := e.st.Ledger(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	structs, err := e.st.StructuresWithTypes(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	res := make(map[string]int64, len(led.Amounts))
	for t, n := range led.Amounts {
		res[string(t)] = n
	}
	return &SettlementStatus{
		Settlement: sett,
		Population: pop,
		Resources:  res,
		Capacity:   led.Capacity,
		Structures: len(structs),
	}, nil
}
