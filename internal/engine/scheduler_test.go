package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/bastion/internal/resource"
	"github.com/mkarlsen/bastion/internal/structure"
)

func TestShardStableAndInRange(t *testing.T) {
	ids := []string{"a", "b", "c", "alpha", "beta", "gamma", "delta"}
	for _, workers := range []int{1, 2, 4, 7} {
		for _, id := range ids {
			w := shard(id, workers)
			assert.GreaterOrEqual(t, w, 0)
			assert.Less(t, w, workers)
			assert.Equal(t, w, shard(id, workers))
		}
	}
}

func TestShardPartitionsAll(t *testing.T) {
	// Every settlement belongs to exactly one worker, so the shards cover
	// the full set without overlap.
	ids := []string{"s1", "s2", "s3", "s4", "s5", "s6"}
	const workers = 3

	seen := make(map[string]int)
	for w := 0; w < workers; w++ {
		for _, id := range ids {
			if shard(id, workers) == w {
				seen[id]++
			}
		}
	}
	require.Len(t, seen, len(ids))
	for id, n := range seen {
		assert.Equal(t, 1, n, "settlement %s", id)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	e, st := newTestEngine(t)
	cfg := e.cfg
	cfg.ProductionInterval = 10 * time.Millisecond
	cfg.DisasterInterval = 10 * time.Millisecond
	cfg.PopulationInterval = 10 * time.Millisecond

	sett := foundTestSettlement(t, e)
	now := e.now()
	require.NoError(t, st.CreateStructure(context.Background(), &structure.Instance{
		ID: "b1", SettlementID: sett.ID, TypeKey: "farm", Level: 1, Health: 100,
		LastHarvestAt: now.Add(-time.Hour),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	// Let a few cycles fire, then stop.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop after cancel")
	}

	// The production loop ran and credited the farm's accrued hour.
	led, err := st.Ledger(context.Background(), sett.ID)
	require.NoError(t, err)
	assert.Positive(t, led.Amount(resource.Food))
}
