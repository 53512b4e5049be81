package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/bastion/internal/catalog"
	"github.com/mkarlsen/bastion/internal/config"
	"github.com/mkarlsen/bastion/internal/disaster"
	"github.com/mkarlsen/bastion/internal/engine"
	"github.com/mkarlsen/bastion/internal/entropy"
	"github.com/mkarlsen/bastion/internal/resource"
	"github.com/mkarlsen/bastion/internal/settlement"
	"github.com/mkarlsen/bastion/internal/store"
	"github.com/mkarlsen/bastion/internal/structure"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:", catalog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{
		APIPort:          0,
		TickTimeout:      5 * time.Second,
		WorldMultiplier:  1.0,
		PopulationGrowth: 0.02,
		RateLimit:        1000,
		RateBurst:        1000,
	}
	eng := engine.New(cfg, catalog.Default(), st, entropy.NewSeeded(1))
	return NewServer(cfg, eng), st
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, req)
	return rec
}

func foundViaAPI(t *testing.T, s *Server) string {
	t.Helper()
	rec := doRequest(s, http.MethodPost, "/api/v1/settlements",
		`{"player_id": "p1", "world_id": "w1", "name": "Riverholt", "q": 0, "r": 0}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sett settlement.Settlement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sett))
	require.NotEmpty(t, sett.ID)
	return sett.ID
}

func TestFoundSettlementEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	id := foundViaAPI(t, s)

	rec := doRequest(s, http.MethodGet, "/api/v1/settlements/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status engine.SettlementStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, id, status.Settlement.ID)
	assert.Equal(t, int64(10), status.Population.Current)
	assert.Equal(t, int64(1000), status.Capacity)

	// Bad requests.
	rec = doRequest(s, http.MethodPost, "/api/v1/settlements", `{"player_id": "p1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doRequest(s, http.MethodPost, "/api/v1/settlements", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/v1/settlements/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveSettlementEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	id := foundViaAPI(t, s)

	rec := doRequest(s, http.MethodDelete, "/api/v1/settlements/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/v1/settlements/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildEndpoint(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()
	id := foundViaAPI(t, s)

	led, err := st.Ledger(ctx, id)
	require.NoError(t, err)
	led.Credit(resource.Wood, 100)
	led.Credit(resource.Stone, 100)
	require.NoError(t, st.SaveLedger(ctx, led))

	rec := doRequest(s, http.MethodPost, "/api/v1/settlements/"+id+"/structures",
		`{"type": "farm", "slot": 0}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var built engine.BuildResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &built))
	require.NotNil(t, built.Structure)
	assert.Equal(t, "farm", built.Structure.TypeKey)
	require.Len(t, built.Modifiers, 1)
	assert.Equal(t, 10.0, built.Modifiers[0].TotalValue)

	// A second farm is unaffordable now; the rejection carries the deficits.
	rec = doRequest(s, http.MethodPost, "/api/v1/settlements/"+id+"/structures",
		`{"type": "farm", "slot": 1}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	var rejection struct {
		Error   string           `json:"error"`
		Missing map[string]int64 `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rejection))
	assert.Equal(t, "insufficient resources", rejection.Error)
	assert.NotEmpty(t, rejection.Missing)

	rec = doRequest(s, http.MethodPost, "/api/v1/settlements/"+id+"/structures",
		`{"type": "ziggurat", "slot": 0}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpgradeAndDemolishEndpoints(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()
	id := foundViaAPI(t, s)

	led, err := st.Ledger(ctx, id)
	require.NoError(t, err)
	led.Credit(resource.Wood, 300)
	led.Credit(resource.Stone, 300)
	require.NoError(t, st.SaveLedger(ctx, led))

	rec := doRequest(s, http.MethodPost, "/api/v1/settlements/"+id+"/structures",
		`{"type": "farm", "slot": 0}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var built engine.BuildResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &built))
	sid := built.Structure.ID

	rec = doRequest(s, http.MethodPost,
		"/api/v1/settlements/"+id+"/structures/"+sid+"/upgrade", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var upgraded engine.BuildResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upgraded))
	assert.Equal(t, 2, upgraded.Structure.Level)

	rec = doRequest(s, http.MethodDelete,
		"/api/v1/settlements/"+id+"/structures/"+sid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var demolished engine.BuildResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &demolished))
	assert.NotEmpty(t, demolished.Refund)

	rec = doRequest(s, http.MethodPost,
		"/api/v1/settlements/"+id+"/structures/"+sid+"/upgrade", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestModifierEndpoints(t *testing.T) {
	s, _ := newTestServer(t)
	id := foundViaAPI(t, s)

	rec := doRequest(s, http.MethodGet, "/api/v1/settlements/"+id+"/modifiers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mods []settlement.Modifier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mods))
	assert.Empty(t, mods)

	rec = doRequest(s, http.MethodPost, "/api/v1/settlements/"+id+"/modifiers/recalculate", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/v1/settlements/ghost/modifiers", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollectEndpoint(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()
	id := foundViaAPI(t, s)

	require.NoError(t, st.CreateStructure(ctx, &structure.Instance{
		ID: "b1", SettlementID: id, TypeKey: "farm", Level: 1, Health: 100,
	}))

	rec := doRequest(s, http.MethodPost,
		"/api/v1/settlements/"+id+"/production/collect", `{"elapsed_hours": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var delta resource.Delta
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &delta))
	assert.Equal(t, int64(36), delta.Credited[resource.Food])

	// No body means no explicit window; nothing accrues in zero time.
	rec = doRequest(s, http.MethodPost,
		"/api/v1/settlements/"+id+"/production/collect", "")
	require.Equal(t, http.StatusOK, rec.Code)
	delta = resource.Delta{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &delta))
	assert.Empty(t, delta.Credited)
}

func TestDisasterEndpoints(t *testing.T) {
	s, _ := newTestServer(t)
	id := foundViaAPI(t, s)

	now := time.Now().UTC()
	body := func(severity float64, kind string) string {
		b, _ := json.Marshal(map[string]any{
			"settlement_id": id,
			"kind":          kind,
			"severity":      severity,
			"warning_at":    now.Add(time.Hour),
			"impact_at":     now.Add(2 * time.Hour),
			"aftermath_at":  now.Add(3 * time.Hour),
			"resolve_at":    now.Add(4 * time.Hour),
		})
		return string(b)
	}

	rec := doRequest(s, http.MethodPost, "/api/v1/disasters", body(50, "flood"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var ev struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ev))
	require.NotEmpty(t, ev.ID)

	rec = doRequest(s, http.MethodPost, "/api/v1/disasters/"+ev.ID+"/damage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res disaster.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, ev.ID, res.DisasterID)

	rec = doRequest(s, http.MethodPost, "/api/v1/disasters", body(150, "flood"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(s, http.MethodPost, "/api/v1/disasters", body(50, "kraken_attack"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(s, http.MethodPost, "/api/v1/disasters/ghost/damage", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	lim := newIPLimiter(1, 2)

	assert.True(t, lim.allow("10.0.0.1"))
	assert.True(t, lim.allow("10.0.0.1"))
	assert.False(t, lim.allow("10.0.0.1"))

	// Each client IP gets its own bucket.
	assert.True(t, lim.allow("10.0.0.2"))
}

func TestRateLimiterMiddleware(t *testing.T) {
	s, _ := newTestServer(t)
	lim := newIPLimiter(1, 1)
	h := lim.middleware(s.httpSrv.Handler)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/settlements/ghost", nil))
	assert.Equal(t, http.StatusNotFound, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/settlements/ghost", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
