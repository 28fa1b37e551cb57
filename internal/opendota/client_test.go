package opendota

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoag/go-dota-insights/internal/model"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	client := NewClient("", log).WithBaseURL(srv.URL)
	client.retryBase = time.Millisecond
	return client
}

func TestRecentMatches(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/1001/matches", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "7", r.URL.Query().Get("lobby_type"))
		json.NewEncoder(w).Encode([]model.RecentMatch{
			{MatchID: 10, HeroID: 1, Kills: 5},
			{MatchID: 9, HeroID: 2, Kills: 3},
		})
	}))

	matches, err := client.RecentMatches(context.Background(), 1001, 20)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, int64(10), matches[0].MatchID)
	assert.Equal(t, 5, matches[0].Kills)
}

func TestMatchesPage_SendsOffset(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "200", r.URL.Query().Get("offset"))
		json.NewEncoder(w).Encode([]model.RecentMatch{})
	}))

	matches, err := client.MatchesPage(context.Background(), 1001, 100, 200)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchDetail(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/matches/7000000001", r.URL.Path)
		json.NewEncoder(w).Encode(model.MatchDetail{
			MatchID:  7000000001,
			Duration: 2400,
			Players: []model.PlayerDetail{
				{PlayerSlot: 0, HeroID: 1, GoldT: []int{0, 400}},
			},
		})
	}))

	detail, err := client.MatchDetail(context.Background(), 7000000001)
	require.NoError(t, err)
	assert.Equal(t, int64(7000000001), detail.MatchID)
	require.Len(t, detail.Players, 1)
	assert.Equal(t, []int{0, 400}, detail.Players[0].GoldT)
}

func TestGet_RetriesOn429(t *testing.T) {
	var calls int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]model.Hero{{ID: 1, Name: "npc_dota_hero_antimage"}})
	}))

	heroes, err := client.Heroes(context.Background())
	require.NoError(t, err)
	require.Len(t, heroes, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGet_GivesUpAfterRetries(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.Heroes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestGet_NonOKStatus(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.MatchDetail(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestItemConstants(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/constants/items", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]model.ItemConstants{
			"blink": {ID: 1, DisplayName: "Blink Dagger", Cost: 2250},
		})
	}))

	items, err := client.ItemConstants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Blink Dagger", items["blink"].DisplayName)
}

func TestRequestParse(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/request/42", r.URL.Path)
		w.Write([]byte(`{"job":{"jobId":1}}`))
	}))

	require.NoError(t, client.RequestParse(context.Background(), 42))
}

func TestBenchmarks(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("hero_id"))
		json.NewEncoder(w).Encode(model.Benchmarks{
			HeroID: 1,
			Result: map[string][]model.BenchmarkEntry{
				"gold_per_min": {{Percentile: 0.5, Value: 450}},
			},
		})
	}))

	bench, err := client.Benchmarks(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, bench.Result["gold_per_min"], 1)
	assert.Equal(t, 450.0, bench.Result["gold_per_min"][0].Value)
}
