// Package storage caches OpenDota API responses in a local SQLite database.
package storage

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nicoag/go-dota-insights/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// Cache wraps a sql.DB for the response cache.
type Cache struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens (or creates) the SQLite cache at the given path and applies the
// schema.
func Open(path string) (*Cache, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Cache{conn: conn, now: time.Now}, nil
}

// Close closes the underlying connection.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// keyColumn returns the primary key column for a cache table. The singleton
// tables all key on a fixed id of 1.
func keyColumn(table string) string {
	switch table {
	case "match_cache":
		return "match_id"
	case "recent_matches_cache":
		return "account_id"
	case "benchmark_cache":
		return "hero_id"
	default:
		return "id"
	}
}

// put upserts one JSON payload under a numeric key.
func (c *Cache) put(table string, key int64, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", table, err)
	}
	keyCol := keyColumn(table)
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, payload, updated_at) VALUES (?, ?, ?) ON CONFLICT(%s) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at",
		table, keyCol, keyCol)
	_, err = c.conn.Exec(query, key, string(payload), c.now().Unix())
	return err
}

// get loads one JSON payload by key, honoring the max-age bound. Reports
// false on a miss or an expired row. A zero maxAge disables expiry.
func (c *Cache) get(table string, key int64, maxAge time.Duration, out interface{}) (bool, error) {
	query := fmt.Sprintf("SELECT payload, updated_at FROM %s WHERE %s = ?", table, keyColumn(table))

	var payload string
	var updatedAt int64
	err := c.conn.QueryRow(query, key).Scan(&payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if maxAge > 0 && c.now().Unix()-updatedAt > int64(maxAge.Seconds()) {
		return false, nil
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", table, err)
	}
	return true, nil
}

// PutMatch caches a match detail.
func (c *Cache) PutMatch(detail *model.MatchDetail) error {
	return c.put("match_cache", detail.MatchID, detail)
}

// GetMatch loads a cached match detail no older than maxAge.
func (c *Cache) GetMatch(matchID int64, maxAge time.Duration) (*model.MatchDetail, bool, error) {
	var detail model.MatchDetail
	ok, err := c.get("match_cache", matchID, maxAge, &detail)
	if !ok || err != nil {
		return nil, false, err
	}
	return &detail, true, nil
}

// PutRecentMatches caches a player's recent match list.
func (c *Cache) PutRecentMatches(accountID int64, matches []model.RecentMatch) error {
	return c.put("recent_matches_cache", accountID, matches)
}

// GetRecentMatches loads a player's cached match list no older than maxAge.
func (c *Cache) GetRecentMatches(accountID int64, maxAge time.Duration) ([]model.RecentMatch, bool, error) {
	var matches []model.RecentMatch
	ok, err := c.get("recent_matches_cache", accountID, maxAge, &matches)
	if !ok || err != nil {
		return nil, false, err
	}
	return matches, true, nil
}

// PutHeroes caches the hero directory.
func (c *Cache) PutHeroes(heroes []model.Hero) error {
	return c.put("hero_cache", 1, heroes)
}

// GetHeroes loads the cached hero directory no older than maxAge.
func (c *Cache) GetHeroes(maxAge time.Duration) ([]model.Hero, bool, error) {
	var heroes []model.Hero
	ok, err := c.get("hero_cache", 1, maxAge, &heroes)
	if !ok || err != nil {
		return nil, false, err
	}
	return heroes, true, nil
}

// PutHeroStats caches the hero pro-stats list.
func (c *Cache) PutHeroStats(stats []model.HeroStats) error {
	return c.put("hero_stats_cache", 1, stats)
}

// GetHeroStats loads the cached hero pro-stats no older than maxAge.
func (c *Cache) GetHeroStats(maxAge time.Duration) ([]model.HeroStats, bool, error) {
	var stats []model.HeroStats
	ok, err := c.get("hero_stats_cache", 1, maxAge, &stats)
	if !ok || err != nil {
		return nil, false, err
	}
	return stats, true, nil
}

// PutItems caches the item directory.
func (c *Cache) PutItems(items map[string]model.ItemConstants) error {
	return c.put("item_cache", 1, items)
}

// GetItems loads the cached item directory no older than maxAge.
func (c *Cache) GetItems(maxAge time.Duration) (map[string]model.ItemConstants, bool, error) {
	var items map[string]model.ItemConstants
	ok, err := c.get("item_cache", 1, maxAge, &items)
	if !ok || err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// PutBenchmarks caches one hero's benchmark curves.
func (c *Cache) PutBenchmarks(bench *model.Benchmarks) error {
	return c.put("benchmark_cache", int64(bench.HeroID), bench)
}

// GetBenchmarks loads a hero's cached benchmarks no older than maxAge.
func (c *Cache) GetBenchmarks(heroID int, maxAge time.Duration) (*model.Benchmarks, bool, error) {
	var bench model.Benchmarks
	ok, err := c.get("benchmark_cache", int64(heroID), maxAge, &bench)
	if !ok || err != nil {
		return nil, false, err
	}
	return &bench, true, nil
}
