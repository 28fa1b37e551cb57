// Package constants resolves hero and item identifiers to display data,
// backed by the OpenDota constants endpoints with a local cache.
package constants

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nicoag/go-dota-insights/internal/model"
)

// constantsMaxAge bounds how long cached hero and item directories are
// trusted before a refetch.
const constantsMaxAge = 7 * 24 * time.Hour

// heroPrefix is the unit-name prefix OpenDota carries on hero keys.
const heroPrefix = "npc_dota_hero_"

// fetcher is the slice of the API client the directory needs.
type fetcher interface {
	Heroes(ctx context.Context) ([]model.Hero, error)
	HeroStats(ctx context.Context) ([]model.HeroStats, error)
	ItemConstants(ctx context.Context) (map[string]model.ItemConstants, error)
}

// store is the slice of the cache the directory needs.
type store interface {
	GetHeroes(maxAge time.Duration) ([]model.Hero, bool, error)
	PutHeroes(heroes []model.Hero) error
	GetHeroStats(maxAge time.Duration) ([]model.HeroStats, bool, error)
	PutHeroStats(stats []model.HeroStats) error
	GetItems(maxAge time.Duration) (map[string]model.ItemConstants, bool, error)
	PutItems(items map[string]model.ItemConstants) error
}

// Directory maps hero and item identifiers to names, keys, and win rates.
// Load it once with EnsureLoaded; lookups afterwards are cheap.
type Directory struct {
	client    fetcher
	cache     store
	log       *logrus.Logger
	cacheOnly bool

	mu           sync.Mutex
	loaded       bool
	heroNames    map[int]string
	heroKeys     map[int]string
	heroWinRates map[int]float64
	items        map[string]model.ItemConstants
	itemIDKey    map[int]string
}

// NewDirectory returns an unloaded directory. With cacheOnly set it never
// touches the network and serves whatever the cache holds.
func NewDirectory(client fetcher, cache store, log *logrus.Logger, cacheOnly bool) *Directory {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Directory{
		client:    client,
		cache:     cache,
		log:       log,
		cacheOnly: cacheOnly,
	}
}

// EnsureLoaded populates the lookup tables, cache first and API second.
// Safe to call repeatedly; only the first call does work.
func (d *Directory) EnsureLoaded(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		return nil
	}

	heroes, err := d.loadHeroes(ctx)
	if err != nil {
		return err
	}
	stats, err := d.loadHeroStats(ctx)
	if err != nil {
		d.log.WithError(err).Warn("hero stats unavailable, win rates disabled")
		stats = nil
	}
	items, err := d.loadItems(ctx)
	if err != nil {
		return err
	}

	d.heroNames = make(map[int]string, len(heroes))
	d.heroKeys = make(map[int]string, len(heroes))
	for _, h := range heroes {
		d.heroNames[h.ID] = h.LocalizedName
		d.heroKeys[h.ID] = strings.TrimPrefix(h.Name, heroPrefix)
	}

	d.heroWinRates = make(map[int]float64, len(stats))
	for _, s := range stats {
		if s.ProPick > 0 {
			d.heroWinRates[s.ID] = float64(s.ProWin) / float64(s.ProPick)
		}
	}

	d.items = make(map[string]model.ItemConstants, len(items))
	d.itemIDKey = make(map[int]string, len(items))
	for key, item := range items {
		lower := strings.ToLower(key)
		d.items[lower] = item
		if item.ID != 0 {
			d.itemIDKey[item.ID] = lower
		}
	}

	d.loaded = true
	return nil
}

func (d *Directory) loadHeroes(ctx context.Context) ([]model.Hero, error) {
	if heroes, ok, err := d.cache.GetHeroes(constantsMaxAge); err == nil && ok {
		return heroes, nil
	}
	if d.cacheOnly {
		if heroes, ok, err := d.cache.GetHeroes(0); err == nil && ok {
			return heroes, nil
		}
		return nil, fmt.Errorf("hero directory not cached and cache-only mode is on")
	}
	heroes, err := d.client.Heroes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch heroes: %w", err)
	}
	if err := d.cache.PutHeroes(heroes); err != nil {
		d.log.WithError(err).Warn("cache heroes")
	}
	return heroes, nil
}

func (d *Directory) loadHeroStats(ctx context.Context) ([]model.HeroStats, error) {
	if stats, ok, err := d.cache.GetHeroStats(constantsMaxAge); err == nil && ok {
		return stats, nil
	}
	if d.cacheOnly {
		stats, _, err := d.cache.GetHeroStats(0)
		return stats, err
	}
	stats, err := d.client.HeroStats(ctx)
	if err != nil {
		return nil, err
	}
	if err := d.cache.PutHeroStats(stats); err != nil {
		d.log.WithError(err).Warn("cache hero stats")
	}
	return stats, nil
}

func (d *Directory) loadItems(ctx context.Context) (map[string]model.ItemConstants, error) {
	if items, ok, err := d.cache.GetItems(constantsMaxAge); err == nil && ok {
		return items, nil
	}
	if d.cacheOnly {
		if items, ok, err := d.cache.GetItems(0); err == nil && ok {
			return items, nil
		}
		return nil, fmt.Errorf("item directory not cached and cache-only mode is on")
	}
	items, err := d.client.ItemConstants(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	if err := d.cache.PutItems(items); err != nil {
		d.log.WithError(err).Warn("cache items")
	}
	return items, nil
}

// HeroName returns the hero's localized name, or a placeholder for unknown
// ids.
func (d *Directory) HeroName(id int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if name, ok := d.heroNames[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("Hero %d", id)
}

// HeroKey returns the hero's short unit key (the npc_dota_hero_ prefix
// stripped), or empty for unknown ids.
func (d *Directory) HeroKey(id int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.heroKeys[id]
}

// HeroWinRate returns the hero's pro win rate and whether one is known.
func (d *Directory) HeroWinRate(id int) (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rate, ok := d.heroWinRates[id]
	return rate, ok
}

// ItemByKey looks an item up by key, case-insensitively.
func (d *Directory) ItemByKey(key string) (model.ItemConstants, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	item, ok := d.items[strings.ToLower(key)]
	return item, ok
}

// ItemKeyByID maps a numeric item id back to its key.
func (d *Directory) ItemKeyByID(id int) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key, ok := d.itemIDKey[id]
	return key, ok
}
