// Package pipeline orchestrates fetching, caching, and analyzing a player's
// matches.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nicoag/go-dota-insights/internal/analysis"
	"github.com/nicoag/go-dota-insights/internal/model"
)

// Cache freshness bounds. Match details only change when OpenDota parses a
// replay, so they live longer than the listing.
const (
	recentMaxAge = 30 * time.Minute
	detailMaxAge = 7 * 24 * time.Hour
	benchMaxAge  = 24 * time.Hour
)

// pageSize is the OpenDota match-listing page size.
const pageSize = 100

// detailWorkers bounds concurrent match-detail fetches.
const detailWorkers = 4

// Client is the slice of the OpenDota client the pipeline needs.
type Client interface {
	RecentMatches(ctx context.Context, accountID int64, limit int) ([]model.RecentMatch, error)
	MatchesPage(ctx context.Context, accountID int64, limit, offset int) ([]model.RecentMatch, error)
	MatchDetail(ctx context.Context, matchID int64) (*model.MatchDetail, error)
	Benchmarks(ctx context.Context, heroID int) (*model.Benchmarks, error)
	RequestParse(ctx context.Context, matchID int64) error
}

// Cache is the slice of the storage cache the pipeline needs.
type Cache interface {
	GetRecentMatches(accountID int64, maxAge time.Duration) ([]model.RecentMatch, bool, error)
	PutRecentMatches(accountID int64, matches []model.RecentMatch) error
	GetMatch(matchID int64, maxAge time.Duration) (*model.MatchDetail, bool, error)
	PutMatch(detail *model.MatchDetail) error
	GetBenchmarks(heroID int, maxAge time.Duration) (*model.Benchmarks, bool, error)
	PutBenchmarks(bench *model.Benchmarks) error
}

// Options tune one analysis run.
type Options struct {
	// Count is how many analyses to return.
	Count int
	// FetchLimit caps how many matches are pulled from the history.
	FetchLimit int
	// Pos1Only keeps only position-1 games.
	Pos1Only bool
	// RequestParse asks OpenDota to parse matches that come back unparsed.
	RequestParse bool
	// CacheOnly serves entirely from the local cache.
	CacheOnly bool
	// NoBenchmarks skips the per-hero benchmark fetch.
	NoBenchmarks bool
}

// Analyzer runs the fetch-cache-analyze pipeline for one player at a time.
type Analyzer struct {
	client Client
	cache  Cache
	dir    analysis.Resolver
	log    *logrus.Logger
	opts   Options
}

// New returns a pipeline analyzer.
func New(client Client, cache Cache, dir analysis.Resolver, log *logrus.Logger, opts Options) *Analyzer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Count <= 0 {
		opts.Count = 10
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = opts.Count
	}
	return &Analyzer{client: client, cache: cache, dir: dir, log: log, opts: opts}
}

// AnalyzeRecent analyzes the player's newest ranked matches and returns the
// selected batch, newest first.
func (a *Analyzer) AnalyzeRecent(ctx context.Context, accountID int64) ([]*model.MatchAnalysis, error) {
	matches, err := a.loadRecentMatches(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > a.opts.FetchLimit {
		matches = matches[:a.opts.FetchLimit]
	}

	analyses := a.analyzeBatch(ctx, accountID, matches)
	return analysis.Select(analyses, a.opts.Count, a.opts.Pos1Only), nil
}

// AnalyzeMatch analyzes a single match by id.
func (a *Analyzer) AnalyzeMatch(ctx context.Context, accountID, matchID int64) (*model.MatchAnalysis, error) {
	detail, err := a.loadDetail(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("match %d not available", matchID)
	}

	match, ok := recentFromDetail(detail, accountID)
	if !ok {
		return nil, fmt.Errorf("account %d not in match %d", accountID, matchID)
	}

	bench := a.loadBenchmarks(ctx, match.HeroID)
	return analysis.Analyze(match, detail, accountID, bench, a.dir), nil
}

// loadRecentMatches returns the player's ranked history, newest first,
// honoring the cache and its staleness probe.
func (a *Analyzer) loadRecentMatches(ctx context.Context, accountID int64) ([]model.RecentMatch, error) {
	if a.opts.CacheOnly {
		matches, ok, err := a.cache.GetRecentMatches(accountID, 0)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no cached matches for account %d", accountID)
		}
		return matches, nil
	}

	cached, ok, err := a.cache.GetRecentMatches(accountID, recentMaxAge)
	if err != nil {
		a.log.WithError(err).Warn("read recent matches cache")
	}
	if ok && len(cached) > 0 && !a.isStale(ctx, accountID, cached) {
		return cached, nil
	}

	matches, err := a.fetchHistory(ctx, accountID)
	if err != nil {
		if len(cached) > 0 {
			a.log.WithError(err).Warn("history fetch failed, serving cached matches")
			return cached, nil
		}
		return nil, err
	}
	if err := a.cache.PutRecentMatches(accountID, matches); err != nil {
		a.log.WithError(err).Warn("cache recent matches")
	}
	return matches, nil
}

// isStale probes the newest match id to detect games played since the cache
// was written. A probe failure counts as fresh; the fetch path would fail
// the same way.
func (a *Analyzer) isStale(ctx context.Context, accountID int64, cached []model.RecentMatch) bool {
	latest, err := a.client.RecentMatches(ctx, accountID, 1)
	if err != nil || len(latest) == 0 {
		return false
	}
	return latest[0].MatchID != cached[0].MatchID
}

// fetchHistory pulls the ranked history page by page up to the fetch limit,
// deduplicating and sorting newest first.
func (a *Analyzer) fetchHistory(ctx context.Context, accountID int64) ([]model.RecentMatch, error) {
	seen := make(map[int64]struct{})
	var matches []model.RecentMatch

	for offset := 0; len(matches) < a.opts.FetchLimit; offset += pageSize {
		page, err := a.client.MatchesPage(ctx, accountID, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch matches page at offset %d: %w", offset, err)
		}
		for _, m := range page {
			if _, dup := seen[m.MatchID]; dup {
				continue
			}
			seen[m.MatchID] = struct{}{}
			matches = append(matches, m)
		}
		if len(page) < pageSize {
			break
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].StartTime > matches[j].StartTime
	})
	if len(matches) > a.opts.FetchLimit {
		matches = matches[:a.opts.FetchLimit]
	}
	return matches, nil
}

// analyzeBatch fetches details concurrently and analyzes every match,
// preserving input order.
func (a *Analyzer) analyzeBatch(ctx context.Context, accountID int64, matches []model.RecentMatch) []*model.MatchAnalysis {
	details := make([]*model.MatchDetail, len(matches))

	var wg sync.WaitGroup
	sem := make(chan struct{}, detailWorkers)
	for i := range matches {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			detail, err := a.loadDetail(ctx, matches[i].MatchID)
			if err != nil {
				a.log.WithError(err).WithField("match_id", matches[i].MatchID).
					Warn("match detail unavailable")
				return
			}
			details[i] = detail
		}(i)
	}
	wg.Wait()

	analyses := make([]*model.MatchAnalysis, 0, len(matches))
	for i, match := range matches {
		detail := details[i]
		if a.opts.RequestParse && detail != nil && !hasParsedData(detail, accountID) {
			if err := a.client.RequestParse(ctx, match.MatchID); err != nil {
				a.log.WithError(err).WithField("match_id", match.MatchID).Warn("parse request failed")
			}
		}
		bench := a.loadBenchmarks(ctx, match.HeroID)
		analyses = append(analyses, analysis.Analyze(match, detail, accountID, bench, a.dir))
	}
	return analyses
}

// loadDetail returns a match detail from cache or API. Returns nil without
// error in cache-only mode when the match is not cached.
func (a *Analyzer) loadDetail(ctx context.Context, matchID int64) (*model.MatchDetail, error) {
	maxAge := detailMaxAge
	if a.opts.CacheOnly {
		maxAge = 0
	}
	detail, ok, err := a.cache.GetMatch(matchID, maxAge)
	if err != nil {
		a.log.WithError(err).Warn("read match cache")
	}
	if ok {
		return detail, nil
	}
	if a.opts.CacheOnly {
		return nil, nil
	}

	detail, err = a.client.MatchDetail(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := a.cache.PutMatch(detail); err != nil {
		a.log.WithError(err).Warn("cache match detail")
	}
	return detail, nil
}

// loadBenchmarks returns a hero's benchmarks, or nil when disabled or
// unavailable. Benchmark failures never fail the analysis.
func (a *Analyzer) loadBenchmarks(ctx context.Context, heroID int) *model.Benchmarks {
	if a.opts.NoBenchmarks {
		return nil
	}
	maxAge := benchMaxAge
	if a.opts.CacheOnly {
		maxAge = 0
	}
	bench, ok, err := a.cache.GetBenchmarks(heroID, maxAge)
	if err != nil {
		a.log.WithError(err).Warn("read benchmark cache")
	}
	if ok {
		return bench
	}
	if a.opts.CacheOnly {
		return nil
	}

	bench, err = a.client.Benchmarks(ctx, heroID)
	if err != nil {
		a.log.WithError(err).WithField("hero_id", heroID).Warn("benchmarks unavailable")
		return nil
	}
	if err := a.cache.PutBenchmarks(bench); err != nil {
		a.log.WithError(err).Warn("cache benchmarks")
	}
	return bench
}

// hasParsedData reports whether the subject's roster entry carries the
// per-minute series a parse produces.
func hasParsedData(detail *model.MatchDetail, accountID int64) bool {
	for i := range detail.Players {
		p := &detail.Players[i]
		if p.AccountID != nil && *p.AccountID == accountID {
			return len(p.GoldT) > 0
		}
	}
	return false
}

// recentFromDetail synthesizes the listing row for a player from a full
// match record.
func recentFromDetail(detail *model.MatchDetail, accountID int64) (model.RecentMatch, bool) {
	for i := range detail.Players {
		p := &detail.Players[i]
		if p.AccountID == nil || *p.AccountID != accountID {
			continue
		}
		return model.RecentMatch{
			MatchID:     detail.MatchID,
			PlayerSlot:  p.PlayerSlot,
			RadiantWin:  detail.RadiantWin,
			Duration:    detail.Duration,
			HeroID:      p.HeroID,
			Kills:       p.Kills,
			Deaths:      p.Deaths,
			Assists:     p.Assists,
			LastHits:    p.LastHits,
			Denies:      p.Denies,
			GoldPerMin:  p.GoldPerMin,
			XPPerMin:    p.XPPerMin,
			HeroDamage:  p.HeroDamage,
			TowerDamage: p.TowerDamage,
			Level:       p.Level,
		}, true
	}
	return model.RecentMatch{}, false
}
