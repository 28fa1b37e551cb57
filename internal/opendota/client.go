// Package opendota provides a minimal client for the OpenDota API.
package opendota

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nicoag/go-dota-insights/internal/model"
)

// defaultBaseURL is the root endpoint for the OpenDota API.
const defaultBaseURL = "https://api.opendota.com/api"

// maxRetries bounds the 429 backoff loop.
const maxRetries = 3

// rankedLobby is the lobby_type value for ranked matchmaking.
const rankedLobby = 7

// Client is a minimal OpenDota API client. The anonymous tier needs no key;
// an API key raises the rate limit.
type Client struct {
	baseURL   string
	apiKey    string
	http      *http.Client
	log       *logrus.Logger
	retryBase time.Duration
}

// NewClient returns an OpenDota client. apiKey may be empty.
func NewClient(apiKey string, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL:   defaultBaseURL,
		apiKey:    apiKey,
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       log,
		retryBase: time.Second,
	}
}

// WithBaseURL overrides the API root. Tests point this at a local server.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// get performs a GET request with 429-aware retries and JSON-decodes the
// response body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	url := c.baseURL + path
	if c.apiKey != "" {
		sep := "?"
		for _, r := range path {
			if r == '?' {
				sep = "&"
				break
			}
		}
		url += sep + "api_key=" + c.apiKey
	}

	backoff := c.retryBase
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("GET %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			c.log.WithFields(logrus.Fields{
				"path":    path,
				"attempt": attempt + 1,
			}).Warn("rate limited, backing off")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
			continue
		}

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("GET %s: decode: %w", path, err)
		}
		return nil
	}
}

// Heroes returns the full hero directory.
func (c *Client) Heroes(ctx context.Context) ([]model.Hero, error) {
	var heroes []model.Hero
	if err := c.get(ctx, "/heroes", &heroes); err != nil {
		return nil, err
	}
	return heroes, nil
}

// HeroStats returns per-hero pro pick and win counts.
func (c *Client) HeroStats(ctx context.Context) ([]model.HeroStats, error) {
	var stats []model.HeroStats
	if err := c.get(ctx, "/heroStats", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ItemConstants returns the item directory keyed by item key.
func (c *Client) ItemConstants(ctx context.Context) (map[string]model.ItemConstants, error) {
	var items map[string]model.ItemConstants
	if err := c.get(ctx, "/constants/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// RecentMatches returns the newest ranked matches for a player.
func (c *Client) RecentMatches(ctx context.Context, accountID int64, limit int) ([]model.RecentMatch, error) {
	path := fmt.Sprintf("/players/%d/matches?limit=%d&lobby_type=%d", accountID, limit, rankedLobby)
	var matches []model.RecentMatch
	if err := c.get(ctx, path, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// MatchesPage returns one page of a player's ranked match history.
func (c *Client) MatchesPage(ctx context.Context, accountID int64, limit, offset int) ([]model.RecentMatch, error) {
	path := fmt.Sprintf("/players/%d/matches?limit=%d&offset=%d&lobby_type=%d",
		accountID, limit, offset, rankedLobby)
	var matches []model.RecentMatch
	if err := c.get(ctx, path, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// MatchDetail returns the full record for one match.
func (c *Client) MatchDetail(ctx context.Context, matchID int64) (*model.MatchDetail, error) {
	var detail model.MatchDetail
	if err := c.get(ctx, fmt.Sprintf("/matches/%d", matchID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Benchmarks returns population percentile curves for a hero.
func (c *Client) Benchmarks(ctx context.Context, heroID int) (*model.Benchmarks, error) {
	var bench model.Benchmarks
	if err := c.get(ctx, fmt.Sprintf("/benchmarks?hero_id=%d", heroID), &bench); err != nil {
		return nil, err
	}
	return &bench, nil
}

// RequestParse asks OpenDota to parse a match replay. The job completes
// asynchronously; a later MatchDetail fetch may carry parsed data.
func (c *Client) RequestParse(ctx context.Context, matchID int64) error {
	url := fmt.Sprintf("%s/request/%d", c.baseURL, matchID)
	if c.apiKey != "" {
		url += "?api_key=" + c.apiKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST /request/%d: %w", matchID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST /request/%d: HTTP %d", matchID, resp.StatusCode)
	}
	c.log.WithField("match_id", matchID).Info("parse requested")
	return nil
}
