// Package riot provides a minimal client for the Riot Match-V5 API.
package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/riftlens/riftlens/internal/config"
	"github.com/riftlens/riftlens/internal/model"
)

// Client is a minimal Match-V5 client bound to one routing region.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient returns a Match-V5 client for the configured routing region
// (americas, europe, asia, sea).
func NewClient(cfg config.RiotConfig, log zerolog.Logger) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: fmt.Sprintf("https://%s.api.riotgames.com", cfg.Region),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log.With().Str("component", "riot").Logger(),
	}
}

// WithBaseURL overrides the API host, for tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// AccountByRiotID resolves a gameName#tagLine to a PUUID.
func (c *Client) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	var acct Account
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s",
		url.PathEscape(gameName), url.PathEscape(tagLine))
	if err := c.get(ctx, path, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// MatchIDs lists a player's recent match ids, newest first.
func (c *Client) MatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error) {
	var ids []string
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids?start=%s&count=%s",
		url.PathEscape(puuid), strconv.Itoa(start), strconv.Itoa(count))
	if err := c.get(ctx, path, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Match fetches one match document.
func (c *Client) Match(ctx context.Context, matchID string) (*model.Match, error) {
	var m model.Match
	if err := c.get(ctx, "/lol/match/v5/matches/"+url.PathEscape(matchID), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Timeline fetches one match timeline. A 404 is surfaced as
// ErrDataUnavailable so callers can ingest the match without it.
func (c *Client) Timeline(ctx context.Context, matchID string) (*model.Timeline, error) {
	var tl model.Timeline
	if err := c.get(ctx, "/lol/match/v5/matches/"+url.PathEscape(matchID)+"/timeline", &tl); err != nil {
		return nil, err
	}
	return &tl, nil
}

// get performs an authenticated GET and JSON-decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	c.log.Debug().Str("path", path).Msg("riot api request")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNotFound:
		return fmt.Errorf("GET %s: %w", path, model.ErrDataUnavailable)
	case http.StatusTooManyRequests:
		return fmt.Errorf("GET %s: rate limited (HTTP 429, retry-after %s)", path, resp.Header.Get("Retry-After"))
	default:
		return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
}
