// Package npcfeed fetches the NPC catalog document from a remote URL with
// rate limiting.
package npcfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/nzvengeance/aces-companion/internal/npcs"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultUserAgent = "AcesCompanion/1.0"
	DefaultRateLimit = 0.2 // requests per second
	DefaultBurst     = 1
)

// Client is a rate-limited HTTP client for a remote NPC catalog.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	url         string
	userAgent   string
}

func NewClient(url string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultBurst),
		url:         url,
		userAgent:   DefaultUserAgent,
	}
}

// Fetch downloads and parses the catalog. Bad records are skipped and
// logged; an unreadable document is an error so callers can keep the
// previous catalog.
func (c *Client) Fetch(ctx context.Context) ([]models.NPC, error) {
	body, err := c.doGet(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching npc catalog: %w", err)
	}

	list, diags := npcs.Parse(body)
	for _, d := range diags {
		if d.Index < 0 {
			return nil, fmt.Errorf("parsing npc catalog: %s", d.Reason)
		}
		log.Warn().Int("index", d.Index).Str("reason", d.Reason).Msg("skipping npc record")
	}

	log.Info().Str("url", c.url).Int("count", len(list)).Msg("fetched npc catalog")
	return list, nil
}

func (c *Client) doGet(ctx context.Context) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10)) // 1KB for error messages
		limit := len(body)
		if limit > 200 {
			limit = 200
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body[:limit]))
	}

	return io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // 10MB limit
}
