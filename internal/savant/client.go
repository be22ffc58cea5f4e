// Package savant downloads statcast pitch data from the Baseball Savant search endpoint.
package savant

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/nrfi-metrics/internal/model"
	"github.com/pable/nrfi-metrics/internal/statcast"
)

// DefaultBaseURL is the public Baseball Savant host.
const DefaultBaseURL = "https://baseballsavant.mlb.com"

// Client fetches one day of regular-season pitches per request.
type Client struct {
	baseURL string
	http    *http.Client

	// CacheDir, when set, keeps each downloaded day as statcast-YYYY-MM-DD.csv.zst and
	// serves later requests for that day from disk.
	CacheDir string
	// OnResponse, when set, is called with the HTTP status of every request, or 0 when the
	// request failed before a response arrived.
	OnResponse func(status int)
}

// NewClient returns a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SearchURL returns the statcast CSV search URL for a single day.
func (c *Client) SearchURL(day time.Time) string {
	d := day.Format(model.DateLayout)
	q := url.Values{}
	q.Set("all", "true")
	q.Set("type", "details")
	q.Set("player_type", "pitcher")
	q.Set("hfGT", "R|")
	q.Set("game_date_gt", d)
	q.Set("game_date_lt", d)
	return c.baseURL + "/statcast_search/csv?" + q.Encode()
}

// FetchRange downloads every day from start to end inclusive, in order, and concatenates
// the decoded events.
func (c *Client) FetchRange(ctx context.Context, start, end time.Time) ([]model.PitchEvent, error) {
	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s",
			end.Format(model.DateLayout), start.Format(model.DateLayout))
	}

	var all []model.PitchEvent
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		events, err := c.FetchDay(ctx, day)
		if err != nil {
			return nil, err
		}
		slog.Info("fetched statcast day", "date", day.Format(model.DateLayout), "events", len(events))
		all = append(all, events...)
	}
	return all, nil
}

// FetchDay downloads and decodes one day. A day without games yields no events.
func (c *Client) FetchDay(ctx context.Context, day time.Time) ([]model.PitchEvent, error) {
	d := day.Format(model.DateLayout)

	cached := c.cachePath(day)
	if cached != "" {
		if _, err := os.Stat(cached); err == nil {
			slog.Debug("statcast cache hit", "date", d, "path", cached)
			return statcast.ReadFile(cached)
		}
	}

	body, err := c.download(ctx, day)
	if err != nil {
		return nil, err
	}
	if cached != "" {
		if err := writeZstd(cached, body); err != nil {
			slog.Warn("statcast cache write failed", "date", d, "err", err)
		}
	}

	events, err := statcast.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode statcast %s: %w", d, err)
	}
	return events, nil
}

func (c *Client) download(ctx context.Context, day time.Time) ([]byte, error) {
	d := day.Format(model.DateLayout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(day), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(0)
		return nil, fmt.Errorf("GET statcast %s: %w", d, err)
	}
	defer resp.Body.Close()
	c.observe(resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET statcast %s: HTTP %d", d, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read statcast %s: %w", d, err)
	}
	return body, nil
}

func (c *Client) observe(status int) {
	if c.OnResponse != nil {
		c.OnResponse(status)
	}
}

func (c *Client) cachePath(day time.Time) string {
	if c.CacheDir == "" {
		return ""
	}
	return filepath.Join(c.CacheDir, "statcast-"+day.Format(model.DateLayout)+".csv.zst")
}

// writeZstd compresses data into path via a temporary file, so a partial write never
// looks like a cache hit.
func writeZstd(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, enc.EncodeAll(data, nil), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
