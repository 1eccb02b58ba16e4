// Package pos pulls venue timecards from the point-of-sale labor API and
// stamps each one with the venue it came from.
package pos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"timecard-reconciliation-backend/internal/models"
	"timecard-reconciliation-backend/internal/services/reconciliation"
)

const defaultFanOut = 4

var promptBoundRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(\d{2}):(\d{2})$`)

// VenueSource lists the active venues to fan out over.
type VenueSource interface {
	Venues(ctx context.Context) ([]models.Venue, error)
}

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	StaticToken  string
	FanOut       int
}

type Client struct {
	baseURL    string
	fanOut     int
	tokens     *TokenSource
	venues     VenueSource
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, venues VenueSource, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	fanOut := cfg.FanOut
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		baseURL: baseURL,
		fanOut:  fanOut,
		tokens: NewTokenSource(
			baseURL+"/authentication/v1/authentication/login",
			cfg.ClientID, cfg.ClientSecret, cfg.StaticToken, httpClient,
		),
		venues:     venues,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchTimecards pulls the window's time entries for every active venue and
// stamps venue identity onto each card. A venue that errors contributes
// nothing; the rest of the fan-out still lands.
func (c *Client) FetchTimecards(ctx context.Context, q reconciliation.POSQuery) ([]models.POSTimecard, error) {
	venues, err := c.venues.Venues(ctx)
	if err != nil {
		return nil, fmt.Errorf("load venues: %w", err)
	}
	if q.VenueID != "" {
		venues = filterVenues(venues, q.VenueID)
	}

	var mu sync.Mutex
	var all []models.POSTimecard

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fanOut)
	for _, venue := range venues {
		venue := venue // pin per-iteration copy; go directive < 1.22
		g.Go(func() error {
			cards, err := c.venueTimecards(gctx, venue, q.FromDate, q.ToDate)
			if err != nil {
				c.logger.Error("pos venue fetch failed",
					"site_id", venue.SiteID, "venue", venue.Name, "error", err)
				return nil
			}
			mu.Lock()
			all = append(all, cards...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The fan-out lands in arrival order; fix it so reruns see identical
	// input.
	sort.Slice(all, func(i, j int) bool {
		if all[i].VenueSiteID != all[j].VenueSiteID {
			return all[i].VenueSiteID < all[j].VenueSiteID
		}
		return all[i].GUID < all[j].GUID
	})
	return all, nil
}

func (c *Client) venueTimecards(ctx context.Context, venue models.Venue, from, to string) ([]models.POSTimecard, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/labor/v1/timeEntries", nil)
	if err != nil {
		return nil, err
	}
	query := req.URL.Query()
	query.Set("startDate", WindowBound(from, false))
	query.Set("endDate", WindowBound(to, true))
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Toast-Restaurant-External-ID", venue.POSGUID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("timeEntries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("timeEntries: %s: %s", resp.Status, body)
	}

	// The endpoint returns a bare array.
	var cards []models.POSTimecard
	if err := json.NewDecoder(resp.Body).Decode(&cards); err != nil {
		return nil, fmt.Errorf("decode timeEntries: %w", err)
	}

	for i := range cards {
		cards[i].VenueSiteID = venue.SiteID
		cards[i].VenueName = venue.Name
		cards[i].VenueGUID = venue.POSGUID
		cards[i].LocationCode = venue.LocationCode
	}
	return cards, nil
}

func filterVenues(venues []models.Venue, venueID string) []models.Venue {
	var matched []models.Venue
	for _, v := range venues {
		if v.SiteID == venueID || v.LocationCode == venueID {
			matched = append(matched, v)
		}
	}
	return matched
}

// WindowBound converts a query boundary into the labor API's timestamp
// format, e.g. "2024-09-15T05:00:00.000-0000". Plain dates become full-day
// bounds, date-HH:MM prompt bounds keep their clock time, and ISO datetimes
// pass through with milliseconds added.
func WindowBound(value string, end bool) string {
	if strings.HasSuffix(value, "Z") {
		return strings.TrimSuffix(value, "Z") + ".000-0000"
	}
	if strings.Contains(value, "T") {
		if strings.Contains(value, ".") {
			return value
		}
		if i := strings.LastIndex(value, "+"); i != -1 {
			return value[:i] + ".000" + value[i:]
		}
		if i := strings.LastIndex(value, "-"); i > strings.Index(value, "T") {
			return value[:i] + ".000" + value[i:]
		}
		return value
	}
	if m := promptBoundRe.FindStringSubmatch(value); m != nil {
		if end {
			return fmt.Sprintf("%sT%s:%s:59.999-0000", m[1], m[2], m[3])
		}
		return fmt.Sprintf("%sT%s:%s:00.000-0000", m[1], m[2], m[3])
	}
	if end {
		return value + "T23:59:59.999-0000"
	}
	return value + "T00:00:00.000-0000"
}
