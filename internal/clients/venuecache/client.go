// Package venuecache reads venue metadata out of the shared Redis cache.
// The cache holds the live venue list under one key and per-site detail
// blobs under site_{id} keys; both may arrive as JSON or as JSON-encoded
// strings depending on which producer wrote them.
package venuecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"timecard-reconciliation-backend/internal/models"
)

const (
	venuesKey     = "venues"
	siteKeyPrefix = "site_"
)

// StringGetter is the slice of the redis client the directory needs.
type StringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Directory serves the venue list that drives the POS fan-out. Reads go to
// the cache first and fall back to a static list when the cache is down.
type Directory struct {
	client   StringGetter
	fallback []models.Venue
	logger   *slog.Logger
}

func New(client StringGetter, fallback []models.Venue, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{client: client, fallback: fallback, logger: logger}
}

// cacheVenue mirrors one entry of the cached venue list.
type cacheVenue struct {
	SiteID    flexString `json:"siteId"`
	POSGUID   string     `json:"toastGuid"`
	Offset    string     `json:"offSet"`
	POSOffset string     `json:"toastOffSet"`
}

// siteDetails mirrors the slice of a site_{id} blob we care about.
type siteDetails struct {
	VenueName string `json:"venue_name"`
	CityName  string `json:"city_name"`
	HRIS      struct {
		Location string `json:"hris_sys_location"`
	} `json:"hris_sys_info"`
}

// Venues returns the live venue list, one entry per POS GUID. Each entry is
// enriched best-effort from its site detail blob with the payroll location
// code and a human venue name.
func (d *Directory) Venues(ctx context.Context) ([]models.Venue, error) {
	if d.client == nil {
		return d.useFallback(errors.New("venue cache not configured"))
	}

	raw, err := d.client.Get(ctx, venuesKey).Bytes()
	if err != nil {
		return d.useFallback(fmt.Errorf("venue cache read: %w", err))
	}
	var entries []cacheVenue
	if err := json.Unmarshal(unwrapJSON(raw), &entries); err != nil {
		return d.useFallback(fmt.Errorf("venue cache decode: %w", err))
	}

	venues := make([]models.Venue, 0, len(entries))
	for _, entry := range entries {
		if entry.POSGUID == "" {
			continue
		}
		v := models.Venue{
			SiteID:    string(entry.SiteID),
			POSGUID:   entry.POSGUID,
			Offset:    entry.Offset,
			POSOffset: entry.POSOffset,
		}
		if v.SiteID != "" {
			v.Name = "Venue_" + v.SiteID
		}
		if v.Offset == "" {
			v.Offset = "-00:00"
		}
		if v.POSOffset == "" {
			v.POSOffset = "-05:00"
		}
		d.enrich(ctx, &v)
		venues = append(venues, v)
	}

	d.logger.Info("venue cache read", "venues", len(venues))
	return venues, nil
}

// enrich fills the payroll location code and display name from the site
// detail blob. Failures leave the venue as built from the list entry.
func (d *Directory) enrich(ctx context.Context, v *models.Venue) {
	if v.SiteID == "" {
		return
	}
	raw, err := d.client.Get(ctx, siteKeyPrefix+v.SiteID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.logger.Warn("site details read failed", "site_id", v.SiteID, "error", err)
		}
		return
	}
	var details siteDetails
	if err := json.Unmarshal(unwrapJSON(raw), &details); err != nil {
		d.logger.Warn("site details decode failed", "site_id", v.SiteID, "error", err)
		return
	}
	if details.HRIS.Location != "" {
		v.LocationCode = details.HRIS.Location
	}
	if details.VenueName != "" {
		v.Name = details.VenueName
	} else if details.CityName != "" {
		v.Name = details.CityName
	}
}

func (d *Directory) useFallback(cause error) ([]models.Venue, error) {
	if len(d.fallback) == 0 {
		return nil, cause
	}
	d.logger.Warn("venue cache unavailable, using fallback list",
		"error", cause, "venues", len(d.fallback))
	return d.fallback, nil
}

// unwrapJSON strips one level of string encoding when the cached value is a
// JSON-encoded string rather than bare JSON.
func unwrapJSON(raw []byte) []byte {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []byte(s)
	}
	return raw
}

// flexString accepts JSON strings and numbers. Site ids are numeric in the
// cache but string-typed everywhere downstream.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// LoadFallback reads a static venue list from a JSON file. An empty path
// yields an empty list.
func LoadFallback(path string) ([]models.Venue, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback venues: %w", err)
	}
	var venues []models.Venue
	if err := json.Unmarshal(raw, &venues); err != nil {
		return nil, fmt.Errorf("parse fallback venues: %w", err)
	}
	return venues, nil
}
