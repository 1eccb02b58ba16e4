// Package payroll pulls raw clock events from the HR reporting endpoint.
// The report speaks XML with a namespace that varies per report definition,
// so all element matching is by local name.
package payroll

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"timecard-reconciliation-backend/internal/models"
	"timecard-reconciliation-backend/internal/services/normalize"
	"timecard-reconciliation-backend/internal/services/reconciliation"
)

var promptRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{2}:\d{2}$`)

type Config struct {
	BaseURL    string
	Tenant     string
	Report     string
	ReportType string
	Username   string
	Password   string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, httpClient: httpClient, logger: logger}
}

// FetchClockEvents runs the clock event report for the query window or for
// one clock event id.
func (c *Client) FetchClockEvents(ctx context.Context, q reconciliation.PayrollQuery) ([]models.PayrollClockEvent, error) {
	params, window, err := promptParams(q)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/ccx/service/customreport2/%s/%s/%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Tenant, c.cfg.Report, c.cfg.ReportType)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = params.Encode()
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", "timecard-reconciliation/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clock event report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("clock event report: %s: %s", resp.Status, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read clock event report: %w", err)
	}
	events, err := parseReport(body)
	if err != nil {
		return nil, err
	}
	if window != nil {
		events = window.filter(events)
	}

	c.logger.Info("payroll clock events fetched", "count", len(events))
	return events, nil
}

// promptParams maps the query onto report prompts. Plain dates widen to the
// 05:00 business-day boundary on both ends; ISO datetimes coarsen to the
// report's minute prompts and re-narrow through a local window filter.
func promptParams(q reconciliation.PayrollQuery) (url.Values, *timeWindow, error) {
	params := url.Values{}

	if q.ClockEventID != "" {
		params.Set("clockEventID", q.ClockEventID)
		return params, nil, nil
	}
	if q.FromDate == "" || q.ToDate == "" {
		return nil, nil, errors.New("payroll: date range or clock event id required")
	}

	var window *timeWindow
	switch {
	case promptRe.MatchString(q.FromDate) && promptRe.MatchString(q.ToDate):
		// Already in prompt format, pass through.
		params.Set("fromDate", q.FromDate)
		params.Set("toDate", q.ToDate)

	case strings.Contains(q.FromDate, "T") || strings.Contains(q.ToDate, "T"):
		from, err := normalize.ParseInstant(q.FromDate)
		if err != nil {
			return nil, nil, fmt.Errorf("payroll from date: %w", err)
		}
		to, err := normalize.ParseInstant(q.ToDate)
		if err != nil {
			return nil, nil, fmt.Errorf("payroll to date: %w", err)
		}
		params.Set("fromDate", from.Format("2006-01-02-15:04"))
		params.Set("toDate", to.Format("2006-01-02-15:04"))
		window = &timeWindow{from: from, to: to}

	default:
		if _, err := time.Parse("2006-01-02", q.FromDate); err != nil {
			return nil, nil, fmt.Errorf("payroll from date: %w", err)
		}
		to, err := time.Parse("2006-01-02", q.ToDate)
		if err != nil {
			return nil, nil, fmt.Errorf("payroll to date: %w", err)
		}
		params.Set("fromDate", q.FromDate+"-05:00")
		params.Set("toDate", to.AddDate(0, 0, 1).Format("2006-01-02")+"-05:00")
	}

	if q.LocationID != "" {
		params.Set("location", q.LocationID)
	}
	return params, window, nil
}

type timeWindow struct {
	from time.Time
	to   time.Time
}

// filter drops events outside the exact window. Prompt values are minute
// coarse, so edge rows can slip in. Events whose timestamp will not parse
// stay in; the normalizer counts those.
func (w timeWindow) filter(events []models.PayrollClockEvent) []models.PayrollClockEvent {
	kept := make([]models.PayrollClockEvent, 0, len(events))
	for _, ev := range events {
		at, err := normalize.ParseInstant(ev.DateTime)
		if err != nil {
			kept = append(kept, ev)
			continue
		}
		if at.Before(w.from) || at.After(w.to) {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

type reportResponse struct {
	Entries []reportEntry `xml:"Report_Entry"`
}

type reportEntry struct {
	ReferenceID string    `xml:"referenceID"`
	Worker      reportRef `xml:"Worker"`
	EventType   string    `xml:"EventType"`
	DateTime    string    `xml:"DateTime"`
	Position    reportRef `xml:"Position"`
	Location    reportRef `xml:"Location"`
}

// reportRef is a reference element: a Descriptor attribute plus typed ID
// children.
type reportRef struct {
	Descriptor string     `xml:"Descriptor,attr"`
	IDs        []reportID `xml:"ID"`
}

type reportID struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

func (r reportRef) id(typ string) string {
	for _, id := range r.IDs {
		if id.Type == typ {
			return id.Value
		}
	}
	return ""
}

func parseReport(body []byte) ([]models.PayrollClockEvent, error) {
	var doc reportResponse
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse clock event report: %w", err)
	}

	events := make([]models.PayrollClockEvent, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		events = append(events, models.PayrollClockEvent{
			ReferenceID:  entry.ReferenceID,
			EmployeeID:   entry.Worker.id("Employee_ID"),
			EmployeeName: entry.Worker.Descriptor,
			EventType:    entry.EventType,
			DateTime:     entry.DateTime,
			PositionID:   entry.Position.id("Position_ID"),
			PositionName: entry.Position.Descriptor,
			LocationID:   entry.Location.id("Location_ID"),
			LocationName: entry.Location.Descriptor,
		})
	}
	return events, nil
}
