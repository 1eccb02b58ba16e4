// Package reconciliation orchestrates one run: fetch both punch feeds,
// normalize, pair, match, aggregate, and publish the result bundle.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"timecard-reconciliation-backend/internal/metrics"
	"timecard-reconciliation-backend/internal/models"
	"timecard-reconciliation-backend/internal/report"
	"timecard-reconciliation-backend/internal/services/aggregate"
	"timecard-reconciliation-backend/internal/services/anomaly"
	"timecard-reconciliation-backend/internal/services/matching"
	"timecard-reconciliation-backend/internal/services/normalize"
	"timecard-reconciliation-backend/internal/services/pairing"
)

// POSQuery selects the timecard window pulled from the point-of-sale side.
type POSQuery struct {
	FromDate string
	ToDate   string
	VenueID  string
}

// PayrollQuery selects the clock events pulled from the HR side. Either the
// date window or a single clock event id is set; LocationID narrows a window
// to one location.
type PayrollQuery struct {
	FromDate     string
	ToDate       string
	ClockEventID string
	LocationID   string
}

// POSGateway pulls venue-stamped timecards from the point-of-sale system.
type POSGateway interface {
	FetchTimecards(ctx context.Context, q POSQuery) ([]models.POSTimecard, error)
}

// PayrollGateway pulls raw clock events from the HR system.
type PayrollGateway interface {
	FetchClockEvents(ctx context.Context, q PayrollQuery) ([]models.PayrollClockEvent, error)
}

// Notifier pushes the run summary to a chat channel.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Mailer emails the run summary to the configured recipients.
type Mailer interface {
	Send(ctx context.Context, subject, body string) error
}

// ReportSink archives the full rendered report and returns its location.
type ReportSink interface {
	Write(name string, contents []byte) (string, error)
}

// Query describes one reconciliation run. BusinessDayClosed tells the odd
// punch detector whether an odd count can still resolve itself; callers set
// it, the pipeline never consults a clock. IncludeAllEmployees keeps payroll
// events for employees the POS feed never saw; by default those rows are
// dropped before pairing. AllowPartialSources turns a failed feed fetch into
// an empty feed instead of a failed run.
type Query struct {
	FromDate            string
	ToDate              string
	VenueID             string
	ClockEventID        string
	RunType             string
	BusinessDayClosed   bool
	IncludeAllEmployees bool
	AllowPartialSources bool
}

type Service struct {
	pos      POSGateway
	payroll  PayrollGateway
	notifier Notifier
	mail     Mailer
	reports  ReportSink
	logger   *slog.Logger
	recorder *metrics.Recorder
}

func NewService(
	pos POSGateway,
	payroll PayrollGateway,
	notifier Notifier,
	mail Mailer,
	reports ReportSink,
	logger *slog.Logger,
	recorder *metrics.Recorder,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pos:      pos,
		payroll:  payroll,
		notifier: notifier,
		mail:     mail,
		reports:  reports,
		logger:   logger,
		recorder: recorder,
	}
}

// Run executes the full pipeline and returns the result bundle. Malformed
// rows never abort a run; they degrade into the diagnostics counts.
func (s *Service) Run(ctx context.Context, q Query) (*models.RunResult, error) {
	if (q.FromDate == "" || q.ToDate == "") && q.ClockEventID == "" {
		return nil, errors.New("reconciliation: date range or clock event id required")
	}
	if q.RunType == "" {
		q.RunType = "date_range"
	}

	started := time.Now()
	var diag models.Diagnostics
	s.logger.Info("reconciliation run starting",
		"run_type", q.RunType,
		"from", q.FromDate,
		"to", q.ToDate,
		"venue", q.VenueID,
		"clock_event_id", q.ClockEventID,
	)
	s.notify(ctx, startMessage(q), &diag)

	// 1. Fetch both feeds concurrently. With AllowPartialSources a dead
	// feed degrades to empty instead of failing the whole run.
	var cards []models.POSTimecard
	var rawEvents []models.PayrollClockEvent
	var posErr, payrollErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cards, posErr = s.pos.FetchTimecards(gctx, POSQuery{
			FromDate: q.FromDate, ToDate: q.ToDate, VenueID: q.VenueID,
		})
		if posErr != nil && !q.AllowPartialSources {
			return fmt.Errorf("fetch pos timecards: %w", posErr)
		}
		return nil
	})
	g.Go(func() error {
		rawEvents, payrollErr = s.payroll.FetchClockEvents(gctx, PayrollQuery{
			FromDate: q.FromDate, ToDate: q.ToDate,
			ClockEventID: q.ClockEventID, LocationID: q.VenueID,
		})
		if payrollErr != nil && !q.AllowPartialSources {
			return fmt.Errorf("fetch payroll events: %w", payrollErr)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.notify(ctx, "Timecard reconciliation failed: "+err.Error(), &diag)
		s.recorder.RunObserved(q.RunType, "error", time.Since(started).Seconds())
		return nil, err
	}
	if posErr != nil {
		cards = nil
		diag.SourceFetchFailures++
		s.recorder.FeedFailure("pos")
		s.logger.Error("pos feed degraded to empty", "error", posErr)
	}
	if payrollErr != nil {
		rawEvents = nil
		diag.SourceFetchFailures++
		s.recorder.FeedFailure("payroll")
		s.logger.Error("payroll feed degraded to empty", "error", payrollErr)
	}

	// 2. Normalize both feeds into canonical punch events
	posShifts, posEvents := normalize.POSBatch(cards, &diag)
	payrollEvents := normalize.PayrollBatch(rawEvents, &diag)

	// 3. Drop payroll rows outside the window, then rows for employees the
	// POS feed never saw. The payroll report can return rows past the
	// prompt dates, and it covers workers outside the POS query scope.
	payrollEvents = filterWindow(payrollEvents, q.FromDate, q.ToDate, &diag)
	if !q.IncludeAllEmployees {
		payrollEvents = filterOffRoster(payrollEvents, posEvents, &diag)
	}

	// 4. Venue directory from stamped POS timecards, then rewrite payroll
	// location codes to the site keys the report uses
	venues := models.NewVenueDirectory()
	for _, card := range cards {
		venues.Add(card.VenueSiteID, card.LocationCode, card.VenueName)
	}
	for i := range payrollEvents {
		if mapped := venues.ReportKey(payrollEvents[i].Venue); mapped != payrollEvents[i].Venue {
			payrollEvents[i].Venue = mapped
			diag.VenueKeyRewrites++
		}
	}

	// Payroll rows with no location at all inherit the venue their employee
	// punched at on the POS side. A location the feed did carry is never
	// overwritten.
	byEmployee := venueByEmployee(posEvents)
	for i := range payrollEvents {
		if payrollEvents[i].Venue != models.VenueUnknown {
			continue
		}
		if ref, ok := byEmployee[payrollEvents[i].EmployeeID]; ok {
			payrollEvents[i].Venue = ref.key
			payrollEvents[i].VenueName = ref.name
			diag.VenueFallbacksApplied++
		}
	}

	// 5. Pair payroll punches into shifts
	paired := pairing.Pair(payrollEvents)
	diag.Merge(paired.Diagnostics)

	// 6. Odd punch counts, only once the business day has closed
	oddPunches := anomaly.Detect(payrollEvents, q.BusinessDayClosed)

	// 7. Aggregate both sides per venue and per employee
	posVenueStats := aggregate.Shifts(posShifts, aggregate.ShiftVenueKey, true)
	posEmployeeStats := aggregate.Shifts(posShifts, aggregate.ShiftEmployeeKey, true)
	payrollVenueStats := aggregate.Events(payrollEvents, aggregate.VenueKey)
	payrollEmployeeStats := aggregate.Events(payrollEvents, aggregate.EmployeeKey)

	// Raw payroll events carry no hours; paired shift hours stand in
	overlayHours(payrollVenueStats, aggregate.Shifts(paired.Shifts, aggregate.ShiftVenueKey, false))
	overlayHours(payrollEmployeeStats, aggregate.Shifts(paired.Shifts, aggregate.ShiftEmployeeKey, false))

	// 8. Match punches one-to-one across the two sides
	match := matching.Match(posEvents, payrollEvents, &diag)

	// 9. Group the POS punches payroll never saw, keyed for reprocessing
	missingByVenue := groupByVenue(match.MissingInPayroll)

	// 10. Assemble the run bundle
	result := &models.RunResult{
		RunID:        uuid.New(),
		RunType:      q.RunType,
		BusinessDate: businessDate(q),
		FromDate:     q.FromDate,
		ToDate:       q.ToDate,
		GeneratedAt:  time.Now().UTC(),

		Match:          match,
		MissingByVenue: missingByVenue,
		OddPunches:     oddPunches,

		POSVenueStats:        posVenueStats,
		PayrollVenueStats:    payrollVenueStats,
		POSEmployeeStats:     posEmployeeStats,
		PayrollEmployeeStats: payrollEmployeeStats,
		VenueNames:           venueNames(venues, posVenueStats, payrollVenueStats),

		POSTimecardCount:  len(cards),
		PayrollEventCount: len(rawEvents),
		PairedShiftCount:  len(paired.Shifts),

		Totals:      totals(posVenueStats, payrollVenueStats),
		Diagnostics: diag,
	}

	// 11. Publish: archive the report, notify the channel
	s.publish(ctx, result)

	s.recorder.PunchesIngested("pos", result.Totals.POSPunches)
	s.recorder.PunchesIngested("payroll", result.Totals.PayrollPunches)
	s.recorder.MatchedPunches(len(match.Matched))
	s.recorder.MissingPunches("missing_in_payroll", len(match.MissingInPayroll))
	s.recorder.MissingPunches("missing_in_pos", len(match.MissingInPOS))
	s.recorder.OddPunchEmployees(result.OddPunchEmployees())
	s.recorder.SkipsObserved(result.Diagnostics)
	s.recorder.RunObserved(q.RunType, "ok", time.Since(started).Seconds())

	s.logger.Info("reconciliation run finished",
		"run_id", result.RunID,
		"matched", len(match.Matched),
		"missing_in_payroll", len(match.MissingInPayroll),
		"missing_in_pos", len(match.MissingInPOS),
		"paired_shifts", len(paired.Shifts),
		"odd_punch_employees", result.OddPunchEmployees(),
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
	)

	return result, nil
}

// publish renders and distributes the finished run. Failures here are
// logged and counted but never fail the run itself.
func (s *Service) publish(ctx context.Context, result *models.RunResult) {
	if s.reports != nil {
		name := report.FileName(result)
		path, err := s.reports.Write(name, []byte(report.Render(result)))
		if err != nil {
			s.logger.Error("report archive failed", "name", name, "error", err)
		} else {
			result.ReportPath = path
		}
	}

	s.notify(ctx, report.Summary(result), &result.Diagnostics)

	if s.mail != nil {
		if err := s.mail.Send(ctx, report.EmailSubject(result), report.Summary(result)); err != nil {
			s.logger.Error("summary email failed", "error", err)
		}
	}
}

// notify is best effort: failures are logged and counted, never returned.
func (s *Service) notify(ctx context.Context, text string, diag *models.Diagnostics) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		diag.NotifyFailures++
		s.logger.Error("run notification failed", "error", err)
	}
}

func startMessage(q Query) string {
	msg := fmt.Sprintf("Starting %s reconciliation", q.RunType)
	if q.FromDate != "" && q.ToDate != "" {
		msg += fmt.Sprintf(" (%s to %s)", q.FromDate, q.ToDate)
	}
	if q.VenueID != "" {
		msg += " for venue " + q.VenueID
	}
	if q.ClockEventID != "" {
		msg += " for event " + q.ClockEventID
	}
	return msg
}

// filterWindow keeps payroll events whose business date falls inside
// [from, to]. Events with no derivable business date stay in; downstream
// stages account for them.
func filterWindow(events []models.PunchEvent, from, to string, diag *models.Diagnostics) []models.PunchEvent {
	if from == "" || to == "" {
		return events
	}
	kept := make([]models.PunchEvent, 0, len(events))
	for _, ev := range events {
		if ev.BusinessDate != "" && (ev.BusinessDate < from || ev.BusinessDate > to) {
			diag.PayrollEventsFiltered++
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

// filterOffRoster drops payroll events for employees the POS feed never
// saw; those are manual payroll entries or workers outside the POS query
// scope, and matching them would only inflate the missing counts. An empty
// POS feed filters nothing.
func filterOffRoster(events, posEvents []models.PunchEvent, diag *models.Diagnostics) []models.PunchEvent {
	roster := make(map[string]struct{}, len(posEvents))
	for _, ev := range posEvents {
		if ev.EmployeeID != "" {
			roster[ev.EmployeeID] = struct{}{}
		}
	}
	if len(roster) == 0 {
		return events
	}
	kept := make([]models.PunchEvent, 0, len(events))
	for _, ev := range events {
		if _, ok := roster[ev.EmployeeID]; !ok {
			diag.PayrollEventsOffRoster++
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

type venueRef struct {
	key  string
	name string
}

// venueByEmployee maps employees to the venue stamped on their POS punches.
// An employee who punched at several venues keeps the last one in feed order.
func venueByEmployee(events []models.PunchEvent) map[string]venueRef {
	refs := make(map[string]venueRef, len(events))
	for _, ev := range events {
		if ev.EmployeeID == "" || ev.Venue == "" || ev.Venue == models.VenueUnknown {
			continue
		}
		refs[ev.EmployeeID] = venueRef{key: ev.Venue, name: ev.VenueName}
	}
	return refs
}

// overlayHours replaces the hour totals in base with the paired-shift hours
// for every key the shifts cover.
func overlayHours(base, shifts map[string]models.Stats) {
	for key, shiftStats := range shifts {
		stats := base[key]
		stats.Hours = shiftStats.Hours
		base[key] = stats
	}
}

func groupByVenue(events []models.PunchEvent) map[string][]models.PunchEvent {
	if len(events) == 0 {
		return nil
	}
	grouped := make(map[string][]models.PunchEvent)
	for _, ev := range events {
		key := ev.Venue
		if key == "" {
			key = "Unknown"
		}
		grouped[key] = append(grouped[key], ev)
	}
	return grouped
}

func venueNames(venues *models.VenueDirectory, statMaps ...map[string]models.Stats) map[string]string {
	names := make(map[string]string)
	for _, stats := range statMaps {
		for key := range stats {
			if _, ok := names[key]; !ok {
				names[key] = venues.DisplayName(key)
			}
		}
	}
	return names
}

func totals(pos, payroll map[string]models.Stats) models.Totals {
	var t models.Totals
	for _, stats := range pos {
		t.POSPunches += stats.Punches
		t.POSHours += stats.Hours
	}
	for _, stats := range payroll {
		t.PayrollPunches += stats.Count
		t.PayrollHours += stats.Hours
	}
	t.POSHours = round2(t.POSHours)
	t.PayrollHours = round2(t.PayrollHours)
	t.PunchDifference = t.POSPunches - t.PayrollPunches
	t.HoursDifference = round2(t.POSHours - t.PayrollHours)
	return t
}

// businessDate labels single-day runs; ranged runs carry no single label.
func businessDate(q Query) string {
	if q.FromDate != "" && q.FromDate == q.ToDate {
		return q.FromDate
	}
	return ""
}

func round2(h float64) float64 {
	return math.Round(h*100) / 100
}
