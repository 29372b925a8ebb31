// Package resolve assigns concrete start instants to raw schedule rows and
// filters out games that have already been played.
//
// The markup source never encodes a year, so the year is inferred from the
// schedule's own internal consistency: a season fits inside a bounded
// window, and a first game more than a week stale means the schedule
// belongs to next year's season. The 7-day and 63-day constants come from
// empirical tuning against the real source; do not adjust them without new
// evidence.
package resolve

import (
	"strings"
	"time"

	"github.com/pfrederiksen/soccer-cal/internal/errs"
	"github.com/pfrederiksen/soccer-cal/internal/game"
	"github.com/pfrederiksen/soccer-cal/internal/logger"
)

// MarkupLayout matches schedule rows like "Mon 6/2 6:30 PM".
const MarkupLayout = "Mon 1/2 3:04 PM"

const (
	// staleAfter is how far in the past the season's first game may fall
	// before the whole schedule is rolled forward one year.
	staleAfter = 7 * 24 * time.Hour
	// maxSeasonSpan bounds the first-to-last game window. A same-year
	// heuristic cannot be trusted beyond it.
	maxSeasonSpan = 63 * 24 * time.Hour
	// referenceYear gives rows a common leap-safe year for calendar
	// ordering before the real year is known.
	referenceYear = 2000
)

// Resolved is a raw row stamped with its concrete start instant.
type Resolved struct {
	Raw         game.RawGame
	Start       time.Time
	DisplayDate string
}

// Engine resolves row dates against a fixed "now" in the venue time zone.
type Engine struct {
	loc   *time.Location
	fixed *time.Location
	log   *logger.Logger

	// Now is the clock used for year inference and future filtering.
	// Overridable for tests.
	Now func() time.Time
}

// NewEngine creates an engine for the given venue location. fixed is the
// fixed-offset zone applied to Z-suffixed absolute timestamps.
func NewEngine(loc, fixed *time.Location, log *logger.Logger) *Engine {
	return &Engine{loc: loc, fixed: fixed, log: log, Now: time.Now}
}

// Resolve stamps every row with a concrete start instant and drops rows in
// the past, preserving source order. Rows with absolute dates only need
// timezone conversion; rows without need year inference.
func (e *Engine) Resolve(rows []game.RawGame, absoluteDates bool) ([]Resolved, error) {
	if absoluteDates {
		return e.resolveAbsolute(rows), nil
	}
	return e.resolveSeason(rows)
}

func (e *Engine) resolveAbsolute(rows []game.RawGame) []Resolved {
	now := e.Now()

	resolved := make([]Resolved, 0, len(rows))
	for _, row := range rows {
		t, err := time.Parse(time.RFC3339, row.DateTime)
		if err != nil {
			e.log.Warn("Skipping row with unparseable timestamp", logger.Fields{
				"timestamp": row.DateTime,
			})
			continue
		}

		// The upstream suffixes venue-local times with Z. Re-express them at
		// the fixed Mountain Standard offset instead of trusting daylight
		// rules on a timestamp that was never really UTC.
		if strings.HasSuffix(row.DateTime, "Z") {
			t = t.In(e.fixed)
		} else {
			t = t.In(e.loc)
		}

		if t.Before(now) {
			continue
		}
		resolved = append(resolved, Resolved{
			Raw:         row,
			Start:       t,
			DisplayDate: t.Format(MarkupLayout),
		})
	}
	return resolved
}

func (e *Engine) resolveSeason(rows []game.RawGame) ([]Resolved, error) {
	now := e.Now().In(e.loc)

	type parsedRow struct {
		raw game.RawGame
		ref time.Time
	}

	parsed := make([]parsedRow, 0, len(rows))
	for _, row := range rows {
		t, err := time.Parse(MarkupLayout, row.DateTime)
		if err != nil {
			e.log.Warn("Skipping row with unparseable date", logger.Fields{
				"date": row.DateTime,
			})
			continue
		}
		ref := time.Date(referenceYear, t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, e.loc)
		parsed = append(parsed, parsedRow{raw: row, ref: ref})
	}
	if len(parsed) == 0 {
		return nil, nil
	}

	// Season bounds in calendar order, independent of the real year.
	first, last := parsed[0].ref, parsed[0].ref
	for _, p := range parsed[1:] {
		if p.ref.Before(first) {
			first = p.ref
		}
		if p.ref.After(last) {
			last = p.ref
		}
	}

	year := now.Year()
	firstGame := time.Date(year, first.Month(), first.Day(), first.Hour(), first.Minute(), 0, 0, e.loc)
	if now.Sub(firstGame) > staleAfter {
		// The schedule must belong to next year's season, not one that
		// already elapsed.
		year++
	}

	if span := last.Sub(first); span > maxSeasonSpan {
		return nil, errs.Newf(errs.InvalidSchedule,
			"season spans %d days, beyond the %d-day window the year heuristic can trust",
			int(span.Hours()/24), int(maxSeasonSpan.Hours()/24))
	}

	resolved := make([]Resolved, 0, len(parsed))
	for _, p := range parsed {
		start := time.Date(year, p.ref.Month(), p.ref.Day(), p.ref.Hour(), p.ref.Minute(), 0, 0, e.loc)
		if start.Before(now) {
			continue
		}
		resolved = append(resolved, Resolved{
			Raw:         p.raw,
			Start:       start,
			DisplayDate: p.raw.DateTime,
		})
	}
	return resolved, nil
}
