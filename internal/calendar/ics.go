// Package calendar serializes canonical games into an iCalendar document.
//
// The base VCALENDAR/VEVENT structure comes from the golang-ical library,
// which handles property text escaping and line folding but serializes with
// bare LF endings and emits event times only in absolute UTC form. The
// emitter therefore post-processes the serialized text: it normalizes line
// endings to CRLF, injects one VTIMEZONE block after the calendar header,
// rewrites each DTSTART/DTEND from UTC form to TZID-relative form, and
// inserts a display VALARM inside every VEVENT.
package calendar

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/pfrederiksen/soccer-cal/internal/config"
	"github.com/pfrederiksen/soccer-cal/internal/game"
)

const (
	utcTimeFormat   = "20060102T150405Z"
	localTimeFormat = "20060102T150405"
)

// Emitter turns games into calendar documents. Apart from the DTSTAMP
// clock read, output depends only on the game sequence and configuration.
type Emitter struct {
	cfg *config.Config
	loc *time.Location
}

// NewEmitter creates an emitter for the configured venue time zone.
func NewEmitter(cfg *config.Config) (*Emitter, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Emitter{cfg: cfg, loc: loc}, nil
}

// Emit serializes games into an iCalendar document. Zero games produce a
// valid calendar with header, time zone definition, and footer only.
func (e *Emitter) Emit(games []*game.Game) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.cfg.ProductID)
	cal.SetCalscale("GREGORIAN")

	type timeRewrite struct {
		utcStart, localStart string
		utcEnd, localEnd     string
	}
	rewrites := make([]timeRewrite, 0, len(games))

	for _, g := range games {
		end := g.Start.Add(e.cfg.GameDuration())

		ev := cal.AddEvent(eventUID(g))
		ev.SetDtStampTime(time.Now())
		ev.SetStartAt(g.Start)
		ev.SetEndAt(end)
		ev.SetSummary(e.summary(g))
		ev.SetLocation(e.cfg.VenueAddress)
		ev.SetDescription(e.description(g))

		rewrites = append(rewrites, timeRewrite{
			utcStart:   g.Start.UTC().Format(utcTimeFormat),
			localStart: g.Start.In(e.loc).Format(localTimeFormat),
			utcEnd:     end.UTC().Format(utcTimeFormat),
			localEnd:   end.In(e.loc).Format(localTimeFormat),
		})
	}

	// The library serializes with bare LF; RFC 5545 requires CRLF, and the
	// injection passes below match on it.
	out := cal.Serialize()
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\n", "\r\n")
	out = e.injectTimezone(out)
	for _, r := range rewrites {
		out = strings.Replace(out,
			"DTSTART:"+r.utcStart,
			"DTSTART;TZID="+e.cfg.Timezone+":"+r.localStart, 1)
		out = strings.Replace(out,
			"DTEND:"+r.utcEnd,
			"DTEND;TZID="+e.cfg.Timezone+":"+r.localEnd, 1)
	}
	out = e.injectAlarms(out)
	return out
}

func (e *Emitter) summary(g *game.Game) string {
	matchup := fmt.Sprintf("%s vs %s", g.HomeTeam, g.AwayTeam)
	if e.isSpecial(g) {
		return e.cfg.SpecialSummaryTag + matchup
	}
	return matchup
}

func (e *Emitter) description(g *game.Game) string {
	desc := fmt.Sprintf("Soccer game at %s\nField %s\n%s vs %s",
		e.cfg.VenueName, g.Field, g.HomeTeam, g.AwayTeam)
	if e.isSpecial(g) {
		desc += "\n" + e.cfg.SpecialDescription
	}
	return desc
}

func (e *Emitter) isSpecial(g *game.Game) bool {
	return e.cfg.IsSpecialTeam(g.HomeTeam) || e.cfg.IsSpecialTeam(g.AwayTeam)
}

// injectTimezone inserts the VTIMEZONE definition between the calendar
// header and the first event.
func (e *Emitter) injectTimezone(doc string) string {
	block := vtimezoneBlock(e.cfg.Timezone)
	idx := strings.Index(doc, "BEGIN:VEVENT")
	if idx == -1 {
		idx = strings.Index(doc, "END:VCALENDAR")
	}
	if idx == -1 {
		return doc + block
	}
	return doc[:idx] + block + doc[idx:]
}

// injectAlarms appends the reminder alarm to every event.
func (e *Emitter) injectAlarms(doc string) string {
	alarm := strings.Join([]string{
		"BEGIN:VALARM",
		"ACTION:DISPLAY",
		"DESCRIPTION:" + escapeText(e.cfg.ReminderText),
		fmt.Sprintf("TRIGGER:-PT%dM", e.cfg.ReminderLeadMinutes),
		"END:VALARM",
	}, "\r\n") + "\r\n"
	return strings.ReplaceAll(doc, "END:VEVENT\r\n", alarm+"END:VEVENT\r\n")
}

// vtimezoneBlock defines the US Mountain standard/daylight transition rules
// under the given TZID.
func vtimezoneBlock(tzid string) string {
	return strings.Join([]string{
		"BEGIN:VTIMEZONE",
		"TZID:" + tzid,
		"X-LIC-LOCATION:" + tzid,
		"BEGIN:DAYLIGHT",
		"TZOFFSETFROM:-0700",
		"TZOFFSETTO:-0600",
		"TZNAME:MDT",
		"DTSTART:19700308T020000",
		"RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=2SU",
		"END:DAYLIGHT",
		"BEGIN:STANDARD",
		"TZOFFSETFROM:-0600",
		"TZOFFSETTO:-0700",
		"TZNAME:MST",
		"DTSTART:19701101T020000",
		"RRULE:FREQ=YEARLY;BYMONTH=11;BYDAY=1SU",
		"END:STANDARD",
		"END:VTIMEZONE",
	}, "\r\n") + "\r\n"
}

// eventUID derives a stable VEVENT UID from the game id.
func eventUID(g *game.Game) string {
	h := sha1.New()
	h.Write([]byte(g.ID))
	return fmt.Sprintf("%x@soccer-cal", h.Sum(nil))
}

// escapeText escapes special characters per RFC 5545. Only the
// hand-assembled alarm line needs it; property text set through the library
// is escaped by its serializer.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
