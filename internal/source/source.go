// Package source fetches raw schedule rows for a team from an upstream
// provider. Two interchangeable strategies exist behind one contract: the
// markup source scrapes the public schedule page, the API source consumes
// the structured JSON endpoint. Downstream stages depend only on the
// ScheduleSource capability, never on a concrete strategy.
package source

import (
	"context"

	"github.com/pfrederiksen/soccer-cal/internal/game"
)

// SeasonUnknown is reported when the source document carries no season.
const SeasonUnknown = "Unknown"

// Result is the normalized output of one fetch.
type Result struct {
	Games  []game.RawGame
	Season string
	// TeamName is the queried team's name when the source reports it
	// directly. Empty for the markup source, which never names the team.
	TeamName string
	// AbsoluteDates reports whether row timestamps carry a full date with
	// year. When false, the rows need year inference downstream.
	AbsoluteDates bool
}

// ScheduleSource fetches the raw schedule for one team id.
type ScheduleSource interface {
	Fetch(ctx context.Context, teamID string) (*Result, error)
}
