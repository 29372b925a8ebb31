// Package game defines the canonical schedule entry produced by the
// pipeline, independent of which source supplied it.
package game

import (
	"strings"
	"time"
)

// RawGame holds one schedule row as extracted from a source, before the
// year has been resolved. DateTime carries whatever date text the source
// provided: "Mon 6/2 6:30 PM" from the markup source, a full ISO timestamp
// from the API source.
type RawGame struct {
	DateTime     string
	Field        string
	HomeTeam     string
	AwayTeam     string
	SourceGameID string
}

// Game is the normalized, year-resolved schedule entry.
type Game struct {
	// ID is derived from season, display date, teams, and field. Consumers
	// use it for de-duplication on re-import, so the composition order and
	// delimiter are part of the contract.
	ID string `json:"id"`
	// SourceGameID is the upstream identifier when the API source supplies
	// one. It is kept separate from ID, never merged.
	SourceGameID string    `json:"source_game_id,omitempty"`
	Start        time.Time `json:"start"`
	DisplayDate  string    `json:"display_date"`
	Field        string    `json:"field"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	TeamID       string    `json:"team_id"`
	Season       string    `json:"season"`
	TeamName     string    `json:"team_name,omitempty"`
}

const idDelimiter = "_"

// DeriveID composes the stable game identifier. Same inputs always produce
// the same id.
func DeriveID(season, displayDate, homeTeam, awayTeam, field string) string {
	return strings.Join([]string{season, displayDate, homeTeam, awayTeam, field}, idDelimiter)
}

// Normalize builds a canonical Game from a raw row and its resolved start
// instant. Pure construction, no I/O.
func Normalize(raw RawGame, start time.Time, displayDate, season, teamID string) *Game {
	return &Game{
		ID:           DeriveID(season, displayDate, raw.HomeTeam, raw.AwayTeam, raw.Field),
		SourceGameID: raw.SourceGameID,
		Start:        start,
		DisplayDate:  displayDate,
		Field:        raw.Field,
		HomeTeam:     raw.HomeTeam,
		AwayTeam:     raw.AwayTeam,
		TeamID:       teamID,
		Season:       season,
	}
}
