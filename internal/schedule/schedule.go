// Package schedule orchestrates the fetch-resolve-normalize pipeline for a
// batch of team ids and exposes the calendar generation entry point.
package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/pfrederiksen/soccer-cal/internal/calendar"
	"github.com/pfrederiksen/soccer-cal/internal/config"
	"github.com/pfrederiksen/soccer-cal/internal/errs"
	"github.com/pfrederiksen/soccer-cal/internal/game"
	"github.com/pfrederiksen/soccer-cal/internal/logger"
	"github.com/pfrederiksen/soccer-cal/internal/resolve"
	"github.com/pfrederiksen/soccer-cal/internal/source"
	"github.com/pfrederiksen/soccer-cal/internal/teamid"
)

// UnknownTeamName is assigned when no team name can be resolved.
const UnknownTeamName = "Unknown Team"

// Failure records why one team id produced no games.
type Failure struct {
	TeamID string `json:"team_id"`
	Reason string `json:"reason"`
}

// Result is the outcome of one batch. Batches always return partial
// results; a single team's failure never aborts its siblings.
type Result struct {
	Games          []*game.Game `json:"games"`
	FailedTeamIDs  []Failure    `json:"failed_team_ids"`
	InvalidTeamIDs []Failure    `json:"invalid_team_ids"`
}

// Service runs the schedule pipeline.
type Service struct {
	cfg     *config.Config
	src     source.ScheduleSource
	engine  *resolve.Engine
	emitter *calendar.Emitter
	log     *logger.Logger
}

// New creates a Service over the given source and resolution engine.
func New(cfg *config.Config, src source.ScheduleSource, engine *resolve.Engine, log *logger.Logger) (*Service, error) {
	emitter, err := calendar.NewEmitter(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, src: src, engine: engine, emitter: emitter, log: log}, nil
}

// ProcessBatch fetches and normalizes the schedule for every team id,
// sequentially, one fetch at a time. Duplicate and malformed ids land in
// InvalidTeamIDs, per-team fetch failures in FailedTeamIDs, and the merged
// game list is sorted chronologically.
func (s *Service) ProcessBatch(ctx context.Context, teamIDs []string) *Result {
	result := &Result{
		Games:          []*game.Game{},
		FailedTeamIDs:  []Failure{},
		InvalidTeamIDs: []Failure{},
	}

	seen := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		if seen[id] {
			result.InvalidTeamIDs = append(result.InvalidTeamIDs, Failure{TeamID: id, Reason: "duplicate"})
			continue
		}
		seen[id] = true

		if err := teamid.Validate(id); err != nil {
			result.InvalidTeamIDs = append(result.InvalidTeamIDs, Failure{TeamID: id, Reason: err.Error()})
			continue
		}

		games, err := s.processTeam(ctx, id)
		if err != nil {
			s.log.Warn("Team schedule failed", logger.Fields{
				"team_id": id,
				"reason":  err.Error(),
			})
			result.FailedTeamIDs = append(result.FailedTeamIDs, Failure{TeamID: id, Reason: err.Error()})
			logger.IncrCounter("schedule.team_failed")
			continue
		}

		result.Games = append(result.Games, games...)
		logger.IncrCounter("schedule.team_processed")
	}

	sort.SliceStable(result.Games, func(i, j int) bool {
		return result.Games[i].Start.Before(result.Games[j].Start)
	})
	return result
}

// processTeam runs the pipeline for one team id.
func (s *Service) processTeam(ctx context.Context, id string) ([]*game.Game, error) {
	started := time.Now()

	res, err := s.src.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	resolved, err := s.engine.Resolve(res.Games, res.AbsoluteDates)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return nil, errs.Newf(errs.NoGamesFound, "no upcoming games for team %s", id)
	}

	teamName := res.TeamName
	if teamName == "" {
		teamName = majorityTeamName(resolved)
	}
	if teamName == "" {
		teamName = UnknownTeamName
	}

	games := make([]*game.Game, 0, len(resolved))
	for _, r := range resolved {
		g := game.Normalize(r.Raw, r.Start, r.DisplayDate, res.Season, id)
		g.TeamName = teamName
		games = append(games, g)
	}

	logger.RecordTiming("schedule.process_team", time.Since(started))
	s.log.Info("Processed team schedule", logger.Fields{
		"team_id": id,
		"season":  res.Season,
		"team":    teamName,
		"games":   len(games),
	})
	return games, nil
}

// GenerateCalendar serializes games into an iCalendar document. Zero games
// yield a valid empty calendar; rejecting an empty request is the caller's
// concern.
func (s *Service) GenerateCalendar(games []*game.Game) string {
	return s.emitter.Emit(games)
}

// GroupByTeam splits a merged game list back out by the queried team id,
// preserving order within each group.
func GroupByTeam(games []*game.Game) map[string][]*game.Game {
	grouped := make(map[string][]*game.Game)
	for _, g := range games {
		grouped[g.TeamID] = append(grouped[g.TeamID], g)
	}
	return grouped
}

// majorityTeamName picks the most frequent team name across the games,
// which is the queried team since it appears in every row. Ties break
// toward first appearance.
func majorityTeamName(rows []resolve.Resolved) string {
	counts := make(map[string]int)
	order := make([]string, 0)
	record := func(name string) {
		if name == "" {
			return
		}
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}
	for _, r := range rows {
		record(r.Raw.HomeTeam)
		record(r.Raw.AwayTeam)
	}

	best := ""
	for _, name := range order {
		if best == "" || counts[name] > counts[best] {
			best = name
		}
	}
	return best
}
