package schedule

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/soccer-cal/internal/config"
	"github.com/pfrederiksen/soccer-cal/internal/errs"
	"github.com/pfrederiksen/soccer-cal/internal/game"
	"github.com/pfrederiksen/soccer-cal/internal/logger"
	"github.com/pfrederiksen/soccer-cal/internal/resolve"
	"github.com/pfrederiksen/soccer-cal/internal/source"
)

// fakeSource serves canned results per team id.
type fakeSource struct {
	results map[string]*source.Result
	errors  map[string]error
}

func (f *fakeSource) Fetch(ctx context.Context, teamID string) (*source.Result, error) {
	if err, ok := f.errors[teamID]; ok {
		return nil, err
	}
	if res, ok := f.results[teamID]; ok {
		return res, nil
	}
	return nil, errs.Newf(errs.NotFound, "team %s not recognized by source", teamID)
}

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.FixedZone("MST", -7*3600))

func newTestService(t *testing.T, src source.ScheduleSource) *Service {
	t.Helper()
	cfg := config.Default()
	log := logger.New(logger.LevelError, io.Discard)

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	engine := resolve.NewEngine(loc, cfg.FixedZone(), log)
	engine.Now = func() time.Time { return testNow }

	svc, err := New(cfg, src, engine, log)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return svc
}

func markupRows(dates ...string) []game.RawGame {
	rows := make([]game.RawGame, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, game.RawGame{
			DateTime: d,
			Field:    "3",
			HomeTeam: "Blue Thunder",
			AwayTeam: "Red Dragons",
		})
	}
	return rows
}

func TestProcessBatch(t *testing.T) {
	src := &fakeSource{results: map[string]*source.Result{
		"123456": {
			Games:  markupRows("Mon 6/2 6:30 PM", "Wed 6/4 7:15 PM"),
			Season: "118",
		},
	}}
	svc := newTestService(t, src)

	result := svc.ProcessBatch(context.Background(), []string{"123456"})

	if len(result.Games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(result.Games))
	}
	if len(result.FailedTeamIDs) != 0 || len(result.InvalidTeamIDs) != 0 {
		t.Errorf("unexpected failures: %+v %+v", result.FailedTeamIDs, result.InvalidTeamIDs)
	}

	g := result.Games[0]
	if g.TeamID != "123456" {
		t.Errorf("TeamID = %q", g.TeamID)
	}
	if g.Season != "118" {
		t.Errorf("Season = %q", g.Season)
	}
	if g.Start.Year() != 2025 {
		t.Errorf("resolved year = %d, want 2025", g.Start.Year())
	}
}

func TestProcessBatch_MajorityTeamName(t *testing.T) {
	// Blue Thunder appears in every row, the opponents only once each, so
	// Blue Thunder is the queried team.
	src := &fakeSource{results: map[string]*source.Result{
		"123456": {
			Games: []game.RawGame{
				{DateTime: "Mon 6/2 6:30 PM", Field: "3", HomeTeam: "Blue Thunder", AwayTeam: "Red Dragons"},
				{DateTime: "Wed 6/4 7:15 PM", Field: "1", HomeTeam: "Galaxy FC", AwayTeam: "Blue Thunder"},
			},
			Season: "118",
		},
	}}
	svc := newTestService(t, src)

	result := svc.ProcessBatch(context.Background(), []string{"123456"})
	if len(result.Games) == 0 {
		t.Fatal("expected games")
	}
	for _, g := range result.Games {
		if g.TeamName != "Blue Thunder" {
			t.Errorf("TeamName = %q, want %q", g.TeamName, "Blue Thunder")
		}
	}
}

func TestProcessBatch_SourceTeamNameWins(t *testing.T) {
	src := &fakeSource{results: map[string]*source.Result{
		"123456": {
			Games:         []game.RawGame{{DateTime: "2025-07-04T19:00:00Z", Field: "1", HomeTeam: "A", AwayTeam: "B"}},
			Season:        "118",
			TeamName:      "Blue Thunder",
			AbsoluteDates: true,
		},
	}}
	svc := newTestService(t, src)

	result := svc.ProcessBatch(context.Background(), []string{"123456"})
	if len(result.Games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(result.Games))
	}
	if result.Games[0].TeamName != "Blue Thunder" {
		t.Errorf("TeamName = %q, want the source-reported name", result.Games[0].TeamName)
	}
}

func TestProcessBatch_DuplicateIDs(t *testing.T) {
	src := &fakeSource{results: map[string]*source.Result{
		"123456": {Games: markupRows("Mon 6/2 6:30 PM"), Season: "118"},
	}}
	svc := newTestService(t, src)

	result := svc.ProcessBatch(context.Background(), []string{"123456", "123456"})

	if len(result.Games) != 1 {
		t.Errorf("duplicate must not be fetched twice, got %d games", len(result.Games))
	}
	if len(result.InvalidTeamIDs) != 1 {
		t.Fatalf("expected 1 invalid id, got %d", len(result.InvalidTeamIDs))
	}
	if result.InvalidTeamIDs[0].Reason != "duplicate" {
		t.Errorf("Reason = %q, want %q", result.InvalidTeamIDs[0].Reason, "duplicate")
	}
}

func TestProcessBatch_InvalidID(t *testing.T) {
	svc := newTestService(t, &fakeSource{})

	result := svc.ProcessBatch(context.Background(), []string{"12ab56"})

	if len(result.InvalidTeamIDs) != 1 {
		t.Fatalf("expected 1 invalid id, got %d", len(result.InvalidTeamIDs))
	}
	if len(result.FailedTeamIDs) != 0 {
		t.Error("invalid ids must not reach the fetch stage")
	}
}

func TestProcessBatch_FailureIsolation(t *testing.T) {
	src := &fakeSource{
		results: map[string]*source.Result{
			"123456": {Games: markupRows("Mon 6/2 6:30 PM"), Season: "118"},
		},
		errors: map[string]error{
			"654321": errs.New(errs.Fetch, "fetching schedule page: request timed out"),
		},
	}
	svc := newTestService(t, src)

	result := svc.ProcessBatch(context.Background(), []string{"654321", "123456"})

	if len(result.Games) != 1 {
		t.Errorf("sibling team should still be processed, got %d games", len(result.Games))
	}
	if len(result.FailedTeamIDs) != 1 {
		t.Fatalf("expected 1 failed id, got %d", len(result.FailedTeamIDs))
	}
	if result.FailedTeamIDs[0].TeamID != "654321" {
		t.Errorf("failed id = %q", result.FailedTeamIDs[0].TeamID)
	}
}

func TestProcessBatch_ChronologicalMerge(t *testing.T) {
	src := &fakeSource{results: map[string]*source.Result{
		"111111": {Games: markupRows("Wed 6/4 7:15 PM"), Season: "118"},
		"222222": {Games: markupRows("Mon 6/2 6:30 PM", "Mon 6/9 6:30 PM"), Season: "118"},
	}}
	svc := newTestService(t, src)

	result := svc.ProcessBatch(context.Background(), []string{"111111", "222222"})

	if len(result.Games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(result.Games))
	}
	for i := 1; i < len(result.Games); i++ {
		if result.Games[i].Start.Before(result.Games[i-1].Start) {
			t.Errorf("games not in chronological order at index %d", i)
		}
	}
}

func TestProcessBatch_AllGamesInPast(t *testing.T) {
	src := &fakeSource{results: map[string]*source.Result{
		"123456": {
			Games:         []game.RawGame{{DateTime: "2025-05-01T19:00:00Z", Field: "1", HomeTeam: "A", AwayTeam: "B"}},
			Season:        "118",
			AbsoluteDates: true,
		},
	}}
	svc := newTestService(t, src)

	result := svc.ProcessBatch(context.Background(), []string{"123456"})

	if len(result.Games) != 0 {
		t.Errorf("expected no games, got %d", len(result.Games))
	}
	if len(result.FailedTeamIDs) != 1 {
		t.Fatalf("expected the team to be recorded as failed, got %+v", result.FailedTeamIDs)
	}
}

func TestGenerateCalendar(t *testing.T) {
	src := &fakeSource{results: map[string]*source.Result{
		"123456": {Games: markupRows("Mon 6/2 6:30 PM"), Season: "118"},
	}}
	svc := newTestService(t, src)

	result := svc.ProcessBatch(context.Background(), []string{"123456"})
	doc := svc.GenerateCalendar(result.Games)

	if !strings.Contains(doc, "BEGIN:VEVENT") {
		t.Error("calendar should contain the game event")
	}
	if !strings.Contains(doc, "SUMMARY:Blue Thunder vs Red Dragons") {
		t.Error("calendar summary should name the matchup")
	}
}

func TestGroupByTeam(t *testing.T) {
	games := []*game.Game{
		{ID: "a", TeamID: "111111"},
		{ID: "b", TeamID: "222222"},
		{ID: "c", TeamID: "111111"},
	}
	grouped := GroupByTeam(games)

	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}
	if len(grouped["111111"]) != 2 || grouped["111111"][0].ID != "a" {
		t.Errorf("group 111111 = %+v, want order preserved", grouped["111111"])
	}
}
