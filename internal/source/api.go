package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pfrederiksen/soccer-cal/internal/errs"
	"github.com/pfrederiksen/soccer-cal/internal/fetch"
	"github.com/pfrederiksen/soccer-cal/internal/game"
	"github.com/pfrederiksen/soccer-cal/internal/logger"
)

// APISource consumes the structured JSON schedule endpoint.
type APISource struct {
	client  *fetch.Client
	baseURL string
	log     *logger.Logger
}

// NewAPISource creates an API source reading from baseURL/<teamID>.
func NewAPISource(client *fetch.Client, baseURL string, log *logger.Logger) *APISource {
	return &APISource{client: client, baseURL: baseURL, log: log}
}

type apiDocument struct {
	Team  *apiTeam        `json:"team"`
	Games json.RawMessage `json:"games"`
}

type apiTeam struct {
	Season   apiString `json:"Season"`
	TeamName string    `json:"team_name"`
}

type apiGame struct {
	SchedGameDateTime string     `json:"SchedGameDateTime"`
	FieldName         string     `json:"field_name"`
	Field             string     `json:"Field"`
	HomeTeam          apiTeamRef `json:"home_team"`
	VisitorTeam       apiTeamRef `json:"visitor_team"`
	GameID            apiString  `json:"game_id"`
}

// apiString tolerates the upstream's loose typing: JSON numbers and strings
// both decode to their string form, anything else to empty.
type apiString string

func (s *apiString) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*s = apiString(n.String())
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = apiString(str)
		return nil
	}
	*s = ""
	return nil
}

type apiTeamRef struct {
	TeamName string `json:"team_name"`
}

// Fetch retrieves and decodes the JSON schedule for teamID.
func (s *APISource) Fetch(ctx context.Context, teamID string) (*Result, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, teamID)

	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, errs.Wrap(errs.Fetch, "fetching schedule", err)
	}

	var doc apiDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errs.Wrap(errs.Fetch, "decoding schedule response", err)
	}

	if doc.Team == nil {
		return nil, errs.Newf(errs.NotFound, "team %s not recognized by source", teamID)
	}

	if len(doc.Games) == 0 || string(doc.Games) == "null" {
		return nil, errs.New(errs.Data, "schedule document has no games list")
	}
	var records []apiGame
	if err := json.Unmarshal(doc.Games, &records); err != nil {
		return nil, errs.Wrap(errs.Data, "games list is not an array", err)
	}

	result := &Result{
		Season:        string(doc.Team.Season),
		TeamName:      doc.Team.TeamName,
		AbsoluteDates: true,
	}
	if result.Season == "" {
		result.Season = SeasonUnknown
	}

	for _, rec := range records {
		field := rec.FieldName
		if field == "" {
			field = rec.Field
		}
		if rec.SchedGameDateTime == "" || rec.HomeTeam.TeamName == "" || rec.VisitorTeam.TeamName == "" {
			s.log.Warn("Skipping malformed game record", logger.Fields{
				"team_id": teamID,
				"game_id": string(rec.GameID),
			})
			continue
		}

		result.Games = append(result.Games, game.RawGame{
			DateTime:     rec.SchedGameDateTime,
			Field:        field,
			HomeTeam:     rec.HomeTeam.TeamName,
			AwayTeam:     rec.VisitorTeam.TeamName,
			SourceGameID: string(rec.GameID),
		})
	}

	if len(result.Games) == 0 {
		return nil, errs.Newf(errs.NoGamesFound, "no games found for team %s", teamID)
	}

	return result, nil
}
