package source

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/soccer-cal/internal/errs"
	"github.com/pfrederiksen/soccer-cal/internal/fetch"
	"github.com/pfrederiksen/soccer-cal/internal/game"
	"github.com/pfrederiksen/soccer-cal/internal/logger"
)

// gameRowCells is the exact cell count of a schedule row. Rows with any
// other shape are navigation or header rows, not games.
const gameRowCells = 5

var seasonPattern = regexp.MustCompile(`Season:(\d+)`)

// MarkupSource scrapes the team schedule page.
type MarkupSource struct {
	client  *fetch.Client
	baseURL string
	log     *logger.Logger
}

// NewMarkupSource creates a markup source reading from baseURL/<teamID>.
func NewMarkupSource(client *fetch.Client, baseURL string, log *logger.Logger) *MarkupSource {
	return &MarkupSource{client: client, baseURL: baseURL, log: log}
}

// Fetch retrieves and parses the schedule page for teamID.
func (s *MarkupSource) Fetch(ctx context.Context, teamID string) (*Result, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, teamID)

	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, errs.Wrap(errs.Fetch, "fetching schedule page", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(errs.Data, "parsing schedule page", err)
	}

	result := &Result{
		Season: s.extractSeason(doc),
	}

	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != gameRowCells {
			return
		}

		dateText := strings.TrimSpace(cells.Eq(0).Text())
		fieldLabel := strings.TrimSpace(cells.Eq(1).Text())
		homeTeam := strings.TrimSpace(cells.Eq(2).Find("span").First().Text())
		awayTeam := strings.TrimSpace(cells.Eq(3).Find("span").First().Text())

		// The field cell reads like "Field 3"; only the number matters.
		tokens := strings.Fields(fieldLabel)
		if len(tokens) < 2 {
			s.log.Warn("Skipping row with malformed field label", logger.Fields{
				"team_id": teamID,
				"field":   fieldLabel,
			})
			return
		}

		if dateText == "" || homeTeam == "" || awayTeam == "" {
			s.log.Warn("Skipping row with missing values", logger.Fields{
				"team_id": teamID,
				"date":    dateText,
				"home":    homeTeam,
				"away":    awayTeam,
			})
			return
		}

		result.Games = append(result.Games, game.RawGame{
			DateTime: dateText,
			Field:    tokens[1],
			HomeTeam: homeTeam,
			AwayTeam: awayTeam,
		})
	})

	if len(result.Games) == 0 {
		return nil, errs.Newf(errs.NoGamesFound, "no games found for team %s", teamID)
	}

	return result, nil
}

// extractSeason reads the season number from the text following the team
// heading. Absence is not an error; the season is simply unknown.
func (s *MarkupSource) extractSeason(doc *goquery.Document) string {
	header := doc.Find("h4.text-md-40-24").First()
	if header.Length() == 0 {
		return SeasonUnknown
	}

	text := strings.TrimSpace(header.Next().Text())
	if matches := seasonPattern.FindStringSubmatch(text); matches != nil {
		return matches[1]
	}
	return SeasonUnknown
}
