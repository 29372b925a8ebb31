package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pfrederiksen/soccer-cal/internal/schedule"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes a batch result in the specified format
func WriteOutput(w io.Writer, result *schedule.Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, result *schedule.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeText(w io.Writer, result *schedule.Result) error {
	grouped := schedule.GroupByTeam(result.Games)

	teamIDs := make([]string, 0, len(grouped))
	for id := range grouped {
		teamIDs = append(teamIDs, id)
	}
	sort.Strings(teamIDs)

	for _, id := range teamIDs {
		games := grouped[id]
		fmt.Fprintf(w, "\nTeam %s (%s, season %s) - %d games:\n",
			id, games[0].TeamName, games[0].Season, len(games))
		for _, g := range games {
			fmt.Fprintf(w, "  %s  Field %s  %s vs %s\n",
				g.DisplayDate, g.Field, g.HomeTeam, g.AwayTeam)
		}
	}

	if len(result.Games) == 0 {
		fmt.Fprintln(w, "No upcoming games found.")
	}

	writeFailures(w, "Invalid team ids", result.InvalidTeamIDs)
	writeFailures(w, "Failed team ids", result.FailedTeamIDs)

	fmt.Fprintf(w, "\nTotal: %d games across %d teams\n", len(result.Games), len(grouped))
	return nil
}

func writeFailures(w io.Writer, label string, failures []schedule.Failure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", label)
	for _, f := range failures {
		fmt.Fprintf(w, "  %s: %s\n", f.TeamID, f.Reason)
	}
}

// WriteDownloadSummary reports which calendar files were written and which
// team ids failed.
func WriteDownloadSummary(w io.Writer, result *schedule.Result, written []string) error {
	sort.Strings(written)
	for _, path := range written {
		fmt.Fprintf(w, "Calendar file '%s' created successfully!\n", path)
	}

	writeFailures(w, "Invalid team ids", result.InvalidTeamIDs)
	writeFailures(w, "Failed team ids", result.FailedTeamIDs)

	fmt.Fprintf(w, "\nProcessing complete! %d calendars written, %d teams failed.\n",
		len(written), len(result.FailedTeamIDs)+len(result.InvalidTeamIDs))
	return nil
}
