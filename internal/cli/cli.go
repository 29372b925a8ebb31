package cli

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/soccer-cal/internal/config"
	"github.com/pfrederiksen/soccer-cal/internal/fetch"
	"github.com/pfrederiksen/soccer-cal/internal/logger"
	"github.com/pfrederiksen/soccer-cal/internal/resolve"
	"github.com/pfrederiksen/soccer-cal/internal/schedule"
	"github.com/pfrederiksen/soccer-cal/internal/server"
	"github.com/pfrederiksen/soccer-cal/internal/source"
	"github.com/pfrederiksen/soccer-cal/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagSource  string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soccer-cal",
		Short: "Fetch indoor soccer schedules and turn them into calendar files",
		Long: `Fetches a team's game schedule from the league site and converts it
into an iCalendar (.ics) file with per-game reminders, or a JSON view for
display elsewhere.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file overriding the defaults")
	cmd.PersistentFlags().StringVar(&flagSource, "source", "markup", "Schedule source: markup or api")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newDownloadCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// buildService wires the pipeline from the flags and config file.
func buildService() (*schedule.Service, *config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}

	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	log := logger.New(level, os.Stderr)
	logger.SetDefault(log)

	client := fetch.NewClient(cfg.FetchTimeout(), cfg.FetchRetries)

	var src source.ScheduleSource
	switch flagSource {
	case "markup":
		src = source.NewMarkupSource(client, cfg.ScheduleBaseURL, log)
	case "api":
		src = source.NewAPISource(client, cfg.APIBaseURL, log)
	default:
		return nil, nil, fmt.Errorf("invalid source: %s (must be 'markup' or 'api')", flagSource)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	engine := resolve.NewEngine(loc, cfg.FixedZone(), log)

	svc, err := schedule.New(cfg, src, engine, log)
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(flagFormat)
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch TEAM_ID...",
		Short: "Fetch and print upcoming games for one or more teams",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			svc, _, err := buildService()
			if err != nil {
				return err
			}

			result := svc.ProcessBatch(cmd.Context(), args)
			return WriteOutput(os.Stdout, result, format)
		},
	}
}

func newDownloadCmd() *cobra.Command {
	var flagOut string

	cmd := &cobra.Command{
		Use:   "download TEAM_ID...",
		Short: "Fetch schedules and write one .ics calendar file per team",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := buildService()
			if err != nil {
				return err
			}

			store, err := storage.New(flagOut)
			if err != nil {
				return err
			}

			result := svc.ProcessBatch(cmd.Context(), args)

			written := make([]string, 0)
			for teamID, games := range schedule.GroupByTeam(result.Games) {
				doc := svc.GenerateCalendar(games)
				path, err := store.WriteCalendar(games[0].Season, games[0].TeamName, teamID, doc)
				if err != nil {
					result.FailedTeamIDs = append(result.FailedTeamIDs, schedule.Failure{
						TeamID: teamID,
						Reason: err.Error(),
					})
					continue
				}
				written = append(written, path)
			}

			return WriteDownloadSummary(os.Stdout, result, written)
		},
	}

	cmd.Flags().StringVar(&flagOut, "out", ".", "Directory to write .ics files into")
	return cmd
}

func newServeCmd() *cobra.Command {
	var flagAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := buildService()
			if err != nil {
				return err
			}
			return server.New(svc, logger.Default()).ListenAndServe(flagAddr)
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Listen address")
	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
