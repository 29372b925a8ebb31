// Package server exposes the schedule pipeline over HTTP using the same
// action-routed request envelope the serverless deployment consumes.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pfrederiksen/soccer-cal/internal/logger"
	"github.com/pfrederiksen/soccer-cal/internal/schedule"
)

const (
	ActionFetch    = "fetch"
	ActionDownload = "download"
)

// Request is the inbound envelope.
type Request struct {
	Action  string   `json:"action"`
	TeamIDs []string `json:"team_ids"`
}

// CalendarEntry is one team's generated calendar in a download response.
type CalendarEntry struct {
	Season       string `json:"season"`
	Team         string `json:"team"`
	CalendarData string `json:"calendar_data"`
}

// Response is the outbound envelope. Calendars is present only for the
// download action.
type Response struct {
	*schedule.Result
	Calendars map[string]CalendarEntry `json:"calendars,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server routes envelope requests to the schedule service.
type Server struct {
	svc *schedule.Service
	log *logger.Logger
}

// New creates a Server over the given service.
func New(svc *schedule.Service, log *logger.Logger) *Server {
	return &Server{svc: svc, log: log}
}

// Handler returns the HTTP handler for the envelope endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/schedule", s.handleSchedule)
	return mux
}

// ListenAndServe serves the handler on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("Serving schedule API", logger.Fields{"addr": addr})
	return srv.ListenAndServe()
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "use POST"})
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	switch req.Action {
	case ActionFetch:
		writeJSON(w, http.StatusOK, s.fetch(r.Context(), req))
	case ActionDownload:
		writeJSON(w, http.StatusOK, s.download(r.Context(), req))
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown action: " + req.Action})
	}
}

func (s *Server) fetch(ctx context.Context, req Request) *Response {
	return &Response{Result: s.svc.ProcessBatch(ctx, req.TeamIDs)}
}

func (s *Server) download(ctx context.Context, req Request) *Response {
	result := s.svc.ProcessBatch(ctx, req.TeamIDs)

	calendars := make(map[string]CalendarEntry)
	byTeam := schedule.GroupByTeam(result.Games)
	for teamID, games := range byTeam {
		entry := CalendarEntry{CalendarData: s.svc.GenerateCalendar(games)}
		if len(games) > 0 {
			entry.Season = games[0].Season
			entry.Team = games[0].TeamName
		}
		calendars[teamID] = entry
	}

	return &Response{Result: result, Calendars: calendars}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Encoding response failed", nil, err)
	}
}
