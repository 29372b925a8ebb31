// Package storage writes generated calendar files to disk. The pipeline
// itself never persists anything; this exists only for the CLI's local
// .ics save.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage writes calendar files under one output directory.
type Storage struct {
	outDir string
}

// New creates a Storage instance, expanding ~ and creating the directory
// if needed.
func New(outDir string) (*Storage, error) {
	if strings.HasPrefix(outDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		outDir = filepath.Join(home, outDir[2:])
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Storage{outDir: outDir}, nil
}

// CalendarPath returns the file path for a team's calendar,
// "{season}_{team}_{teamID}.ics" with unsafe characters replaced.
func (s *Storage) CalendarPath(season, teamName, teamID string) string {
	name := fmt.Sprintf("%s_%s_%s.ics",
		sanitize(season), sanitize(teamName), sanitize(teamID))
	return filepath.Join(s.outDir, name)
}

// WriteCalendar saves a calendar document and returns the written path.
func (s *Storage) WriteCalendar(season, teamName, teamID, data string) (string, error) {
	path := s.CalendarPath(season, teamName, teamID)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return "", fmt.Errorf("writing calendar: %w", err)
	}
	return path, nil
}

// sanitize keeps filenames portable across filesystems.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
