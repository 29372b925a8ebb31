// Package teamid validates team identifiers before any fetch is attempted.
package teamid

import (
	"strconv"
	"strings"

	"github.com/pfrederiksen/soccer-cal/internal/errs"
)

// Validate checks that id is a usable team identifier: exactly six ASCII
// digits with a positive numeric value. It performs no I/O.
func Validate(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return errs.New(errs.Validation, "team id is empty")
	}
	if len(trimmed) != 6 {
		return errs.Newf(errs.Validation, "team id %q must be exactly 6 digits", trimmed)
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return errs.Newf(errs.Validation, "team id %q must contain only digits", trimmed)
		}
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return errs.Newf(errs.Validation, "team id %q is not numeric", trimmed)
	}
	if n <= 0 {
		return errs.Newf(errs.Validation, "team id %q must be positive", trimmed)
	}
	return nil
}
