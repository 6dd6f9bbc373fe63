// Package cron wraps cron expression parsing behind a minimal interface so
// the reminder scheduler does not depend on a particular parser.
package cron

import (
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Schedule computes occurrences of a recurring reminder.
type Schedule interface {
	// Next returns the first occurrence strictly after the given time.
	Next(after time.Time) time.Time
}

// Standard five-field cron (minute hour dom month dow) plus @descriptors
// like "@daily".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Parse parses a cron expression. A malformed expression returns an error.
func Parse(expr string) (Schedule, error) {
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid cron expression %q", expr)
	}
	return schedule, nil
}

// Validate reports whether the expression parses.
func Validate(expr string) error {
	_, err := Parse(expr)
	return err
}
