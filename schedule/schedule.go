// Package schedule defines when recurring spotscot actions run
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/marcsantiago/gocron"
	"github.com/pkg/errors"
)

// Definition represents a recurring schedule. The zero value is invalid; a
// definition needs either a weekday or an interval with a unit
type Definition struct {
	// Interval between activations, in Unit increments. Ignored when Weekday
	// is set (a weekday schedule is every 1 week)
	Interval uint64

	// Unit of the interval. One of "weeks", "hours", "days", "minutes" or
	// "seconds"
	Unit string

	// Weekday the schedule activates on, i.e. "Monday". Takes precedence
	// over Interval and Unit
	Weekday string

	// Time of day the schedule activates at, i.e. "09:00"
	AtTime string
}

// Unit values
const (
	Weeks   = "weeks"
	Hours   = "hours"
	Days    = "days"
	Minutes = "minutes"
	Seconds = "seconds"
)

// String returns a human-friendly description of the Definition
func (d Definition) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Every ")

	if d.Weekday != "" {
		fmt.Fprintf(&b, "%s", d.Weekday)
	} else if d.Interval == 1 {
		fmt.Fprintf(&b, "%s", strings.TrimSuffix(d.Unit, "s"))
	} else {
		fmt.Fprintf(&b, "%d %s", d.Interval, d.Unit)
	}

	if d.AtTime != "" {
		fmt.Fprintf(&b, " at %s", d.AtTime)
	}

	return b.String()
}

// NewJob creates the scheduler job matching a Definition and leaves the task
// for the caller to attach with Do
func NewJob(s *gocron.Scheduler, d Definition) (j *gocron.Job, err error) {
	if d.Weekday != "" {
		j = s.Every(1, false)

		switch d.Weekday {
		case time.Monday.String():
			j = j.Monday()
		case time.Tuesday.String():
			j = j.Tuesday()
		case time.Wednesday.String():
			j = j.Wednesday()
		case time.Thursday.String():
			j = j.Thursday()
		case time.Friday.String():
			j = j.Friday()
		case time.Saturday.String():
			j = j.Saturday()
		case time.Sunday.String():
			j = j.Sunday()
		default:
			return nil, errors.Errorf("invalid weekday [%s]", d.Weekday)
		}
	} else {
		j = s.Every(d.Interval, false)

		switch d.Unit {
		case Weeks:
			j = j.Weeks()
		case Hours:
			j = j.Hours()
		case Days:
			j = j.Days()
		case Minutes:
			j = j.Minutes()
		case Seconds:
			j = j.Seconds()
		default:
			return nil, errors.Errorf("invalid schedule unit [%s]", d.Unit)
		}
	}

	if d.AtTime != "" {
		j = j.At(d.AtTime)
	}

	if j.Err() != nil {
		return nil, j.Err()
	}

	return j, nil
}
