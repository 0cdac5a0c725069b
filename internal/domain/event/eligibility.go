package event

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"attendance/internal/geo"
)

// Decision classifies an attendance submission against an event.
type Decision int

const (
	DecisionUnknown Decision = iota
	DecisionAccepted
	DecisionTooEarly
	DecisionTooLate
	DecisionNotYetOpen
	DecisionWindowClosed
	DecisionCheckTiming
	DecisionTooFarAway
)

func (d Decision) Accepted() bool {
	return d == DecisionAccepted
}

func (d Decision) Code() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionTooEarly:
		return "too_early"
	case DecisionTooLate:
		return "too_late"
	case DecisionNotYetOpen:
		return "not_yet_open"
	case DecisionWindowClosed:
		return "window_closed"
	case DecisionCheckTiming:
		return "check_timing"
	case DecisionTooFarAway:
		return "too_far_away"
	default:
		return "unknown"
	}
}

func (d Decision) Message() string {
	switch d {
	case DecisionAccepted:
		return "Attendance made successfully!"
	case DecisionTooEarly:
		return "Looks like the event is yet to happen!"
	case DecisionTooLate:
		return "Looks like the event already happened!"
	case DecisionNotYetOpen:
		return "You are too early for the event!"
	case DecisionWindowClosed:
		return "You are too late for the event!"
	case DecisionCheckTiming:
		return "Please check the event timing for attendance!"
	case DecisionTooFarAway:
		return "Be at the event for attendance!"
	default:
		return "Unable to decide attendance eligibility."
	}
}

var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParseClock splits an HH:MM string into hour and minute. Values are not
// range-checked beyond the two-digit format.
func ParseClock(value string) (hour, minute int, err error) {
	if !clockPattern.MatchString(value) {
		return 0, 0, fmt.Errorf("clock value %q is not in HH:MM format", value)
	}
	hour, _ = strconv.Atoi(value[:2])
	minute, _ = strconv.Atoi(value[3:])
	return hour, minute, nil
}

// Engine decides attendance eligibility. The zone pins the wall clock the
// event window is defined in, independent of the server's locale.
type Engine struct {
	zone        *time.Location
	maxDistance float64
	distance    geo.DistanceFunc
}

func NewEngine(zone *time.Location, maxDistanceMeters float64, distance geo.DistanceFunc) *Engine {
	if zone == nil {
		zone = time.UTC
	}
	if distance == nil {
		distance = geo.DistanceMeters
	}
	return &Engine{zone: zone, maxDistance: maxDistanceMeters, distance: distance}
}

func (e *Engine) Zone() *time.Location {
	return e.zone
}

// Evaluate decides whether an attendance submission from `at` is accepted
// for ev at the instant now. The decision is pure; appending the mark on
// acceptance is the caller's job.
func (e *Engine) Evaluate(ev *Event, now time.Time, at geo.Point) (Decision, error) {
	local := now.In(e.zone)

	switch c := compareDay(ev.Date, local); {
	case c > 0:
		return DecisionTooEarly, nil
	case c < 0:
		return DecisionTooLate, nil
	}

	sh, sm, err := ParseClock(ev.StartTime)
	if err != nil {
		return DecisionUnknown, err
	}
	eh, em, err := ParseClock(ev.EndTime)
	if err != nil {
		return DecisionUnknown, err
	}

	ch, cm := local.Hour(), local.Minute()
	switch {
	case ch < sh:
		return DecisionNotYetOpen, nil
	case ch > eh:
		return DecisionWindowClosed, nil
	case ch == sh && ch == eh:
		// Single-hour window: both boundary minutes are exclusive.
		if cm <= sm || cm >= em {
			return DecisionCheckTiming, nil
		}
	case ch == sh:
		// The opening minute itself does not count as open yet.
		if cm <= sm {
			return DecisionCheckTiming, nil
		}
	case ch == eh:
		// The closing minute is already closed.
		if cm >= em {
			return DecisionCheckTiming, nil
		}
	}

	if e.distance(at, ev.Location.Point()) <= e.maxDistance {
		return DecisionAccepted, nil
	}
	return DecisionTooFarAway, nil
}

// compareDay orders the event date against now by calendar day, ignoring
// time of day. Positive means the event is still ahead.
func compareDay(eventDate, now time.Time) int {
	ey, em, ed := eventDate.Date()
	ny, nm, nd := now.Date()

	a := ey*10000 + int(em)*100 + ed
	b := ny*10000 + int(nm)*100 + nd
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
