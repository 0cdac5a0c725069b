package event

import (
	"slices"
	"strconv"
	"time"
)

const (
	ViewByMonth = "month"
	ViewByYear  = "year"
)

// Sort orders event listings. The admin dashboard reads explicit queries
// oldest-first by event date, the employee dashboard newest-first, and the
// default current-month view in creation order. The asymmetry is deliberate.
type Sort int

const (
	SortDateAsc Sort = iota
	SortDateDesc
	SortCreatedAsc
)

// View is a dashboard listing request as submitted by the client.
type View struct {
	By    string
	Month int
	Year  string
}

// DefaultView is the current month and year in the given zone.
func DefaultView(now time.Time) View {
	return View{By: ViewByMonth, Month: int(now.Month()), Year: strconv.Itoa(now.Year())}
}

// AllowedYears lists the selectable years, newest first, from the current
// year down to minYear inclusive.
func AllowedYears(minYear int, now time.Time) []string {
	var years []string
	for y := now.Year(); y >= minYear; y-- {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// Filter is a validated event query. Month 0 selects the whole year.
type Filter struct {
	Year  int
	Month int
}

// BuildFilter validates a view request against the allowed year range.
// Anything out of range is ErrInvalidOperation; no query runs for it.
func BuildFilter(view View, allowedYears []string) (Filter, error) {
	switch view.By {
	case ViewByMonth:
		if view.Month >= 1 && view.Month <= 12 && slices.Contains(allowedYears, view.Year) {
			year, _ := strconv.Atoi(view.Year)
			return Filter{Year: year, Month: view.Month}, nil
		}
	case ViewByYear:
		if slices.Contains(allowedYears, view.Year) {
			year, _ := strconv.Atoi(view.Year)
			return Filter{Year: year}, nil
		}
	}
	return Filter{}, ErrInvalidOperation
}
