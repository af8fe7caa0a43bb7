package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mituwo-320/asket-entry/models"
)

// defaultEventMinutes is assumed for fixed events without an end time.
const defaultEventMinutes = 20

var (
	ErrInvalidDuration = errors.New("match duration must be at least 1 minute")
	ErrInvalidInterval = errors.New("interval between matches must not be negative")
	ErrDayOverflow     = errors.New("schedule does not fit into a single day")
)

var DefaultCourts = []string{models.CourtA, models.CourtB}

type AllocateOptions struct {
	DayStart      string // HH:MM
	MatchDuration int    // minutes
	Interval      int    // minutes between consecutive slots
	Courts        []string
}

func (o AllocateOptions) Validate() error {
	if o.MatchDuration < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, o.MatchDuration)
	}
	if o.Interval < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidInterval, o.Interval)
	}
	if _, err := ParseClock(o.DayStart); err != nil {
		return fmt.Errorf("day start: %w", err)
	}
	return nil
}

type blackout struct {
	start, end int
}

// AllocateTimeSlots assigns a start time and a court to every match in input
// order. At each time step one match is placed per court, then the clock moves
// on by duration+interval. A step whose window overlaps an ALL-court fixed event
// is skipped and the clock jumps to the end of that event. Fixed events are not
// modified. The returned slice is a copy; matches are never mutated in place.
func AllocateTimeSlots(matches []models.Match, events []models.ScheduleEvent, opts AllocateOptions) ([]models.Match, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	courts := opts.Courts
	if len(courts) == 0 {
		courts = DefaultCourts
	}

	blackouts, err := collectBlackouts(events)
	if err != nil {
		return nil, err
	}

	current, _ := ParseClock(opts.DayStart)
	placed := make([]models.Match, len(matches))
	copy(placed, matches)

	next := 0
	for next < len(placed) {
		windowEnd := current + opts.MatchDuration

		if b, ok := firstCollision(blackouts, current, windowEnd); ok {
			current = b.end
			continue
		}
		// матч должен закончиться до полуночи
		if windowEnd > minutesPerDay {
			return nil, fmt.Errorf("%w: %d of %d matches placed", ErrDayOverflow, next, len(placed))
		}

		slot := FormatClock(current)
		for _, court := range courts {
			if next >= len(placed) {
				break
			}
			placed[next].Court = court
			placed[next].Time = slot
			next++
		}

		current += opts.MatchDuration + opts.Interval
	}

	return placed, nil
}

// collectBlackouts returns the time windows of pinned ALL-court events ordered by start.
func collectBlackouts(events []models.ScheduleEvent) ([]blackout, error) {
	blackouts := make([]blackout, 0, len(events))
	for _, e := range events {
		if e.StartTime == "" || !e.BlocksAllCourts() {
			continue
		}
		start, err := ParseClock(e.StartTime)
		if err != nil {
			return nil, fmt.Errorf("event %s start: %w", e.ID, err)
		}
		end := start + defaultEventMinutes
		if e.EndTime != nil && *e.EndTime != "" {
			end, err = ParseClock(*e.EndTime)
			if err != nil {
				return nil, fmt.Errorf("event %s end: %w", e.ID, err)
			}
		}
		blackouts = append(blackouts, blackout{start: start, end: end})
	}
	sort.SliceStable(blackouts, func(i, j int) bool { return blackouts[i].start < blackouts[j].start })
	return blackouts, nil
}

func firstCollision(blackouts []blackout, start, end int) (blackout, bool) {
	for _, b := range blackouts {
		if Overlaps(start, end, b.start, b.end) {
			return b, true
		}
	}
	return blackout{}, false
}
