package schedule

import (
	"errors"
	"fmt"
)

const minutesPerDay = 24 * 60

var ErrInvalidTime = errors.New("invalid time of day, expected HH:MM")

// ParseClock converts "HH:MM" into minutes since midnight.
// Both parts must be exactly two ASCII digits, so stored values sort as strings.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hours, ok := twoDigits(s[0:2])
	if !ok || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	minutes, ok := twoDigits(s[3:5])
	if !ok || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return hours*60 + minutes, nil
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func AddMinutes(clock string, minutes int) (string, error) {
	start, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return FormatClock(start + minutes), nil
}

// Overlaps reports whether [s1,e1) and [s2,e2) share any minute.
func Overlaps(s1, e1, s2, e2 int) bool {
	return max(s1, s2) < min(e1, e2)
}

func IsValidClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}
