package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Conversion factors between calendar designators and days, matching
// the conventions used by clinical phenotyping resources.
const (
	DaysInYear  = 365.25
	DaysInMonth = 30.437
	DaysInWeek  = 7.0
)

// Age represents an age or time-to-event duration on a day timeline.
// Phenotype onsets, vital-status timestamps, and survival endpoints all
// use this type.
type Age struct {
	days float64
}

// AgeFromDays creates an age from a day count.
func AgeFromDays(days float64) (Age, error) {
	if days < 0 {
		return Age{}, ValidationError("age cannot be negative: %f days", days)
	}
	return Age{days: days}, nil
}

// AgeFromYears creates an age from a year count.
func AgeFromYears(years float64) (Age, error) {
	return AgeFromDays(years * DaysInYear)
}

// ParseAge parses an ISO-8601 duration of date scale, such as "P1Y6M",
// "P12W" or "P3D". Time-of-day components are rejected; clinical onsets
// are not resolved below days.
func ParseAge(value string) (Age, error) {
	s := strings.TrimSpace(value)
	if !strings.HasPrefix(s, "P") {
		return Age{}, ValidationError("age %q is not an ISO-8601 duration", value)
	}
	if strings.Contains(s, "T") {
		return Age{}, ValidationError("age %q has a time component; only date designators are supported", value)
	}
	body := s[1:]
	if body == "" {
		return Age{}, ValidationError("age %q has no designators", value)
	}

	var days float64
	num := ""
	seen := map[byte]bool{}
	order := "YMWD"
	lastIdx := -1
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c >= '0' && c <= '9' {
			num += string(c)
			continue
		}
		idx := strings.IndexByte(order, c)
		if idx < 0 {
			return Age{}, ValidationError("age %q has unknown designator %q", value, string(c))
		}
		if num == "" {
			return Age{}, ValidationError("age %q has designator %q without a count", value, string(c))
		}
		if seen[c] || idx < lastIdx {
			return Age{}, ValidationError("age %q repeats or misorders designator %q", value, string(c))
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return Age{}, ValidationError("age %q has invalid count %q", value, num)
		}
		switch c {
		case 'Y':
			days += float64(n) * DaysInYear
		case 'M':
			days += float64(n) * DaysInMonth
		case 'W':
			days += float64(n) * DaysInWeek
		case 'D':
			days += float64(n)
		}
		seen[c] = true
		lastIdx = idx
		num = ""
	}
	if num != "" {
		return Age{}, ValidationError("age %q has trailing count %q without a designator", value, num)
	}
	return Age{days: days}, nil
}

// Days returns the age in days.
func (a Age) Days() float64 {
	return a.days
}

// Years returns the age in fractional years.
func (a Age) Years() float64 {
	return a.days / DaysInYear
}

// Before returns true if a is strictly younger than other.
func (a Age) Before(other Age) bool {
	return a.days < other.days
}

func (a Age) String() string {
	return fmt.Sprintf("%.2f years", a.Years())
}
