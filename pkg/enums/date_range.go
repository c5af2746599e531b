package enums

import (
	"fmt"
	"strings"
)

// DateRange restricts a sales report relative to the current time.
type DateRange string

const (
	DateRange7Days  DateRange = "7days"
	DateRange30Days DateRange = "30days"
	DateRange90Days DateRange = "90days"
	DateRangeYear   DateRange = "year"
	DateRangeAll    DateRange = "all"
)

var validDateRanges = []DateRange{
	DateRange7Days,
	DateRange30Days,
	DateRange90Days,
	DateRangeYear,
	DateRangeAll,
}

// String implements fmt.Stringer.
func (d DateRange) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DateRange.
func (d DateRange) IsValid() bool {
	for _, candidate := range validDateRanges {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDateRange converts raw input into a DateRange.
func ParseDateRange(value string) (DateRange, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validDateRanges {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid date range %q", value)
}
