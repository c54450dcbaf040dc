package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses durations like time.ParseDuration but also accepts a
// "d" (day) suffix, e.g. "7d". Config fields such as token expiry and
// soft-delete retention use this format.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.ParseFloat(strings.TrimSuffix(s, "d"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		return time.Duration(days * float64(24*time.Hour)), nil
	}
	return time.ParseDuration(s)
}
