package content

import (
	"regexp"
	"strings"
)

var shorthandDuration = regexp.MustCompile(`^(\d+)([hdm])$`)

// NormalizeLookback converts shorthand lookback durations ("1h", "7d", "30m")
// to the ISO-8601 forms the API accepts ("PT1H", "P7D", "PT30M"). Values
// already in ISO form, and anything else unrecognized, pass through unchanged.
func NormalizeLookback(d string) string {
	m := shorthandDuration.FindStringSubmatch(strings.ToLower(strings.TrimSpace(d)))
	if m == nil {
		return d
	}
	switch m[2] {
	case "h":
		return "PT" + m[1] + "H"
	case "d":
		return "P" + m[1] + "D"
	default:
		return "PT" + m[1] + "M"
	}
}
