package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericDateRe matches the dd-mm-yy and dd-mm-yyyy shapes (dash or slash)
// used by most bank alerts.
var numericDateRe = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})$`)

// genericLayouts are tried, after the rule's own layout hint, when the date
// slot is not a plain numeric shape.
var genericLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// parseDate resolves a captured date slot through an ordered fallback chain:
// the numeric dd-mm-yy(yy) shape built field by field with two-digit years
// expanded to 2000+yy, then layout-based parsing (the rule hint first), and
// finally the supplied fallback time. Institution formats are inconsistent
// enough that a best-effort date beats a hard failure.
func parseDate(raw, layoutHint string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	if m := numericDateRe.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
	}

	layouts := genericLayouts
	if layoutHint != "" {
		layouts = append([]string{layoutHint}, genericLayouts...)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	return fallback
}
