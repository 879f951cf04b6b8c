package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Game times are US Eastern. The zone is chosen from the date alone.
var (
	easternDaylight = time.FixedZone("EDT", -4*60*60)
	easternStandard = time.FixedZone("EST", -5*60*60)
)

var weekdays = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// isDaylightTime reports whether a date falls in US daylight time using only
// the month, day and weekday (Sunday == 0). March is daylight once the second
// Sunday has passed; November is daylight until the first Sunday. The 02:00
// switch hour is ignored, so the transition days themselves are off by a few
// hours.
func isDaylightTime(month time.Month, day, weekday int) bool {
	switch {
	case month > time.March && month < time.November:
		return true
	case month < time.March || month > time.November:
		return false
	}
	previousSunday := day - weekday
	if month == time.March {
		return previousSunday >= 8
	}
	return previousSunday < 1
}

// parseLogoff builds the logoff instant from the named groups of reLastLogoff.
func parseLogoff(re *regexp.Regexp, m []string) (time.Time, error) {
	wd, ok := weekdays[strings.ToLower(group(re, m, "weekday"))]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown weekday %q", group(re, m, "weekday"))
	}
	month, ok := months[strings.ToLower(group(re, m, "month"))]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month %q", group(re, m, "month"))
	}
	var nums [5]int
	for i, name := range []string{"day", "hour", "minute", "second", "year"} {
		n, err := strconv.Atoi(group(re, m, name))
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing logoff %s: %w", name, err)
		}
		nums[i] = n
	}
	day, hour, minute, second, year := nums[0], nums[1], nums[2], nums[3], nums[4]

	zone := easternStandard
	if isDaylightTime(month, day, wd) {
		zone = easternDaylight
	}
	return time.Date(year, month, day, hour, minute, second, 0, zone), nil
}
