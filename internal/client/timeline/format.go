// Package timeline formats post timestamps and lays out a post list as
// display lines grouped by calendar day.
package timeline

import (
	"fmt"
	"time"
)

var weekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

const unknownName = "unknown"

// WeekdayName maps 0 (Sunday) through 6 (Saturday) to a name.
func WeekdayName(i int) string {
	if i < 0 || i >= len(weekdays) {
		return unknownName
	}
	return weekdays[i]
}

// MonthName maps 1 (January) through 12 (December) to a name.
func MonthName(i int) string {
	if i < 1 || i > len(months) {
		return unknownName
	}
	return months[i-1]
}

// Stamp is a formatted timestamp.
type Stamp struct {
	Day  string // "Thursday, January 1, 1970"
	Time string // "0:16:40"
}

// Format renders epoch seconds in loc. A nil loc means time.Local.
func Format(epochSeconds int64, loc *time.Location) Stamp {
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(epochSeconds, 0).In(loc)

	return Stamp{
		Day:  fmt.Sprintf("%s, %s %d, %d", WeekdayName(int(t.Weekday())), MonthName(int(t.Month())), t.Day(), t.Year()),
		Time: fmt.Sprintf("%d:%d:%d", t.Hour(), t.Minute(), t.Second()),
	}
}

// LoadLocation resolves a configured zone name. "" and "Local" mean the
// process zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}
