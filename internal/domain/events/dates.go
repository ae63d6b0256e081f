package events

import (
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Instantes completos: se guardan tal cual los manda el cliente.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// parseDate acepta RFC3339 o YYYY-MM-DD. dayOnly indica que no traía hora.
// Las fechas sin zona se leen en loc.
func parseDate(s string, loc *time.Location) (t time.Time, dayOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err = time.ParseInLocation(dayLayout, s, loc); err == nil {
		return t, true, nil
	}
	for _, layout := range instantLayouts {
		if t, err = time.ParseInLocation(layout, s, loc); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, err
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseDayStart parsea s. Un YYYY-MM-DD se lleva a las 00:00 de ese día en loc;
// un instante con hora queda igual.
func ParseDayStart(s string, loc *time.Location) (time.Time, error) {
	t, dayOnly, err := parseDate(s, loc)
	if err != nil {
		return time.Time{}, err
	}
	if dayOnly {
		return startOfDay(t, loc), nil
	}
	return t, nil
}

// ParseDayEnd parsea s. Un YYYY-MM-DD se lleva al último instante de ese día en loc;
// un instante con hora queda igual.
func ParseDayEnd(s string, loc *time.Location) (time.Time, error) {
	t, dayOnly, err := parseDate(s, loc)
	if err != nil {
		return time.Time{}, err
	}
	if dayOnly {
		return endOfDay(t, loc), nil
	}
	return t, nil
}
