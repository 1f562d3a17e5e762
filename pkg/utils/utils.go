package utils

import (
	"time"
)

// DisplayDate converts an internal DD-MM-YYYY date to the DD.MM.YYYY
// display form. Values that do not parse are returned unchanged.
func DisplayDate(d string) string {
	parsed, err := time.Parse("02-01-2006", d)
	if err != nil {
		return d
	}

	return parsed.Format("02.01.2006")
}

// ParseDay parses a YYYY-MM-DD date as exchanged with the dashboard.
func ParseDay(d string) (time.Time, error) {
	return time.Parse("2006-01-02", d)
}

func GetOkJSON() []byte {
	return []byte(`{"is_ok":true}`)
}
