package config

import (
	"fmt"
	"strings"
	"time"
)

var monthNames = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// Date is a calendar day given in DD.MM.YYYY form
type Date struct {
	Day   int
	Month time.Month
	Year  int
}

const dateLayout = "02.01.2006"

// ParseDate parses a DD.MM.YYYY literal
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("date %q: want DD.MM.YYYY: %w", s, err)
	}
	return Date{Day: t.Day(), Month: t.Month(), Year: t.Year()}, nil
}

// Time returns the date at midnight UTC
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the date was never set
func (d Date) IsZero() bool {
	return d == Date{}
}

// String returns the DD.MM.YYYY form
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// ISO returns the YYYY-MM-DD form used by the date picker's day buttons
func (d Date) ISO() string {
	return d.Time().Format("2006-01-02")
}

// MonthLabel returns the localized month heading, e.g. "Kasım 2025"
func (d Date) MonthLabel() string {
	return fmt.Sprintf("%s %d", monthNames[d.Month-1], d.Year)
}
