package strategy

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultDaysToExpiry se usa cuando el slug no contiene ninguna fecha reconocible.
const DefaultDaysToExpiry = 7

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// month-day con sufijo opcional: año (4 dígitos) o fin de rango ("october-13-19").
var monthDayRe = regexp.MustCompile(
	`\b(january|february|march|april|may|june|july|august|september|october|november|december|` +
		`jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)-(\d{1,2})(?:-(\d{1,4}))?\b`,
)

// ExpiryFromSlug extrae la fecha de resolución del identificador de un evento.
// Toma el último token "mes-día" ("...-september-29-october-5" → 5 de octubre),
// asume el año actual salvo que la fecha ya haya pasado, y suma un día: las
// escaleras resuelven al inicio del día siguiente.
func ExpiryFromSlug(slug string, now time.Time) (time.Time, bool) {
	now = now.UTC()
	matches := monthDayRe.FindAllStringSubmatch(strings.ToLower(slug), -1)

	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		month := months[m[1]]
		day, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		year := now.Year()
		explicitYear := false
		if suffix := m[3]; suffix != "" {
			n, _ := strconv.Atoi(suffix)
			switch {
			case len(suffix) == 4:
				year = n
				explicitYear = true
			case n > day:
				day = n
			}
		}

		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if date.Day() != day || date.Month() != month {
			continue // día inexistente, e.g. feb-30
		}

		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if !explicitYear && date.Before(today) {
			date = date.AddDate(1, 0, 0)
		}
		return date.AddDate(0, 0, 1), true
	}
	return time.Time{}, false
}

// DaysToExpiry devuelve los días (redondeando hacia arriba) hasta la resolución del
// evento. Sin fecha reconocible devuelve DefaultDaysToExpiry; vencido devuelve 0.
func DaysToExpiry(slug string, now time.Time) int {
	expiry, ok := ExpiryFromSlug(slug, now)
	if !ok {
		return DefaultDaysToExpiry
	}
	days := math.Ceil(expiry.Sub(now.UTC()).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}
