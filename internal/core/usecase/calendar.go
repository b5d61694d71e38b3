package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

// Lesson pages print dates in Spanish ("Miércoles 5 de noviembre"), so all
// date vocabulary lives here. spanishWeekdays is indexed by time.Weekday.
var spanishWeekdays = [7]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

var spanishMonths = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var explicitDatePattern = regexp.MustCompile(`(\d{1,2})\s+de\s+(` + strings.Join(spanishMonths[:], "|") + `)`)

var todayKeywords = []string{"hoy", "esta lección", "actual", "esta semana"}

// Phrase sets checked before their shorter substrings: "pasado mañana" must
// never be matched as plain "mañana".
var (
	dayAfterTomorrowKeywords   = []string{"pasado mañana", "pasado-mañana", "pasadomañana"}
	dayBeforeYesterdayKeywords = []string{"antes de ayer", "anteayer", "antesdeayer"}
)

// ResolveDate maps a question and a reference instant to the calendar date
// the question is asking about, or nil when the question carries no temporal
// reference. Pure and deterministic for a fixed now.
func ResolveDate(question string, now time.Time) *domain.ResolvedDate {
	lower := strings.ToLower(question)

	switch {
	case containsAny(lower, todayKeywords):
		return resolvedFrom(now)
	case containsAny(lower, dayAfterTomorrowKeywords):
		return resolvedFrom(now.AddDate(0, 0, 2))
	case containsAny(lower, dayBeforeYesterdayKeywords):
		return resolvedFrom(now.AddDate(0, 0, -2))
	case strings.Contains(lower, "mañana"):
		return resolvedFrom(now.AddDate(0, 0, 1))
	case strings.Contains(lower, "ayer"):
		return resolvedFrom(now.AddDate(0, 0, -1))
	}

	return resolveExplicitDate(lower, now)
}

// resolveExplicitDate handles "D de <mes>" anywhere in the question. The year
// is taken from now. An impossible day/month combination resolves to nil, not
// to a normalized date.
func resolveExplicitDate(lower string, now time.Time) *domain.ResolvedDate {
	match := explicitDatePattern.FindStringSubmatch(lower)
	if match == nil {
		return nil
	}

	day, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}
	month := time.Month(monthIndex(match[2]) + 1)

	date := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	if date.Month() != month || date.Day() != day {
		return nil
	}
	return resolvedFrom(date)
}

func resolvedFrom(t time.Time) *domain.ResolvedDate {
	return &domain.ResolvedDate{
		Year:      t.Year(),
		Month:     t.Month(),
		Day:       t.Day(),
		Weekday:   spanishWeekdays[t.Weekday()],
		MonthName: spanishMonths[t.Month()-1],
	}
}

func monthIndex(name string) int {
	for i, m := range spanishMonths {
		if m == name {
			return i
		}
	}
	return -1
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
