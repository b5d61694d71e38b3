package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

// Questions with fewer words than this are treated as follow-ups that may
// need conversation history to disambiguate.
const shortQuestionWords = 8

const historyTurns = 2

var bareDayPattern = regexp.MustCompile(`\b(\d{1,2})\b`)

// enrichQuestion produces the text used for embedding generation. The raw
// question is kept separately for date matching; enrichment never feeds the
// re-ranker.
func enrichQuestion(question string, resolved *domain.ResolvedDate, recentHistory []string) string {
	if resolved != nil {
		return question + " " + resolved.Phrase()
	}

	// Questions that already carry a temporal keyword must not be polluted
	// with stale history: "hoy" and an earlier "mañana" would mix.
	if len(strings.Fields(question)) >= shortQuestionWords || hasTemporalKeyword(question) {
		return question
	}
	if len(recentHistory) == 0 {
		return question
	}

	turns := recentHistory
	if len(turns) > historyTurns {
		turns = turns[len(turns)-historyTurns:]
	}
	enriched := question + " " + strings.Join(turns, " ")

	// "¿y la del 31?" after a turn mentioning octubre becomes a full date
	// phrase so the explicit-date path can pick it up downstream.
	if day, ok := bareDayNumber(question); ok {
		if month, ok := monthMentionedIn(recentHistory); ok {
			enriched += fmt.Sprintf(" %d de %s", day, month)
		}
	}
	return enriched
}

func hasTemporalKeyword(question string) bool {
	lower := strings.ToLower(question)
	if containsAny(lower, todayKeywords) ||
		strings.Contains(lower, "mañana") ||
		strings.Contains(lower, "ayer") {
		return true
	}
	for _, month := range spanishMonths {
		if strings.Contains(lower, month) {
			return true
		}
	}
	return false
}

func bareDayNumber(question string) (int, bool) {
	match := bareDayPattern.FindStringSubmatch(question)
	if match == nil {
		return 0, false
	}
	day := 0
	for _, r := range match[1] {
		day = day*10 + int(r-'0')
	}
	if day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}

func monthMentionedIn(history []string) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		lower := strings.ToLower(history[i])
		for _, month := range spanishMonths {
			if strings.Contains(lower, month) {
				return month, true
			}
		}
	}
	return "", false
}
