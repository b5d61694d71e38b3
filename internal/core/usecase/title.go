package usecase

import (
	"regexp"
	"strings"
)

const (
	titleMaxRunes   = 50
	titleMaxWords   = 8
	shortTitleLen   = 10
	questionPartMax = 60
)

var lessonNumberPattern = regexp.MustCompile(`(?i)lecci[oó]n\s*\d+`)

var questionStarters = []string{
	"qué", "que", "cómo", "como", "cuál", "cual",
	"cuándo", "cuando", "dónde", "donde", "por qué", "por que",
}

// deriveConversationTitle builds a short human title from the first message
// of a conversation.
func deriveConversationTitle(message string) string {
	clean := strings.TrimSpace(message)
	if len([]rune(clean)) <= shortTitleLen {
		return clean
	}

	if idx := strings.Index(clean, "?"); idx >= 0 {
		part := clean[:idx+1]
		if len([]rune(part)) <= questionPartMax {
			return part
		}
	}

	lower := strings.ToLower(clean)
	if match := lessonNumberPattern.FindString(clean); match != "" {
		return "Pregunta sobre " + match
	}
	if strings.Contains(lower, "escuela sab") {
		return "Consulta sobre Escuela Sabática"
	}
	for _, starter := range questionStarters {
		if strings.HasPrefix(lower, starter) {
			return truncateRunes(clean, titleMaxRunes)
		}
	}

	words := strings.Fields(clean)
	if len(words) <= titleMaxWords {
		return clean
	}
	return strings.Join(words[:titleMaxWords], " ") + "..."
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
