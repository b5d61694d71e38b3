package usecase

import (
	"testing"
	"time"
)

// Wednesday, November 5 2025.
var frozenNow = time.Date(2025, time.November, 5, 10, 30, 0, 0, time.UTC)

func TestResolveDateRelativeOffsets(t *testing.T) {
	tests := []struct {
		name        string
		question    string
		wantDay     int
		wantMonth   time.Month
		wantWeekday string
	}{
		{"today", "¿de qué trata la lección de hoy?", 5, time.November, "Miércoles"},
		{"this lesson", "resume esta lección por favor", 5, time.November, "Miércoles"},
		{"current", "cuál es el tema actual", 5, time.November, "Miércoles"},
		{"this week", "qué estudiamos esta semana", 5, time.November, "Miércoles"},
		{"tomorrow", "¿qué leemos mañana?", 6, time.November, "Jueves"},
		{"day after tomorrow", "¿y pasado mañana?", 7, time.November, "Viernes"},
		{"day after tomorrow hyphen", "la lección de pasado-mañana", 7, time.November, "Viernes"},
		{"yesterday", "¿de qué trató la lección de ayer?", 4, time.November, "Martes"},
		{"day before yesterday", "¿y la de antes de ayer?", 3, time.November, "Lunes"},
		{"anteayer", "¿qué estudiamos anteayer?", 3, time.November, "Lunes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDate(tt.question, frozenNow)
			if got == nil {
				t.Fatalf("ResolveDate(%q) = nil", tt.question)
			}
			if got.Day != tt.wantDay || got.Month != tt.wantMonth {
				t.Fatalf("ResolveDate(%q) = %d de %s, want %d/%d", tt.question, got.Day, got.MonthName, tt.wantDay, tt.wantMonth)
			}
			if got.Weekday != tt.wantWeekday {
				t.Fatalf("ResolveDate(%q) weekday = %s, want %s", tt.question, got.Weekday, tt.wantWeekday)
			}
		})
	}
}

func TestResolveDatePhrasePriority(t *testing.T) {
	// "pasado mañana" must never be matched as a substring of "mañana".
	got := ResolveDate("¿qué estudiamos pasado mañana?", frozenNow)
	if got == nil || got.Day != 7 {
		t.Fatalf("expected day 7 for pasado mañana, got %+v", got)
	}
}

func TestResolveDateTodayWinsOverTomorrow(t *testing.T) {
	got := ResolveDate("la lección de hoy, no la de mañana", frozenNow)
	if got == nil || got.Day != 5 {
		t.Fatalf("expected today (5), got %+v", got)
	}
}

func TestResolveDateExplicit(t *testing.T) {
	got := ResolveDate("¿de qué trata la lección del 31 de octubre?", frozenNow)
	if got == nil {
		t.Fatalf("expected resolved date")
	}
	if got.Day != 31 || got.Month != time.October || got.Year != 2025 {
		t.Fatalf("got %d de %s %d, want 31 de octubre 2025", got.Day, got.MonthName, got.Year)
	}
	if got.Weekday != "Viernes" {
		t.Fatalf("31 de octubre 2025 should be Viernes, got %s", got.Weekday)
	}
	if got.Phrase() != "Viernes 31 de octubre" {
		t.Fatalf("unexpected phrase %q", got.Phrase())
	}
}

func TestResolveDateInvalidExplicitReturnsNil(t *testing.T) {
	if got := ResolveDate("¿qué pasó el 31 de febrero?", frozenNow); got != nil {
		t.Fatalf("expected nil for invalid date, got %+v", got)
	}
	if got := ResolveDate("¿qué pasó el 31 de noviembre?", frozenNow); got != nil {
		t.Fatalf("expected nil for 31 de noviembre, got %+v", got)
	}
}

func TestResolveDateNoTemporalReference(t *testing.T) {
	if got := ResolveDate("¿quién escribió el libro de Daniel?", frozenNow); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestResolveDateDeterministic(t *testing.T) {
	first := ResolveDate("mañana", frozenNow)
	second := ResolveDate("mañana", frozenNow)
	if first == nil || second == nil || *first != *second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}
