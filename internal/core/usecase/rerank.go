package usecase

import (
	"strconv"
	"strings"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

type dateMatchKind int

const (
	dateMatchNone dateMatchKind = iota
	dateMatchPartial
	dateMatchExact
)

const (
	exactMatchBoost   = 0.5
	partialMatchBoost = 0.2
)

// matchDate is the single home of the textual date heuristic: substring
// checks for the weekday, the literal day number and the month name. It will
// false-positive on passages that merely mention a date in passing; swapping
// in a structured date-tag comparison only requires changing this function.
func matchDate(content string, rd *domain.ResolvedDate) dateMatchKind {
	lower := strings.ToLower(content)
	weekdayHit := strings.Contains(lower, strings.ToLower(rd.Weekday))
	dayHit := strings.Contains(content, strconv.Itoa(rd.Day))
	monthHit := strings.Contains(lower, rd.MonthName)

	switch {
	case weekdayHit && dayHit && monthHit:
		return dateMatchExact
	case weekdayHit || (dayHit && monthHit):
		return dateMatchPartial
	default:
		return dateMatchNone
	}
}

// rerankByDate partitions candidates into exact/partial/other buckets,
// boosting scores, and concatenates the buckets. The partition is stable:
// ties inside a bucket keep their incoming similarity order.
func rerankByDate(candidates []domain.Candidate, rd *domain.ResolvedDate) []domain.Candidate {
	if rd == nil || len(candidates) == 0 {
		return candidates
	}

	exact := make([]domain.Candidate, 0, len(candidates))
	partial := make([]domain.Candidate, 0, len(candidates))
	other := make([]domain.Candidate, 0, len(candidates))

	for _, c := range candidates {
		switch matchDate(c.Passage.Content, rd) {
		case dateMatchExact:
			c.Score += exactMatchBoost
			exact = append(exact, c)
		case dateMatchPartial:
			c.Score += partialMatchBoost
			partial = append(partial, c)
		default:
			other = append(other, c)
		}
	}

	out := make([]domain.Candidate, 0, len(candidates))
	out = append(out, exact...)
	out = append(out, partial...)
	out = append(out, other...)
	return out
}

func hasExactDateMatch(candidates []domain.Candidate, rd *domain.ResolvedDate) bool {
	for _, c := range candidates {
		if matchDate(c.Passage.Content, rd) == dateMatchExact {
			return true
		}
	}
	return false
}

// truncateToPassages keeps the first limit candidates and drops the
// transient ranking state.
func truncateToPassages(candidates []domain.Candidate, limit int) []domain.Passage {
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]domain.Passage, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Passage)
	}
	return out
}
