package domain

import (
	"fmt"
	"time"
)

// Passage is one retrievable unit of indexed lesson text (one PDF page).
// Passages are created at ingestion time and never mutated afterwards.
type Passage struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// PageNumber returns the source page number from metadata, or "" when absent.
func (p Passage) PageNumber() string {
	return p.Metadata["page_number"]
}

type CandidateSource string

const (
	SourceVector CandidateSource = "vector"
	SourceScan   CandidateSource = "scan"
)

// Candidate is a Passage plus its transient ranking state during one
// retrieval call. Candidates are never persisted.
type Candidate struct {
	Passage Passage
	Score   float64
	Source  CandidateSource
}

// ResolvedDate is the concrete calendar date inferred from a temporal
// expression in a question, with Spanish weekday and month names.
type ResolvedDate struct {
	Year      int
	Month     time.Month
	Day       int
	Weekday   string
	MonthName string
}

// Phrase renders the date the way lesson pages print it, e.g.
// "Miércoles 5 de noviembre".
func (d ResolvedDate) Phrase() string {
	return fmt.Sprintf("%s %d de %s", d.Weekday, d.Day, d.MonthName)
}

type Answer struct {
	Text    string    `json:"text"`
	Sources []Passage `json:"sources"`

	// Cached and DateDetected describe how this answer was produced.
	// Transient observability state, never serialized or persisted.
	Cached       bool `json:"-"`
	DateDetected bool `json:"-"`
}
