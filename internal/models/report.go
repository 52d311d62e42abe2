package models

type ScoreBand string

const (
	BandLow    ScoreBand = "low"
	BandMedium ScoreBand = "medium"
	BandHigh   ScoreBand = "high"
)

// Report is what a recruiter sees. Every section is already resolved:
// fallbacks applied, questions gated by the threshold.
type Report struct {
	Score         int       `json:"score"`
	ScoreLabel    string    `json:"score_label"`
	Band          ScoreBand `json:"band"`
	Tags          []string  `json:"tags,omitempty"`
	TagsLine      string    `json:"tags_line,omitempty"`
	Explanation   string    `json:"explanation"`
	Motivation    string    `json:"motivation"`
	Questions     []string  `json:"questions,omitempty"`
	ShowQuestions bool      `json:"show_questions"`
}
