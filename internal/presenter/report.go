// Package presenter turns an evaluation result into the sections a recruiter
// reads. It owns every display rule: fallbacks, score bands and the
// follow-up question threshold.
package presenter

import (
	"fmt"
	"strings"

	"alfredoptarigan/hr-validator/internal/models"
)

const (
	DefaultQuestionThreshold = 60

	FallbackExplanation = "_Žádné vysvětlení._"
	FallbackMotivation  = "_Bez uvedeného důvodu._"
)

type Presenter struct {
	questionThreshold int
}

func NewPresenter(questionThreshold int) *Presenter {
	return &Presenter{questionThreshold: questionThreshold}
}

func (p *Presenter) QuestionThreshold() int {
	return p.questionThreshold
}

// BuildReport resolves result into display sections. Questions are shown
// only when the score reaches the threshold and the model asked any.
func (p *Presenter) BuildReport(result *models.EvaluationResult) models.Report {
	if result == nil {
		result = &models.EvaluationResult{}
	}

	report := models.Report{
		Score:       result.Score,
		ScoreLabel:  fmt.Sprintf("%d / 100", result.Score),
		Band:        BandFor(result.Score),
		Explanation: orFallback(result.Explanation, FallbackExplanation),
		Motivation:  orFallback(result.Motivation, FallbackMotivation),
	}

	if tags := result.AllTags(); len(tags) > 0 {
		report.Tags = tags
		report.TagsLine = strings.Join(tags, ", ")
	}

	if result.Score >= p.questionThreshold && len(result.Questions) > 0 {
		report.ShowQuestions = true
		report.Questions = result.Questions
	}

	return report
}

// BandFor maps a score onto the bands named in the evaluation instruction.
func BandFor(score int) models.ScoreBand {
	switch {
	case score <= 40:
		return models.BandLow
	case score < 70:
		return models.BandMedium
	default:
		return models.BandHigh
	}
}

// RenderMarkdown lays the report out the way the recruiter form shows it.
func (p *Presenter) RenderMarkdown(report models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Skóre vhodnosti:** %s\n\n", report.ScoreLabel)

	if report.TagsLine != "" {
		b.WriteString("### 🔖 Tags pro pozici\n")
		b.WriteString(report.TagsLine)
		b.WriteString("\n\n")
	}

	b.WriteString("### Vysvětlení hodnocení\n")
	b.WriteString(report.Explanation)
	b.WriteString("\n\n")

	b.WriteString("### Proč by kandidátovi mohla pozice vyhovovat\n")
	b.WriteString(report.Motivation)
	b.WriteString("\n")

	if report.ShowQuestions {
		b.WriteString("\n### Doplňující otázky\n")
		for _, q := range report.Questions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	return b.String()
}

func orFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
