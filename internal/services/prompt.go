package services

import (
	"strings"
)

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildMessages returns the system instruction of the profile followed by
// one user turn carrying both texts inside their delimiter tags.
func (pb *PromptBuilder) BuildMessages(profile *Profile, jobDescription, resumeText string) []Message {
	return []Message{
		{Role: RoleSystem, Content: profile.SystemMessage},
		{Role: RoleUser, Content: pb.BuildUserContent(jobDescription, resumeText)},
	}
}

func (pb *PromptBuilder) BuildUserContent(jobDescription, resumeText string) string {
	var b strings.Builder
	b.WriteString("<JOB_DESCRIPTION>\n")
	b.WriteString(strings.TrimSpace(jobDescription))
	b.WriteString("\n</JOB_DESCRIPTION>\n")
	b.WriteString("<RESUME>\n")
	b.WriteString(strings.TrimSpace(resumeText))
	b.WriteString("\n</RESUME>")
	return b.String()
}
