package models

// EvaluationResult is the model's assessment after key defaults are applied.
// Raw keeps the decoded mapping exactly as the model returned it.
type EvaluationResult struct {
	Score       int            `json:"score"`
	Explanation string         `json:"explanation"`
	Motivation  string         `json:"motivation"`
	Questions   []string       `json:"questions"`
	Tags        []string       `json:"tags"`
	SkillTags   []string       `json:"skill_tags"`
	RoleTags    []string       `json:"role_tags"`
	Raw         map[string]any `json:"-"`
}

// AllTags returns the tags in display order: the flat list when the model
// produced one, otherwise skill tags followed by role tags.
func (r *EvaluationResult) AllTags() []string {
	if len(r.Tags) > 0 {
		return r.Tags
	}
	tags := make([]string, 0, len(r.SkillTags)+len(r.RoleTags))
	tags = append(tags, r.SkillTags...)
	tags = append(tags, r.RoleTags...)
	return tags
}

type EvaluateForm struct {
	JobDescription string `form:"job_description" validate:"required"`
	APIKey         string `form:"api_key"`
	Profile        string `form:"profile"`
	Model          string `form:"model"`
	Format         string `form:"format" validate:"omitempty,oneof=markdown plain"`
}

type EvaluateResponse struct {
	ID       string           `json:"id,omitempty"`
	Profile  string           `json:"profile"`
	Provider string           `json:"provider"`
	Model    string           `json:"model"`
	Result   EvaluationResult `json:"result"`
	Report   Report           `json:"report"`
	Warnings []string         `json:"warnings,omitempty"`
}

type ResultResponse struct {
	Record EvaluationRecord  `json:"record"`
	Result *EvaluationResult `json:"result,omitempty"`
	Report *Report           `json:"report,omitempty"`
}

type ProfileResponse struct {
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	DefaultModel string   `json:"default_model"`
	TagFields    []string `json:"tag_fields"`
	Temperature  *float64 `json:"temperature,omitempty"`
	TopP         *float64 `json:"top_p,omitempty"`
	Default      bool     `json:"default"`
}
