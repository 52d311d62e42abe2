package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvaluationStatus string

const (
	StatusCompleted EvaluationStatus = "completed"
	StatusFailed    EvaluationStatus = "failed"
)

// EvaluationRecord is one archived submission. Records are written after the
// evaluation finished; nothing reads them back into the pipeline.
type EvaluationRecord struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Profile        string           `gorm:"type:text;not null" json:"profile"`
	Provider       string           `gorm:"type:text;not null" json:"provider"`
	Model          string           `gorm:"type:text;not null" json:"model"`
	JobDescription string           `gorm:"type:text" json:"job_description"`
	ResumeText     string           `gorm:"type:text" json:"resume_text"`
	ResumeFilename string           `gorm:"type:text" json:"resume_filename"`
	Status         EvaluationStatus `gorm:"type:text;not null" json:"status"`
	Score          *int             `json:"score,omitempty"`
	ResultJSON     *string          `gorm:"type:jsonb" json:"-"`
	ErrorMessage   *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (EvaluationRecord) TableName() string {
	return "evaluations"
}

func (r *EvaluationRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
