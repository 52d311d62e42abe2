package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hr-validator/internal/models"
)

var ErrEvaluationNotFound = errors.New("evaluation not found")

const maxRecentLimit = 100

type EvaluationRepository interface {
	Create(record *models.EvaluationRecord) error
	FindByID(id uuid.UUID) (*models.EvaluationRecord, error)
	FindRecent(limit int) ([]models.EvaluationRecord, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(record *models.EvaluationRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindByID(id uuid.UUID) (*models.EvaluationRecord, error) {
	var record models.EvaluationRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &record, nil
}

// FindRecent returns the newest records first. limit is clamped to 1..100.
func (r *evaluationRepository) FindRecent(limit int) ([]models.EvaluationRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	var records []models.EvaluationRecord
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recent evaluations: %w", err)
	}

	return records, nil
}
