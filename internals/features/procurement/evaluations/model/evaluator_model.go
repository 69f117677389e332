// file: internals/features/procurement/evaluations/model/evaluator_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvaluatorStatus string

const (
	EvaluatorStatusActive  EvaluatorStatus = "active"
	EvaluatorStatusRemoved EvaluatorStatus = "removed"
)

/* =========================================================
   EvaluationEvaluator (evaluation_evaluators)
   Hanya evaluator active yang boleh menilai & dihitung konsensus.
   ========================================================= */

type EvaluationEvaluatorModel struct {
	// PK
	EvaluationEvaluatorID uuid.UUID `gorm:"type:uuid;primaryKey;column:evaluation_evaluator_id" json:"evaluation_evaluator_id"`

	// Relations
	EvaluationEvaluatorEvaluationID uuid.UUID `gorm:"type:uuid;not null;column:evaluation_evaluator_evaluation_id;uniqueIndex:uq_evaluation_evaluator,priority:1;index:idx_evaluation_evaluator_eval" json:"evaluation_evaluator_evaluation_id"`
	EvaluationEvaluatorUserID       uuid.UUID `gorm:"type:uuid;not null;column:evaluation_evaluator_user_id;uniqueIndex:uq_evaluation_evaluator,priority:2" json:"evaluation_evaluator_user_id"`

	// Status keanggotaan
	EvaluationEvaluatorStatus EvaluatorStatus `gorm:"type:varchar(16);not null;default:'active';column:evaluation_evaluator_status" json:"evaluation_evaluator_status"`

	EvaluationEvaluatorInvitedAt time.Time `gorm:"not null;column:evaluation_evaluator_invited_at" json:"evaluation_evaluator_invited_at"`

	// Timestamps
	EvaluationEvaluatorCreatedAt time.Time `gorm:"not null;autoCreateTime;column:evaluation_evaluator_created_at" json:"evaluation_evaluator_created_at"`
	EvaluationEvaluatorUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:evaluation_evaluator_updated_at" json:"evaluation_evaluator_updated_at"`
}

func (EvaluationEvaluatorModel) TableName() string { return "evaluation_evaluators" }

func (m *EvaluationEvaluatorModel) BeforeCreate(tx *gorm.DB) error {
	if m.EvaluationEvaluatorID == uuid.Nil {
		m.EvaluationEvaluatorID = uuid.New()
	}
	return nil
}
