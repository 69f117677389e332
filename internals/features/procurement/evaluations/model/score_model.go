// file: internals/features/procurement/evaluations/model/score_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ScoreRating string

const (
	ScoreRatingExcellent    ScoreRating = "excellent"
	ScoreRatingGood         ScoreRating = "good"
	ScoreRatingSatisfactory ScoreRating = "satisfactory"
	ScoreRatingPoor         ScoreRating = "poor"
	ScoreRatingFail         ScoreRating = "fail"
)

/* =========================================================
   EvaluationScore (evaluation_scores)
   Maksimal satu skor current per (evaluator, submission):
   submit ulang = supersede via upsert, versi naik.
   ========================================================= */

type EvaluationScoreModel struct {
	// PK
	EvaluationScoreID uuid.UUID `gorm:"type:uuid;primaryKey;column:evaluation_score_id" json:"evaluation_score_id"`

	// Relations (unique trio = skor current)
	EvaluationScoreEvaluationID uuid.UUID `gorm:"type:uuid;not null;column:evaluation_score_evaluation_id;uniqueIndex:uq_evaluation_score_current,priority:1;index:idx_evaluation_score_eval" json:"evaluation_score_evaluation_id"`
	EvaluationScoreSubmissionID uuid.UUID `gorm:"type:uuid;not null;column:evaluation_score_submission_id;uniqueIndex:uq_evaluation_score_current,priority:2" json:"evaluation_score_submission_id"`
	EvaluationScoreEvaluatorID  uuid.UUID `gorm:"type:uuid;not null;column:evaluation_score_evaluator_id;uniqueIndex:uq_evaluation_score_current,priority:3;index:idx_evaluation_score_evaluator" json:"evaluation_score_evaluator_id"`

	// Skor per kriteria (key = criterion id)
	EvaluationScoreCriterionScores datatypes.JSONType[map[string]float64] `gorm:"type:jsonb;column:evaluation_score_criterion_scores" json:"evaluation_score_criterion_scores"`

	// Agregat
	EvaluationScoreOverall    float64     `gorm:"type:numeric(9,3);not null;default:0;column:evaluation_score_overall" json:"evaluation_score_overall"`
	EvaluationScoreRating     ScoreRating `gorm:"type:varchar(16);not null;column:evaluation_score_rating" json:"evaluation_score_rating"`
	EvaluationScoreIncomplete bool        `gorm:"not null;default:false;column:evaluation_score_incomplete" json:"evaluation_score_incomplete"`

	// Narasi
	EvaluationScoreJustification *string `gorm:"type:text;column:evaluation_score_justification" json:"evaluation_score_justification,omitempty"`
	EvaluationScoreStrengths     *string `gorm:"type:text;column:evaluation_score_strengths" json:"evaluation_score_strengths,omitempty"`
	EvaluationScoreWeaknesses    *string `gorm:"type:text;column:evaluation_score_weaknesses" json:"evaluation_score_weaknesses,omitempty"`

	// Confidence 1..5
	EvaluationScoreConfidence *int `gorm:"column:evaluation_score_confidence" json:"evaluation_score_confidence,omitempty"`

	// Last-writer-wins versioning
	EvaluationScoreVersion int `gorm:"not null;default:1;column:evaluation_score_version" json:"evaluation_score_version"`

	// Timestamps
	EvaluationScoreCreatedAt time.Time `gorm:"not null;autoCreateTime;column:evaluation_score_created_at" json:"evaluation_score_created_at"`
	EvaluationScoreUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:evaluation_score_updated_at" json:"evaluation_score_updated_at"`
}

func (EvaluationScoreModel) TableName() string { return "evaluation_scores" }

func (m *EvaluationScoreModel) BeforeCreate(tx *gorm.DB) error {
	if m.EvaluationScoreID == uuid.Nil {
		m.EvaluationScoreID = uuid.New()
	}
	return nil
}
