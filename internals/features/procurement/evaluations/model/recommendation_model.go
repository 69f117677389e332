// file: internals/features/procurement/evaluations/model/recommendation_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecommendationType string

const (
	RecommendationAward                RecommendationType = "award"
	RecommendationRejectAll            RecommendationType = "reject_all"
	RecommendationNegotiate            RecommendationType = "negotiate"
	RecommendationRequestClarification RecommendationType = "request_clarification"
)

// RankingEntry: posisi akhir satu submission pada hasil evaluasi.
type RankingEntry struct {
	Rank         int       `json:"rank"`
	SubmissionID uuid.UUID `json:"submission_id"`
	SupplierID   uuid.UUID `json:"supplier_id,omitempty"`
	SupplierName string    `json:"supplier_name,omitempty"`
	FinalScore   float64   `json:"final_score"`
}

/* =========================================================
   EvaluationRecommendation (evaluation_recommendations)
   Hasil finalisasi; immutable, satu per evaluasi.
   ========================================================= */

type EvaluationRecommendationModel struct {
	// PK
	EvaluationRecommendationID uuid.UUID `gorm:"type:uuid;primaryKey;column:evaluation_recommendation_id" json:"evaluation_recommendation_id"`

	// Relations
	EvaluationRecommendationEvaluationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_evaluation_recommendation;column:evaluation_recommendation_evaluation_id" json:"evaluation_recommendation_evaluation_id"`

	// Peringkat akhir (JSONB ordered list)
	EvaluationRecommendationRankings datatypes.JSONType[[]RankingEntry] `gorm:"type:jsonb;column:evaluation_recommendation_rankings" json:"evaluation_recommendation_rankings"`

	// Rekomendasi
	EvaluationRecommendationType          RecommendationType `gorm:"type:varchar(24);not null;column:evaluation_recommendation_type" json:"evaluation_recommendation_type"`
	EvaluationRecommendationJustification string             `gorm:"type:text;not null;column:evaluation_recommendation_justification" json:"evaluation_recommendation_justification"`

	EvaluationRecommendationSupplierID *uuid.UUID `gorm:"type:uuid;column:evaluation_recommendation_supplier_id" json:"evaluation_recommendation_supplier_id,omitempty"`
	EvaluationRecommendationConditions *string    `gorm:"type:text;column:evaluation_recommendation_conditions" json:"evaluation_recommendation_conditions,omitempty"`
	EvaluationRecommendationNextSteps  *string    `gorm:"type:text;column:evaluation_recommendation_next_steps" json:"evaluation_recommendation_next_steps,omitempty"`

	EvaluationRecommendationFinalizedBy uuid.UUID `gorm:"type:uuid;not null;column:evaluation_recommendation_finalized_by" json:"evaluation_recommendation_finalized_by"`

	EvaluationRecommendationCreatedAt time.Time `gorm:"not null;autoCreateTime;column:evaluation_recommendation_created_at" json:"evaluation_recommendation_created_at"`
}

func (EvaluationRecommendationModel) TableName() string { return "evaluation_recommendations" }

func (m *EvaluationRecommendationModel) BeforeCreate(tx *gorm.DB) error {
	if m.EvaluationRecommendationID == uuid.Nil {
		m.EvaluationRecommendationID = uuid.New()
	}
	return nil
}
