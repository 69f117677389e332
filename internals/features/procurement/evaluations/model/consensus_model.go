// file: internals/features/procurement/evaluations/model/consensus_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   EvaluationConsensus (evaluation_consensus)
   Satu record per evaluasi, immutable setelah dibuat.
   ========================================================= */

type EvaluationConsensusModel struct {
	// PK
	EvaluationConsensusID uuid.UUID `gorm:"type:uuid;primaryKey;column:evaluation_consensus_id" json:"evaluation_consensus_id"`

	// Relations (unique: satu konsensus per evaluasi)
	EvaluationConsensusEvaluationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_evaluation_consensus;column:evaluation_consensus_evaluation_id" json:"evaluation_consensus_evaluation_id"`

	// Skor final per submission (key = submission id)
	EvaluationConsensusFinalScores datatypes.JSONType[map[string]float64] `gorm:"type:jsonb;column:evaluation_consensus_final_scores" json:"evaluation_consensus_final_scores"`

	// Evaluator yang setuju (user id, string uuid)
	EvaluationConsensusAgreedBy pq.StringArray `gorm:"type:text[];column:evaluation_consensus_agreed_by" json:"evaluation_consensus_agreed_by"`

	// Persentase kesepakatan yang tercapai saat build
	EvaluationConsensusAgreementPercent float64 `gorm:"type:numeric(6,2);not null;column:evaluation_consensus_agreement_percent" json:"evaluation_consensus_agreement_percent"`

	// Dispute yang dipertimbangkan (dispute id, string uuid)
	EvaluationConsensusDisputesConsidered pq.StringArray `gorm:"type:text[];column:evaluation_consensus_disputes_considered" json:"evaluation_consensus_disputes_considered,omitempty"`

	// Catatan resolusi (hasil negosiasi manusia, disimpan apa adanya)
	EvaluationConsensusResolution *string `gorm:"type:text;column:evaluation_consensus_resolution" json:"evaluation_consensus_resolution,omitempty"`

	EvaluationConsensusFacilitatorID uuid.UUID `gorm:"type:uuid;not null;column:evaluation_consensus_facilitator_id" json:"evaluation_consensus_facilitator_id"`

	EvaluationConsensusCreatedAt time.Time `gorm:"not null;autoCreateTime;column:evaluation_consensus_created_at" json:"evaluation_consensus_created_at"`
}

func (EvaluationConsensusModel) TableName() string { return "evaluation_consensus" }

func (m *EvaluationConsensusModel) BeforeCreate(tx *gorm.DB) error {
	if m.EvaluationConsensusID == uuid.Nil {
		m.EvaluationConsensusID = uuid.New()
	}
	return nil
}
