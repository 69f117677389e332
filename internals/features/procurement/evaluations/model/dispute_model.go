// file: internals/features/procurement/evaluations/model/dispute_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type DisputeType string

const (
	DisputeTypeScoring  DisputeType = "scoring"
	DisputeTypeBias     DisputeType = "bias"
	DisputeTypeProcess  DisputeType = "process"
	DisputeTypeCriteria DisputeType = "criteria"
)

type DisputeStatus string

const (
	DisputeStatusOpen        DisputeStatus = "open"
	DisputeStatusUnderReview DisputeStatus = "under_review"
	DisputeStatusResolved    DisputeStatus = "resolved"
	DisputeStatusDismissed   DisputeStatus = "dismissed"
)

/* =========================================================
   EvaluationDispute (evaluation_disputes)
   Append-only; tidak pernah mengubah skor atau konsensus.
   ========================================================= */

type EvaluationDisputeModel struct {
	// PK
	EvaluationDisputeID uuid.UUID `gorm:"type:uuid;primaryKey;column:evaluation_dispute_id" json:"evaluation_dispute_id"`

	// Relations
	EvaluationDisputeEvaluationID uuid.UUID `gorm:"type:uuid;not null;column:evaluation_dispute_evaluation_id;index:idx_evaluation_dispute_eval" json:"evaluation_dispute_evaluation_id"`

	EvaluationDisputeType        DisputeType `gorm:"type:varchar(16);not null;column:evaluation_dispute_type" json:"evaluation_dispute_type"`
	EvaluationDisputeDescription string      `gorm:"type:text;not null;column:evaluation_dispute_description" json:"evaluation_dispute_description"`

	// Referensi bukti (URL / document id, format bebas)
	EvaluationDisputeEvidenceRefs pq.StringArray `gorm:"type:text[];column:evaluation_dispute_evidence_refs" json:"evaluation_dispute_evidence_refs,omitempty"`

	EvaluationDisputeRequestedAction string `gorm:"type:text;not null;column:evaluation_dispute_requested_action" json:"evaluation_dispute_requested_action"`

	EvaluationDisputeRaisedBy uuid.UUID     `gorm:"type:uuid;not null;column:evaluation_dispute_raised_by" json:"evaluation_dispute_raised_by"`
	EvaluationDisputeStatus   DisputeStatus `gorm:"type:varchar(16);not null;default:'open';column:evaluation_dispute_status" json:"evaluation_dispute_status"`

	EvaluationDisputeCreatedAt time.Time `gorm:"not null;autoCreateTime;column:evaluation_dispute_created_at" json:"evaluation_dispute_created_at"`
}

func (EvaluationDisputeModel) TableName() string { return "evaluation_disputes" }

func (m *EvaluationDisputeModel) BeforeCreate(tx *gorm.DB) error {
	if m.EvaluationDisputeID == uuid.Nil {
		m.EvaluationDisputeID = uuid.New()
	}
	return nil
}
