// file: internals/features/procurement/evaluations/model/evaluation_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   Enum Status & Tipe Evaluasi
   ========================================================= */

type EvaluationStatus string

const (
	EvaluationStatusDraft     EvaluationStatus = "draft"
	EvaluationStatusActive    EvaluationStatus = "active"
	EvaluationStatusConsensus EvaluationStatus = "consensus"
	EvaluationStatusCompleted EvaluationStatus = "completed"
	EvaluationStatusFinalized EvaluationStatus = "finalized"
	EvaluationStatusCancelled EvaluationStatus = "cancelled"
)

type EvaluationType string

const (
	EvaluationTypeTechnical        EvaluationType = "technical"
	EvaluationTypeCommercial       EvaluationType = "commercial"
	EvaluationTypeCombined         EvaluationType = "combined"
	EvaluationTypePrequalification EvaluationType = "prequalification"
	EvaluationTypePostAward        EvaluationType = "post_award"
)

type ScoringMethod string

const (
	ScoringMethodWeighted ScoringMethod = "weighted_scoring"
	ScoringMethodPoints   ScoringMethod = "points_system"
	ScoringMethodPassFail ScoringMethod = "pass_fail"
	ScoringMethodRanking  ScoringMethod = "ranking"
	ScoringMethodHybrid   ScoringMethod = "hybrid"
)

/* =========================================================
   Criterion — disimpan sebagai JSONB ordered list.
   Immutable begitu evaluasi keluar dari draft.
   ========================================================= */

type Criterion struct {
	CriterionID   string   `json:"id"`
	CriterionName string   `json:"name"`
	Weight        float64  `json:"weight"`
	MaxScore      *float64 `json:"max_score,omitempty"`
	Group         *string  `json:"group,omitempty"`
	Required      bool     `json:"required"`
}

type CriterionList []Criterion

// ByID: lookup cepat; list kriteria selalu kecil.
func (l CriterionList) ByID(id string) (Criterion, bool) {
	for _, c := range l {
		if c.CriterionID == id {
			return c, true
		}
	}
	return Criterion{}, false
}

/* =========================================================
   Evaluation (evaluations)
   ========================================================= */

type EvaluationModel struct {
	// PK
	EvaluationID uuid.UUID `gorm:"type:uuid;primaryKey;column:evaluation_id" json:"evaluation_id"`

	// Relations
	EvaluationRFQID uuid.UUID `gorm:"type:uuid;not null;column:evaluation_rfq_id;index:idx_evaluation_rfq" json:"evaluation_rfq_id"`

	// Identitas
	EvaluationTitle       string  `gorm:"type:varchar(200);not null;column:evaluation_title" json:"evaluation_title"`
	EvaluationDescription *string `gorm:"type:text;column:evaluation_description" json:"evaluation_description,omitempty"`

	// Metode & skala
	EvaluationType          EvaluationType `gorm:"type:varchar(24);not null;column:evaluation_type" json:"evaluation_type"`
	EvaluationScoringMethod ScoringMethod  `gorm:"type:varchar(24);not null;column:evaluation_scoring_method" json:"evaluation_scoring_method"`
	EvaluationMaxScore      float64        `gorm:"type:numeric(9,3);not null;default:100;column:evaluation_max_score" json:"evaluation_max_score"`
	EvaluationPassingScore  *float64       `gorm:"type:numeric(9,3);column:evaluation_passing_score" json:"evaluation_passing_score,omitempty"`

	// Kriteria (ordered, JSONB)
	EvaluationCriteria datatypes.JSONType[CriterionList] `gorm:"type:jsonb;column:evaluation_criteria" json:"evaluation_criteria"`

	// Mode
	EvaluationIsBlind            bool `gorm:"not null;default:false;column:evaluation_is_blind" json:"evaluation_is_blind"`
	// Tanpa default DB: kalau ada default, GORM men-skip field bernilai false
	// pada INSERT dan flag override fasilitator hilang. Default=true diisi service.
	EvaluationAllowConsensus     bool `gorm:"not null;column:evaluation_allow_consensus" json:"evaluation_allow_consensus"`
	EvaluationConsensusThreshold int  `gorm:"not null;default:75;column:evaluation_consensus_threshold" json:"evaluation_consensus_threshold"`

	// Waktu & status
	EvaluationDeadline time.Time        `gorm:"not null;column:evaluation_deadline" json:"evaluation_deadline"`
	EvaluationStatus   EvaluationStatus `gorm:"type:varchar(16);not null;default:'draft';column:evaluation_status;index:idx_evaluation_status" json:"evaluation_status"`

	// Dicatat saat start (jumlah submission yang masuk scope penilaian)
	EvaluationSubmissionCount int `gorm:"not null;default:0;column:evaluation_submission_count" json:"evaluation_submission_count"`

	// Ready-for-consensus hanya boleh tembak sekali
	EvaluationConsensusNotified bool `gorm:"not null;default:false;column:evaluation_consensus_notified" json:"evaluation_consensus_notified"`

	// Optimistic concurrency
	EvaluationVersion int `gorm:"not null;default:1;column:evaluation_version" json:"evaluation_version"`

	EvaluationCancelReason *string `gorm:"type:text;column:evaluation_cancel_reason" json:"evaluation_cancel_reason,omitempty"`

	// Ownership
	EvaluationCreatedBy uuid.UUID `gorm:"type:uuid;not null;column:evaluation_created_by" json:"evaluation_created_by"`

	// Timestamps
	EvaluationCreatedAt time.Time `gorm:"not null;autoCreateTime;column:evaluation_created_at" json:"evaluation_created_at"`
	EvaluationUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:evaluation_updated_at" json:"evaluation_updated_at"`

	// Children
	Evaluators []EvaluationEvaluatorModel `gorm:"foreignKey:EvaluationEvaluatorEvaluationID;references:EvaluationID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"evaluators,omitempty"`
	Scores     []EvaluationScoreModel     `gorm:"foreignKey:EvaluationScoreEvaluationID;references:EvaluationID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"scores,omitempty"`
}

func (EvaluationModel) TableName() string { return "evaluations" }

// Criteria: akses typed ke kolom JSONB.
func (m *EvaluationModel) Criteria() CriterionList {
	return m.EvaluationCriteria.Data()
}

func (m *EvaluationModel) BeforeCreate(tx *gorm.DB) error {
	if m.EvaluationID == uuid.Nil {
		m.EvaluationID = uuid.New()
	}
	return nil
}
