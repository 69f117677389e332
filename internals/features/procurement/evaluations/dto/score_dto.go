// file: internals/features/procurement/evaluations/dto/score_dto.go
package dto

import (
	"github.com/google/uuid"

	model "procureku_backend/internals/features/procurement/evaluations/model"
	service "procureku_backend/internals/features/procurement/evaluations/service"
)

/* ==============================
   SUBMIT SCORE (POST /evaluations/:id/score)
============================== */

type SubmitScoreRequest struct {
	SubmissionID    uuid.UUID          `json:"submission_id" validate:"required"`
	CriterionScores map[string]float64 `json:"criterion_scores" validate:"required,min=1"`
	OverallScore    *float64           `json:"overall_score" validate:"omitempty,gte=0"`
	Rating          string             `json:"rating" validate:"required,oneof=excellent good satisfactory poor fail"`
	Justification   *string            `json:"justification" validate:"omitempty"`
	Strengths       *string            `json:"strengths" validate:"omitempty"`
	Weaknesses      *string            `json:"weaknesses" validate:"omitempty"`
	Confidence      *int               `json:"confidence" validate:"omitempty,gte=1,lte=5"`
}

func (r *SubmitScoreRequest) ToInput() service.SubmitScoreInput {
	return service.SubmitScoreInput{
		SubmissionID:    r.SubmissionID,
		CriterionScores: r.CriterionScores,
		OverallScore:    r.OverallScore,
		Rating:          model.ScoreRating(r.Rating),
		Justification:   r.Justification,
		Strengths:       r.Strengths,
		Weaknesses:      r.Weaknesses,
		Confidence:      r.Confidence,
	}
}

/* ==============================
   CONSENSUS (POST /evaluations/:id/consensus)
============================== */

type BuildConsensusRequest struct {
	FinalScores        map[string]float64 `json:"final_scores" validate:"required,min=1"`
	AgreedBy           []uuid.UUID        `json:"agreed_by" validate:"required,min=1"`
	DisputesConsidered []uuid.UUID        `json:"disputes_considered" validate:"omitempty"`
	Resolution         *string            `json:"resolution" validate:"omitempty"`
}

func (r *BuildConsensusRequest) ToInput() service.BuildConsensusInput {
	return service.BuildConsensusInput{
		FinalScores:        r.FinalScores,
		AgreedBy:           r.AgreedBy,
		DisputesConsidered: r.DisputesConsidered,
		Resolution:         r.Resolution,
	}
}

/* ==============================
   FINALIZE (POST /evaluations/:id/finalize)
============================== */

type FinalizeRequest struct {
	Rankings            []model.RankingEntry `json:"rankings" validate:"omitempty"`
	Recommendation      string               `json:"recommendation" validate:"required,oneof=award reject_all negotiate request_clarification"`
	Justification       string               `json:"justification" validate:"required"`
	RecommendedSupplier *uuid.UUID           `json:"recommended_supplier_id" validate:"omitempty"`
	Conditions          *string              `json:"conditions" validate:"omitempty"`
	NextSteps           *string              `json:"next_steps" validate:"omitempty"`
}

func (r *FinalizeRequest) ToInput() service.FinalizeInput {
	return service.FinalizeInput{
		Rankings:            r.Rankings,
		Recommendation:      model.RecommendationType(r.Recommendation),
		Justification:       r.Justification,
		RecommendedSupplier: r.RecommendedSupplier,
		Conditions:          r.Conditions,
		NextSteps:           r.NextSteps,
	}
}

/* ==============================
   DISPUTE (POST /evaluations/:id/dispute)
============================== */

type RaiseDisputeRequest struct {
	DisputeType     string   `json:"dispute_type" validate:"required,oneof=scoring bias process criteria"`
	Description     string   `json:"description" validate:"required"`
	EvidenceRefs    []string `json:"evidence_refs" validate:"omitempty,dive,max=500"`
	RequestedAction string   `json:"requested_action" validate:"required"`
}

func (r *RaiseDisputeRequest) ToInput() service.RaiseDisputeInput {
	return service.RaiseDisputeInput{
		Type:            model.DisputeType(r.DisputeType),
		Description:     r.Description,
		EvidenceRefs:    r.EvidenceRefs,
		RequestedAction: r.RequestedAction,
	}
}
