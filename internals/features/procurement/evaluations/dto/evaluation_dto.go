// file: internals/features/procurement/evaluations/dto/evaluation_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "procureku_backend/internals/features/procurement/evaluations/model"
	service "procureku_backend/internals/features/procurement/evaluations/service"
)

/* ==============================
   Criterion payload
============================== */

type CriterionRequest struct {
	ID       string   `json:"id" validate:"required,max=80"`
	Name     string   `json:"name" validate:"required,max=160"`
	Weight   float64  `json:"weight" validate:"gte=0"`
	MaxScore *float64 `json:"max_score" validate:"omitempty,gt=0"`
	Group    *string  `json:"group" validate:"omitempty,max=80"`
	Required *bool    `json:"required" validate:"omitempty"`
}

func (r CriterionRequest) toModel() model.Criterion {
	required := true
	if r.Required != nil {
		required = *r.Required
	}
	return model.Criterion{
		CriterionID:   strings.TrimSpace(r.ID),
		CriterionName: strings.TrimSpace(r.Name),
		Weight:        r.Weight,
		MaxScore:      r.MaxScore,
		Group:         r.Group,
		Required:      required,
	}
}

func criteriaToModel(in []CriterionRequest) model.CriterionList {
	out := make(model.CriterionList, 0, len(in))
	for _, c := range in {
		out = append(out, c.toModel())
	}
	return out
}

/* ==============================
   CREATE (POST /evaluations)
============================== */

type CreateEvaluationRequest struct {
	EvaluationRFQID              uuid.UUID          `json:"evaluation_rfq_id" validate:"required"`
	EvaluationTitle              string             `json:"evaluation_title" validate:"required,max=200"`
	EvaluationDescription        *string            `json:"evaluation_description" validate:"omitempty"`
	EvaluationType               string             `json:"evaluation_type" validate:"required,oneof=technical commercial combined prequalification post_award"`
	EvaluationScoringMethod      string             `json:"evaluation_scoring_method" validate:"required,oneof=weighted_scoring points_system pass_fail ranking hybrid"`
	EvaluationMaxScore           float64            `json:"evaluation_max_score" validate:"required,gt=0"`
	EvaluationPassingScore       *float64           `json:"evaluation_passing_score" validate:"omitempty,gte=0"`
	EvaluationCriteria           []CriterionRequest `json:"evaluation_criteria" validate:"required,min=1,dive"`
	EvaluationEvaluatorIDs       []uuid.UUID        `json:"evaluation_evaluator_ids" validate:"required,min=1"`
	EvaluationIsBlind            *bool              `json:"evaluation_is_blind" validate:"omitempty"`
	EvaluationAllowConsensus     *bool              `json:"evaluation_allow_consensus" validate:"omitempty"`
	EvaluationConsensusThreshold *int               `json:"evaluation_consensus_threshold" validate:"omitempty,gte=50,lte=100"`
	EvaluationDeadline           time.Time          `json:"evaluation_deadline" validate:"required"`
}

func (r *CreateEvaluationRequest) ToInput() service.CreateEvaluationInput {
	isBlind := false
	if r.EvaluationIsBlind != nil {
		isBlind = *r.EvaluationIsBlind
	}
	return service.CreateEvaluationInput{
		RFQID:              r.EvaluationRFQID,
		Title:              r.EvaluationTitle,
		Description:        r.EvaluationDescription,
		Type:               model.EvaluationType(r.EvaluationType),
		ScoringMethod:      model.ScoringMethod(r.EvaluationScoringMethod),
		MaxScore:           r.EvaluationMaxScore,
		PassingScore:       r.EvaluationPassingScore,
		Criteria:           criteriaToModel(r.EvaluationCriteria),
		EvaluatorIDs:       r.EvaluationEvaluatorIDs,
		IsBlind:            isBlind,
		AllowConsensus:     r.EvaluationAllowConsensus,
		ConsensusThreshold: r.EvaluationConsensusThreshold,
		Deadline:           r.EvaluationDeadline,
	}
}

/* ==============================
   UPDATE (PUT /evaluations/:id — draft only)
============================== */

type UpdateEvaluationRequest struct {
	EvaluationTitle              *string             `json:"evaluation_title" validate:"omitempty,max=200"`
	EvaluationDescription        *string             `json:"evaluation_description" validate:"omitempty"`
	EvaluationType               *string             `json:"evaluation_type" validate:"omitempty,oneof=technical commercial combined prequalification post_award"`
	EvaluationScoringMethod      *string             `json:"evaluation_scoring_method" validate:"omitempty,oneof=weighted_scoring points_system pass_fail ranking hybrid"`
	EvaluationMaxScore           *float64            `json:"evaluation_max_score" validate:"omitempty,gt=0"`
	EvaluationPassingScore       *float64            `json:"evaluation_passing_score" validate:"omitempty,gte=0"`
	EvaluationCriteria           *[]CriterionRequest `json:"evaluation_criteria" validate:"omitempty,min=1,dive"`
	EvaluationIsBlind            *bool               `json:"evaluation_is_blind" validate:"omitempty"`
	EvaluationAllowConsensus     *bool               `json:"evaluation_allow_consensus" validate:"omitempty"`
	EvaluationConsensusThreshold *int                `json:"evaluation_consensus_threshold" validate:"omitempty,gte=50,lte=100"`
	EvaluationDeadline           *time.Time          `json:"evaluation_deadline" validate:"omitempty"`
}

func (r *UpdateEvaluationRequest) ToInput() service.UpdateEvaluationInput {
	in := service.UpdateEvaluationInput{
		Title:              r.EvaluationTitle,
		Description:        r.EvaluationDescription,
		MaxScore:           r.EvaluationMaxScore,
		PassingScore:       r.EvaluationPassingScore,
		IsBlind:            r.EvaluationIsBlind,
		AllowConsensus:     r.EvaluationAllowConsensus,
		ConsensusThreshold: r.EvaluationConsensusThreshold,
		Deadline:           r.EvaluationDeadline,
	}
	if r.EvaluationType != nil {
		t := model.EvaluationType(*r.EvaluationType)
		in.Type = &t
	}
	if r.EvaluationScoringMethod != nil {
		m := model.ScoringMethod(*r.EvaluationScoringMethod)
		in.ScoringMethod = &m
	}
	if r.EvaluationCriteria != nil {
		crit := criteriaToModel(*r.EvaluationCriteria)
		in.Criteria = &crit
	}
	return in
}

/* ==============================
   CANCEL (DELETE /evaluations/:id)
============================== */

type CancelEvaluationRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

/* ==============================
   EVALUATOR MEMBERSHIP
============================== */

type EvaluatorMutationRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}
