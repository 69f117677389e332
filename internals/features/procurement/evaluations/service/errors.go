// file: internals/features/procurement/evaluations/service/errors.go
package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	model "procureku_backend/internals/features/procurement/evaluations/model"
)

// Taksonomi error engine. Semua dideteksi sinkron di dalam operasi yang
// memicunya dan dikembalikan ke caller dengan detail terstruktur;
// tidak ada yang di-retry otomatis.

type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s tidak ditemukan", e.Resource, e.ID)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type StateConflictError struct {
	Current   model.EvaluationStatus
	Attempted string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("operasi %q tidak diizinkan pada status %q", e.Attempted, e.Current)
}

type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }

// ThresholdNotMetError membawa required vs actual supaya caller bisa
// menampilkan selisihnya; evaluasi tetap di status consensus untuk retry.
type ThresholdNotMetError struct {
	Required float64
	Actual   float64
}

func (e *ThresholdNotMetError) Error() string {
	return fmt.Sprintf("kesepakatan %.0f%% di bawah threshold %.0f%%", e.Actual, e.Required)
}

type DeadlinePassedError struct {
	Deadline time.Time
}

func (e *DeadlinePassedError) Error() string {
	return fmt.Sprintf("deadline penilaian sudah lewat (%s)", e.Deadline.Format(time.RFC3339))
}
