// file: internals/features/procurement/rfqs/model/submission_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusWithdrawn SubmissionStatus = "withdrawn"
)

/* =========================================================
   Submission (rfq_submissions) — bid supplier terhadap satu RFQ
   ========================================================= */

type SubmissionModel struct {
	// PK
	SubmissionID uuid.UUID `gorm:"type:uuid;primaryKey;column:submission_id" json:"submission_id"`

	// Relations
	SubmissionRFQID      uuid.UUID `gorm:"type:uuid;not null;column:submission_rfq_id;index:idx_submission_rfq" json:"submission_rfq_id"`
	SubmissionSupplierID uuid.UUID `gorm:"type:uuid;not null;column:submission_supplier_id;index:idx_submission_supplier" json:"submission_supplier_id"`

	// Snapshot supplier (nama untuk display; kebenaran data di supplier service)
	SubmissionSupplierName string `gorm:"type:varchar(200);not null;column:submission_supplier_name" json:"submission_supplier_name"`

	// Harga
	SubmissionTotalPrice float64 `gorm:"type:numeric(14,2);not null;default:0;column:submission_total_price" json:"submission_total_price"`
	SubmissionCurrency   string  `gorm:"type:varchar(8);not null;default:'IDR';column:submission_currency" json:"submission_currency"`

	// Status & waktu
	SubmissionStatus      SubmissionStatus `gorm:"type:varchar(16);not null;default:'submitted';column:submission_status" json:"submission_status"`
	SubmissionSubmittedAt time.Time        `gorm:"not null;column:submission_submitted_at" json:"submission_submitted_at"`

	// Timestamps
	SubmissionCreatedAt time.Time `gorm:"not null;autoCreateTime;column:submission_created_at" json:"submission_created_at"`
	SubmissionUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:submission_updated_at" json:"submission_updated_at"`
}

func (SubmissionModel) TableName() string { return "rfq_submissions" }

func (m *SubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubmissionID == uuid.Nil {
		m.SubmissionID = uuid.New()
	}
	return nil
}
