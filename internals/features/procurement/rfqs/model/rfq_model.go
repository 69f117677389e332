// file: internals/features/procurement/rfqs/model/rfq_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   Enum Status RFQ
   ========================================================= */

type RFQStatus string

const (
	RFQStatusDraft     RFQStatus = "draft"
	RFQStatusPublished RFQStatus = "published"
	RFQStatusClosed    RFQStatus = "closed"
	RFQStatusAwarded   RFQStatus = "awarded"
	RFQStatusCancelled RFQStatus = "cancelled"
)

// ClosedForSubmissions: syarat sebuah RFQ boleh dievaluasi.
func (s RFQStatus) ClosedForSubmissions() bool {
	return s == RFQStatusClosed || s == RFQStatusAwarded
}

/* =========================================================
   RFQ (rfqs)
   ========================================================= */

type RFQModel struct {
	// PK
	RFQID uuid.UUID `gorm:"type:uuid;primaryKey;column:rfq_id" json:"rfq_id"`

	// Identitas
	RFQTitle           string  `gorm:"type:varchar(200);not null;column:rfq_title" json:"rfq_title"`
	RFQReferenceNumber string  `gorm:"type:varchar(60);not null;uniqueIndex:uq_rfq_reference;column:rfq_reference_number" json:"rfq_reference_number"`
	RFQDescription     *string `gorm:"type:text;column:rfq_description" json:"rfq_description,omitempty"`

	// Ownership
	RFQOwnerUserID uuid.UUID `gorm:"type:uuid;not null;column:rfq_owner_user_id;index:idx_rfq_owner" json:"rfq_owner_user_id"`

	// Status & waktu
	RFQStatus             RFQStatus  `gorm:"type:varchar(16);not null;default:'draft';column:rfq_status;index:idx_rfq_status" json:"rfq_status"`
	RFQSubmissionDeadline *time.Time `gorm:"column:rfq_submission_deadline" json:"rfq_submission_deadline,omitempty"`

	// Timestamps
	RFQCreatedAt time.Time `gorm:"not null;autoCreateTime;column:rfq_created_at" json:"rfq_created_at"`
	RFQUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:rfq_updated_at" json:"rfq_updated_at"`

	// Children
	Submissions []SubmissionModel `gorm:"foreignKey:SubmissionRFQID;references:RFQID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"submissions,omitempty"`
}

func (RFQModel) TableName() string { return "rfqs" }

func (m *RFQModel) BeforeCreate(tx *gorm.DB) error {
	if m.RFQID == uuid.Nil {
		m.RFQID = uuid.New()
	}
	return nil
}
