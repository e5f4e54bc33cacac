package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BranchID  uint  `gorm:"not null;index" json:"branch_id"`
	BarberID  uint  `gorm:"not null;index:idx_appointment_barber_start" json:"barber_id"`
	ServiceID uint  `gorm:"not null" json:"service_id"`
	ClientID  *uint `json:"client_id"`

	StartTime time.Time `gorm:"not null;index:idx_appointment_barber_start" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;not null;default:'RESERVED'" json:"status"`

	Origin          string `gorm:"size:30" json:"origin"`
	ExternalSlotRef string `gorm:"size:100" json:"external_slot_ref,omitempty"`
	Notes           string `gorm:"size:255" json:"notes"`
	CancelReason    string `gorm:"size:255" json:"cancel_reason,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
