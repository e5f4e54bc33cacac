package models

import "time"

// Service is a bookable offering. BranchID is an optional affinity: when
// set, the service is only sold at that branch.
type Service struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	BranchID     *uint   `gorm:"index" json:"branch_id"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	Description  string  `gorm:"size:255" json:"description"`
	DurationMin  int     `gorm:"not null" json:"duration_min"`
	Price        float64 `json:"price"`
	Active       bool    `gorm:"default:true" json:"active"`
	ExternalCode *string `gorm:"size:100;uniqueIndex" json:"external_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
