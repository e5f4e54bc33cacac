package models

import "time"

type Sale struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderCode string `gorm:"size:64;uniqueIndex;not null" json:"order_code"`
	ClientID  uint   `gorm:"not null" json:"client_id"`
	BranchID  uint   `gorm:"not null;index" json:"branch_id"`
	Status    string `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	TotalGross float64 `json:"total_gross"`
	Discount   float64 `json:"discount"`
	TotalNet   float64 `json:"total_net"`

	Origin           string `gorm:"size:30" json:"origin"`
	Comments         string `gorm:"size:255" json:"comments"`
	ConfirmationCode string `gorm:"size:64" json:"confirmation_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaleLine references its sale and optional appointment by id only.
type SaleLine struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	SaleID        uint  `gorm:"not null;index" json:"sale_id"`
	ServiceID     uint  `gorm:"not null" json:"service_id"`
	AppointmentID *uint `gorm:"index" json:"appointment_id"`

	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
	Total     float64 `json:"total"`

	ServiceExternalID string `gorm:"size:100" json:"service_external_id,omitempty"`
	AppointmentTime   string `gorm:"size:32" json:"appointment_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type PaymentTransaction struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SaleID       uint    `gorm:"not null;index" json:"sale_id"`
	BusinessCode string  `gorm:"size:64;uniqueIndex;not null" json:"business_code"`
	ExternalID   string  `gorm:"size:100" json:"external_id"`
	Amount       float64 `gorm:"not null" json:"amount"`
	Status       string  `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	Description  string  `gorm:"size:255" json:"description"`
	CardLast4    string  `gorm:"size:4" json:"card_last4"`
	BankStatus   string  `gorm:"size:50" json:"bank_status"`
	RawPayload   string  `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
