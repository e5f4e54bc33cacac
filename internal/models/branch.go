package models

import "time"

// Branch is a physical location (sucursal) with its own operating hours.
type Branch struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	BusinessCode string `gorm:"size:50;index" json:"business_code"`
	Phone        string `gorm:"size:20" json:"phone"`
	Address      string `gorm:"size:255" json:"address"`
	Timezone     string `gorm:"size:64" json:"timezone"`
	Active       bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Barber struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BranchID *uint  `gorm:"index" json:"branch_id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100" json:"email"`
	Phone    string `gorm:"size:20" json:"phone"`
	Active   bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
