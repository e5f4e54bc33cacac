package models

import "time"

// Client has no login; ExternalCode carries the partner user id when the
// client arrived through the mall.
type Client struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Phone        string `gorm:"size:20" json:"phone"`
	Email        string `gorm:"size:100" json:"email"`
	ExternalCode string `gorm:"size:100;uniqueIndex" json:"external_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
