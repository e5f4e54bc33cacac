package models

import "time"

// Scope types for schedule exceptions.
const (
	ScopeBranch = "BRANCH"
	ScopeBarber = "BARBER"
)

// Exception kinds.
const (
	ExceptionClosed       = "CLOSED"
	ExceptionSpecialHours = "SPECIAL_HOURS"
)

// BranchSchedule is the recurring weekly opening time of a branch. Clock
// values are "HH:MM" and Weekday follows time.Weekday (0 = Sunday).
type BranchSchedule struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BranchID  uint   `gorm:"not null;uniqueIndex:ux_branch_schedule_day" json:"branch_id"`
	Weekday   int    `gorm:"not null;uniqueIndex:ux_branch_schedule_day" json:"weekday"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BarberSchedule struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BarberID  uint   `gorm:"not null;uniqueIndex:ux_barber_schedule_day" json:"barber_id"`
	Weekday   int    `gorm:"not null;uniqueIndex:ux_barber_schedule_day" json:"weekday"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScheduleException overrides the recurring schedule for a single date.
// Date is stored as "YYYY-MM-DD" so it never drifts across time zones.
type ScheduleException struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ScopeType string  `gorm:"size:10;not null;uniqueIndex:ux_schedule_exception" json:"scope_type"`
	ScopeID   uint    `gorm:"not null;uniqueIndex:ux_schedule_exception" json:"scope_id"`
	Date      string  `gorm:"size:10;not null;uniqueIndex:ux_schedule_exception" json:"date"`
	Kind      string  `gorm:"size:20;not null" json:"kind"`
	StartTime *string `gorm:"size:5" json:"start_time,omitempty"`
	EndTime   *string `gorm:"size:5" json:"end_time,omitempty"`
	Reason    string  `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BarberBreak struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BarberID  uint   `gorm:"not null;index" json:"barber_id"`
	Weekday   int    `gorm:"not null" json:"weekday"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Label     string `gorm:"size:50" json:"label"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
