package model

import "time"

// BaseModel handles the numeric ID and standard audit timestamps.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateLayout is the calendar date format accepted and returned by the API.
const DateLayout = "2006-01-02"
