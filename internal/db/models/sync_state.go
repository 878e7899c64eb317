package models

import "time"

// SyncState marks the local cache as changed so the next sync pushes and refreshes it
type SyncState struct {
	ID       uint      `gorm:"primaryKey"`
	Dirty    bool      `gorm:"not null;default:false"`
	MarkedAt time.Time `gorm:""`
}
