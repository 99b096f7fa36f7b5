package entities

import "time"

// AccessEvent is one line of the access trail: who did what, and how it went.
type AccessEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"index" json:"email"`
	Event     string    `json:"event"`
	Status    string    `json:"status"` // SUCCESS|WARNING|FAILED
	CreatedAt time.Time `json:"created_at"`
}

// StoreRevision is the single-row revision counter of the sqlite record store.
type StoreRevision struct {
	ID        uint  `gorm:"primaryKey"`
	Revision  int64 `gorm:"not null;default:0"`
	UpdatedAt time.Time
}
