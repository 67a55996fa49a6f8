package rolodex

import (
	"time"
)

// Model is a base model that includes the storage-managed fields ID, CreatedAt, and UpdatedAt.
type Model struct {
	ID        string    `db:"id" json:"id" desc:"A unique identifier assigned by storage" ex:"123e4567-e89b-12d3-a456-426614174000"`
	CreatedAt time.Time `db:"created_at" json:"createdAt" desc:"The time the record was created" ex:"2023-10-01T12:00:00Z"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt" desc:"The time the record was last updated" ex:"2023-10-01T12:00:00Z"`
}

// Stamp fills the timestamps the way a store does on insert.
func (m *Model) Stamp(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}
