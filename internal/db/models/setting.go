// Package models contains database model definitions.
package models

import "time"

// Setting is one named configuration value. Values are opaque bytes.
type Setting struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"unique;size:191;not null"`
	Value     []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}
