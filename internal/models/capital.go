package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CapitalFact is one country/capital pair from the reference set.
// Rows are loaded once at startup and never mutated afterwards.
type CapitalFact struct {
	ID        uint      `gorm:"primaryKey"`
	Country   string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Capital   string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CapitalFact) TableName() string {
	return "capitals"
}

func (f *CapitalFact) BeforeSave(tx *gorm.DB) error {
	f.Country = strings.TrimSpace(f.Country)
	f.Capital = strings.TrimSpace(f.Capital)

	if f.Country == "" {
		return fmt.Errorf("country is required")
	}
	if f.Capital == "" {
		return fmt.Errorf("capital is required")
	}
	return nil
}
