package models

import (
	"strings"

	"gorm.io/gorm"
)

// Family is the ownership root of the ledger.
//
// All other resources reference it directly or transitively, and every
// lookup is scoped to a family.
type Family struct {
	DefaultModel
	Name     string `json:"name" example:"Miller household"`
	Note     string `json:"note,omitempty" example:"Shared family budget"`
	Currency string `json:"currency,omitempty" example:"USD"` // Display label only, the ledger is single-currency
}

func (f *Family) BeforeSave(_ *gorm.DB) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Note = strings.TrimSpace(f.Note)
	f.Currency = strings.TrimSpace(f.Currency)

	return nil
}
