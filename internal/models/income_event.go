package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IncomeEventStatus is the lifecycle state of an income event.
type IncomeEventStatus string

const (
	IncomeEventStatusScheduled IncomeEventStatus = "scheduled"
	IncomeEventStatusReceived  IncomeEventStatus = "received"
	IncomeEventStatusCancelled IncomeEventStatus = "cancelled"
)

// IncomeEvent represents scheduled or received income for a family.
//
// AllocatedAmount and RemainingAmount are denormalized aggregates over
// the payment attributions drawing on this event. Only the attribution
// engine mutates them.
type IncomeEvent struct {
	DefaultModel
	Family          Family    `json:"-"`
	FamilyID        uuid.UUID `json:"familyId" gorm:"index"`
	Name            string    `json:"name" example:"Salary"`
	Source          string    `json:"source,omitempty" example:"ACME Corp"`
	Note            string    `json:"note,omitempty"`
	Amount          decimal.Decimal   `json:"amount" gorm:"type:DECIMAL(20,8)" example:"5000"` // The scheduled amount
	Date            time.Time         `json:"date"`                                            // The scheduled date
	Frequency       Frequency         `json:"frequency" example:"monthly"`
	Status          IncomeEventStatus `json:"status" example:"scheduled"`
	ActualDate      *time.Time        `json:"actualDate,omitempty"`                                       // Set when the income is received
	ActualAmount    *decimal.Decimal  `json:"actualAmount,omitempty" gorm:"type:DECIMAL(20,8)"`           // Set when the income is received
	AllocatedAmount decimal.Decimal   `json:"allocatedAmount" gorm:"type:DECIMAL(20,8)" example:"700"`    // Sum of attributions drawing on this event
	RemainingAmount decimal.Decimal   `json:"remainingAmount" gorm:"type:DECIMAL(20,8)" example:"4300"`   // Effective amount minus AllocatedAmount
	NextDate        *time.Time        `json:"nextDate,omitempty"`                                         // Projected next occurrence, nil for one-off income
}

var (
	ErrIncomeEventAmountNotPositive = errors.New("income event amounts must be larger than zero")
	ErrIncomeEventStatusInvalid     = errors.New("the income event status must be one of scheduled, received, cancelled")
)

// EffectiveAmount is the actual amount if the income has been received,
// the scheduled amount otherwise.
func (i IncomeEvent) EffectiveAmount() decimal.Decimal {
	if i.Status == IncomeEventStatusReceived && i.ActualAmount != nil {
		return *i.ActualAmount
	}
	return i.Amount
}

// EffectiveDate is the actual date if the income has been received, the
// scheduled date otherwise.
func (i IncomeEvent) EffectiveDate() time.Time {
	if i.Status == IncomeEventStatusReceived && i.ActualDate != nil {
		return *i.ActualDate
	}
	return i.Date
}

// SourceLabel is the source if set, falling back to the name.
func (i IncomeEvent) SourceLabel() string {
	if i.Source != "" {
		return i.Source
	}
	return i.Name
}

func (i *IncomeEvent) BeforeSave(_ *gorm.DB) error {
	i.Name = strings.TrimSpace(i.Name)
	i.Source = strings.TrimSpace(i.Source)
	i.Note = strings.TrimSpace(i.Note)

	i.Date = i.Date.In(time.UTC)
	if i.ActualDate != nil {
		utc := i.ActualDate.In(time.UTC)
		i.ActualDate = &utc
	}
	if i.NextDate != nil {
		utc := i.NextDate.In(time.UTC)
		i.NextDate = &utc
	}

	return nil
}

// AfterFind enforces dates to be in UTC.
func (i *IncomeEvent) AfterFind(tx *gorm.DB) (err error) {
	err = i.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	i.Date = i.Date.In(time.UTC)
	if i.ActualDate != nil {
		utc := i.ActualDate.In(time.UTC)
		i.ActualDate = &utc
	}
	if i.NextDate != nil {
		utc := i.NextDate.In(time.UTC)
		i.NextDate = &utc
	}

	return nil
}

func (i *IncomeEvent) BeforeCreate(tx *gorm.DB) error {
	_ = i.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*IncomeEvent)
	return i.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources.
func (i *IncomeEvent) checkIntegrity(tx *gorm.DB, toSave IncomeEvent) error {
	return tx.First(&Family{}, toSave.FamilyID).Error
}

func (i *IncomeEvent) AfterSave(_ *gorm.DB) error {
	if !i.Amount.IsPositive() {
		return ErrIncomeEventAmountNotPositive
	}

	if i.ActualAmount != nil && !i.ActualAmount.IsPositive() {
		return ErrIncomeEventAmountNotPositive
	}

	switch i.Status {
	case IncomeEventStatusScheduled, IncomeEventStatusReceived, IncomeEventStatusCancelled:
	default:
		return ErrIncomeEventStatusInvalid
	}

	if !i.Frequency.Valid() {
		return ErrFrequencyInvalid
	}

	return nil
}
