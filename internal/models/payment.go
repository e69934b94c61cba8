package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentType distinguishes one-off, recurring and variable payments.
type PaymentType string

const (
	PaymentTypeOnce      PaymentType = "once"
	PaymentTypeRecurring PaymentType = "recurring"
	PaymentTypeVariable  PaymentType = "variable"
)

// PaymentStatus is the lifecycle state of a payment.
//
// Only scheduled, paid and cancelled are stored. Overdue and partial are
// derived at read time, see Payment.DisplayStatus.
type PaymentStatus string

const (
	PaymentStatusScheduled PaymentStatus = "scheduled"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusPartial   PaymentStatus = "partial"
)

// Payment represents a scheduled or paid bill for a family.
//
// AttributedAmount is a denormalized aggregate over the payment's
// attribution links. Only the attribution engine mutates it.
type Payment struct {
	DefaultModel
	Family             Family            `json:"-"`
	FamilyID           uuid.UUID         `json:"familyId" gorm:"index"`
	Payee              string            `json:"payee" example:"City Power & Light"`
	Note               string            `json:"note,omitempty"`
	Amount             decimal.Decimal   `json:"amount" gorm:"type:DECIMAL(20,8)" example:"120.5"`
	DueDate            time.Time         `json:"dueDate"`
	Type               PaymentType       `json:"type" example:"recurring"`
	Frequency          Frequency         `json:"frequency,omitempty" example:"monthly"` // Required iff Type is recurring
	Status             PaymentStatus     `json:"status" example:"scheduled"`
	SpendingCategory   *SpendingCategory `json:"-"`
	SpendingCategoryID *uuid.UUID        `json:"spendingCategoryId,omitempty"`
	AutoPay            bool              `json:"autoPay"`
	PaidDate           *time.Time        `json:"paidDate,omitempty"`
	PaidAmount         *decimal.Decimal  `json:"paidAmount,omitempty" gorm:"type:DECIMAL(20,8)"`
	AttributedAmount   decimal.Decimal   `json:"attributedAmount" gorm:"type:DECIMAL(20,8)"` // Sum of this payment's attribution links
	SeriesID           uuid.UUID         `json:"seriesId" gorm:"index"`                      // Shared by all occurrences spawned from the same recurring payment
}

var (
	ErrPaymentAmountNotPositive  = errors.New("payment amounts must be larger than zero")
	ErrPaymentPayeeRequired      = errors.New("the payee must be set")
	ErrPaymentTypeInvalid        = errors.New("the payment type must be one of once, recurring, variable")
	ErrPaymentStatusInvalid      = errors.New("the payment status must be one of scheduled, paid, cancelled")
	ErrPaymentFrequencyRequired  = errors.New("recurring payments must have a recurring frequency")
	ErrPaymentFrequencyForbidden = errors.New("only recurring payments may have a recurring frequency")
)

// DisplayStatus derives the read-time status of the payment.
//
// A scheduled payment with a due date in the past is overdue. A scheduled
// payment that is partially attributed displays as partial. Neither state
// is stored, so both self-correct when the underlying fields change.
func (p Payment) DisplayStatus(now time.Time) PaymentStatus {
	if p.Status != PaymentStatusScheduled {
		return p.Status
	}

	if p.DueDate.Before(now.Truncate(24 * time.Hour)) {
		return PaymentStatusOverdue
	}

	if p.AttributedAmount.IsPositive() && p.AttributedAmount.LessThan(p.Amount) {
		return PaymentStatusPartial
	}

	return p.Status
}

func (p *Payment) BeforeSave(_ *gorm.DB) error {
	p.Payee = strings.TrimSpace(p.Payee)
	p.Note = strings.TrimSpace(p.Note)

	p.DueDate = p.DueDate.In(time.UTC)
	if p.PaidDate != nil {
		utc := p.PaidDate.In(time.UTC)
		p.PaidDate = &utc
	}

	// A nil pointer is used for "no category", never a pointer to the nil UUID
	if p.SpendingCategoryID != nil && *p.SpendingCategoryID == uuid.Nil {
		p.SpendingCategoryID = nil
	}

	return nil
}

// AfterFind enforces dates to be in UTC.
func (p *Payment) AfterFind(tx *gorm.DB) (err error) {
	err = p.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	p.DueDate = p.DueDate.In(time.UTC)
	if p.PaidDate != nil {
		utc := p.PaidDate.In(time.UTC)
		p.PaidDate = &utc
	}

	return nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)

	// Every payment starts its own series unless it was spawned from one
	if p.SeriesID == uuid.Nil {
		p.SeriesID = p.ID
	}

	toSave := tx.Statement.Dest.(*Payment)
	return p.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources.
func (p *Payment) checkIntegrity(tx *gorm.DB, toSave Payment) error {
	err := tx.First(&Family{}, toSave.FamilyID).Error
	if err != nil {
		return err
	}

	if toSave.SpendingCategoryID != nil && *toSave.SpendingCategoryID != uuid.Nil {
		return tx.First(&SpendingCategory{}, "id = ? AND family_id = ?", *toSave.SpendingCategoryID, toSave.FamilyID).Error
	}

	return nil
}

func (p *Payment) AfterSave(_ *gorm.DB) error {
	if !p.Amount.IsPositive() {
		return ErrPaymentAmountNotPositive
	}

	if p.Payee == "" {
		return ErrPaymentPayeeRequired
	}

	switch p.Type {
	case PaymentTypeOnce, PaymentTypeRecurring, PaymentTypeVariable:
	default:
		return ErrPaymentTypeInvalid
	}

	switch p.Status {
	case PaymentStatusScheduled, PaymentStatusPaid, PaymentStatusCancelled:
	default:
		return ErrPaymentStatusInvalid
	}

	if p.Frequency != "" && !p.Frequency.Valid() {
		return ErrFrequencyInvalid
	}

	if p.Type == PaymentTypeRecurring && !p.Frequency.Recurring() {
		return ErrPaymentFrequencyRequired
	}

	if p.Type != PaymentTypeRecurring && p.Frequency.Recurring() {
		return ErrPaymentFrequencyForbidden
	}

	return nil
}
