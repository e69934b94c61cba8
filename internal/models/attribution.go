package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AttributionType records whether an attribution was made by hand or by
// accepting an automatic split suggestion.
type AttributionType string

const (
	AttributionTypeManual    AttributionType = "manual"
	AttributionTypeAutomatic AttributionType = "automatic"
)

// PaymentAttribution links a payment to an income event, earmarking part
// of the income event's money for the payment.
type PaymentAttribution struct {
	DefaultModel
	Payment       Payment         `json:"-"`
	PaymentID     uuid.UUID       `json:"paymentId" gorm:"index"`
	IncomeEvent   IncomeEvent     `json:"-"`
	IncomeEventID uuid.UUID       `json:"incomeEventId" gorm:"index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"700"`
	Type          AttributionType `json:"type" example:"manual"`
}

var (
	ErrAttributionAmountNotPositive = errors.New("attribution amounts must be larger than zero")
	ErrAttributionTypeInvalid       = errors.New("the attribution type must be one of manual, automatic")
)

func (a *PaymentAttribution) BeforeSave(_ *gorm.DB) error {
	if a.Type == "" {
		a.Type = AttributionTypeManual
	}

	return nil
}

func (a *PaymentAttribution) AfterSave(_ *gorm.DB) error {
	if !a.Amount.IsPositive() {
		return ErrAttributionAmountNotPositive
	}

	switch a.Type {
	case AttributionTypeManual, AttributionTypeAutomatic:
	default:
		return ErrAttributionTypeInvalid
	}

	return nil
}
