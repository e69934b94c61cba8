package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SpendingCategory classifies transactions, e.g. "Groceries".
//
// Spending categories may be linked to a budget category so that actual
// spending can be compared against budgeted amounts.
type SpendingCategory struct {
	DefaultModel
	Family           Family          `json:"-"`
	FamilyID         uuid.UUID       `json:"familyId" gorm:"uniqueIndex:spending_category_family_name"`
	Name             string          `json:"name" gorm:"uniqueIndex:spending_category_family_name" example:"Groceries"`
	BudgetCategory   *BudgetCategory `json:"-"`
	BudgetCategoryID *uuid.UUID      `json:"budgetCategoryId,omitempty"`
}

var ErrSpendingCategoryNameNotUnique = errors.New("the spending category name must be unique for the family")

func (s *SpendingCategory) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)

	if s.BudgetCategoryID != nil && *s.BudgetCategoryID == uuid.Nil {
		s.BudgetCategoryID = nil
	}

	return nil
}

func (s *SpendingCategory) BeforeCreate(tx *gorm.DB) error {
	_ = s.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*SpendingCategory)
	return tx.First(&Family{}, toSave.FamilyID).Error
}

// Transaction is a categorized bank transaction.
//
// Transactions are owned by the external import subsystem. The ledger
// only reads them for reports and spend totals; the write path exists so
// the importer can hand rows over.
type Transaction struct {
	DefaultModel
	Family             Family            `json:"-"`
	FamilyID           uuid.UUID         `json:"familyId" gorm:"index"`
	SpendingCategory   *SpendingCategory `json:"-"`
	SpendingCategoryID *uuid.UUID        `json:"spendingCategoryId,omitempty"`
	Date               time.Time         `json:"date"`
	Amount             decimal.Decimal   `json:"amount" gorm:"type:DECIMAL(20,8)" example:"42.13"` // Expense amount, always positive
	Merchant           string            `json:"merchant,omitempty" example:"Corner Store"`
	Note               string            `json:"note,omitempty"`
}

var ErrTransactionAmountNotPositive = errors.New("transaction amounts must be larger than zero")

func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Merchant = strings.TrimSpace(t.Merchant)
	t.Note = strings.TrimSpace(t.Note)

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if t.SpendingCategoryID != nil && *t.SpendingCategoryID == uuid.Nil {
		t.SpendingCategoryID = nil
	}

	return nil
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Transaction)
	err := tx.First(&Family{}, toSave.FamilyID).Error
	if err != nil {
		return err
	}

	if toSave.SpendingCategoryID != nil && *toSave.SpendingCategoryID != uuid.Nil {
		return tx.First(&SpendingCategory{}, "id = ? AND family_id = ?", *toSave.SpendingCategoryID, toSave.FamilyID).Error
	}

	return nil
}

func (t *Transaction) AfterSave(_ *gorm.DB) error {
	if !t.Amount.IsPositive() {
		return ErrTransactionAmountNotPositive
	}

	return nil
}

// AfterFind enforces dates to be in UTC.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return
}
