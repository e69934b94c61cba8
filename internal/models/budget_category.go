package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetCategory is a percentage-based budget bucket.
//
// When an income event is received, its effective amount is distributed
// over the family's active categories according to their percentages.
type BudgetCategory struct {
	DefaultModel
	Family             Family             `json:"-"`
	FamilyID           uuid.UUID          `json:"familyId" gorm:"uniqueIndex:budget_category_family_name"`
	Name               string             `json:"name" gorm:"uniqueIndex:budget_category_family_name" example:"Housing"`
	Note               string             `json:"note,omitempty"`
	Percentage         decimal.Decimal    `json:"percentage" gorm:"type:DECIMAL(20,8)" example:"30"` // Target percentage of income, 0-100
	Archived           bool               `json:"archived"`
	SpendingCategories []SpendingCategory `json:"-"` // Linked spending categories used for spend totals
}

var (
	ErrBudgetCategoryNameNotUnique   = errors.New("the budget category name must be unique for the family")
	ErrBudgetCategoryPercentageRange = errors.New("the budget category percentage must be between 0 and 100")
)

var percentageLimit = decimal.NewFromInt(100)

func (b *BudgetCategory) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*BudgetCategory)
	return tx.First(&Family{}, toSave.FamilyID).Error
}

func (b *BudgetCategory) AfterSave(_ *gorm.DB) error {
	if b.Percentage.IsNegative() || b.Percentage.GreaterThan(percentageLimit) {
		return ErrBudgetCategoryPercentageRange
	}

	return nil
}

// ActivePercentageSum returns the sum of percentages over all active
// budget categories of a family.
//
// Percentages SHOULD sum to at most 100, but under- and over-allocation
// are allowed. Callers warn on over-allocation instead of rejecting.
func ActivePercentageSum(db *gorm.DB, familyID uuid.UUID) (decimal.Decimal, error) {
	var categories []BudgetCategory
	err := db.Where(&BudgetCategory{FamilyID: familyID}).Where("archived = ?", false).Find(&categories).Error
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, category := range categories {
		sum = sum.Add(category.Percentage)
	}

	return sum, nil
}
