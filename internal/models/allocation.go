package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetAllocation is the share of a received income event assigned to a
// budget category per its target percentage.
//
// Allocations are created in bulk when an income event is received and
// are never mutated afterwards, only deleted together with the income
// event (or when the receipt is reverted).
type BudgetAllocation struct {
	DefaultModel
	BudgetCategory   BudgetCategory  `json:"-"`
	BudgetCategoryID uuid.UUID       `json:"budgetCategoryId" gorm:"index"`
	IncomeEvent      IncomeEvent     `json:"-"`
	IncomeEventID    uuid.UUID       `json:"incomeEventId" gorm:"index"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"1500"`
}
