package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// CategoryConsumption compares budgeted against spent money for one
// budget category over a date range.
type CategoryConsumption struct {
	BudgetCategoryID uuid.UUID       `json:"budgetCategoryId"`
	Name             string          `json:"name"`
	Budgeted         decimal.Decimal `json:"budgeted"`  // Sum of allocations from income received in the range
	Spent            decimal.Decimal `json:"spent"`     // Sum of transactions in the category's linked spending categories
	Available        decimal.Decimal `json:"available"` // Budgeted minus spent
}

// AllocateIncome distributes a received income event's effective amount
// across the family's active budget categories.
//
// Existing allocations of the event are replaced, so the operation is
// idempotent. MarkReceived allocates internally in its own transaction,
// this entry point exists to re-run the distribution after category
// changes.
func AllocateIncome(db *gorm.DB, familyID, incomeEventID uuid.UUID) ([]models.BudgetAllocation, error) {
	var allocations []models.BudgetAllocation
	err := db.Transaction(func(tx *gorm.DB) error {
		event, err := GetIncomeEvent(tx, familyID, incomeEventID)
		if err != nil {
			return err
		}

		if event.Status != models.IncomeEventStatusReceived {
			return ErrNotReceived
		}

		err = tx.Where(&models.BudgetAllocation{IncomeEventID: event.ID}).Delete(&models.BudgetAllocation{}).Error
		if err != nil {
			return err
		}

		allocations, err = allocateReceived(tx, event)
		return err
	})
	if err != nil {
		return nil, err
	}

	return allocations, nil
}

// allocateReceived creates one allocation per active budget category for
// a received income event.
//
// Every category except the last gets round(effective * percentage/100)
// rounded half-up to cents. The last category in name order absorbs the
// rounding remainder so the allocations sum exactly to the effective
// amount. With no active categories the full amount stays unbudgeted,
// which is not an error.
func allocateReceived(tx *gorm.DB, event models.IncomeEvent) ([]models.BudgetAllocation, error) {
	var categories []models.BudgetCategory
	err := tx.
		Where("family_id = ? AND archived = ?", event.FamilyID, false).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	if len(categories) == 0 {
		return []models.BudgetAllocation{}, nil
	}

	effective := event.EffectiveAmount()

	allocations := make([]models.BudgetAllocation, 0, len(categories))
	distributed := decimal.Zero
	for i, category := range categories {
		var amount decimal.Decimal
		if i == len(categories)-1 {
			amount = effective.Sub(distributed)
		} else {
			amount = effective.Mul(category.Percentage).Div(oneHundred).Round(2)
			distributed = distributed.Add(amount)
		}

		allocations = append(allocations, models.BudgetAllocation{
			BudgetCategoryID: category.ID,
			IncomeEventID:    event.ID,
			Amount:           amount,
		})
	}

	err = tx.Create(&allocations).Error
	if err != nil {
		return nil, err
	}

	return allocations, nil
}

// GetCategoryConsumption returns budgeted and spent sums for a budget
// category in the date range [from, to].
func GetCategoryConsumption(db *gorm.DB, familyID, categoryID uuid.UUID, from, to time.Time) (CategoryConsumption, error) {
	var category models.BudgetCategory
	err := db.First(&category, "id = ? AND family_id = ?", categoryID, familyID).Error
	if err != nil {
		return CategoryConsumption{}, err
	}

	budgeted, err := budgetedSum(db, category.ID, from, to)
	if err != nil {
		return CategoryConsumption{}, err
	}

	spent, err := spentSum(db, familyID, category.ID, from, to)
	if err != nil {
		return CategoryConsumption{}, err
	}

	return CategoryConsumption{
		BudgetCategoryID: category.ID,
		Name:             category.Name,
		Budgeted:         budgeted,
		Spent:            spent,
		Available:        budgeted.Sub(spent),
	}, nil
}

// budgetedSum sums the allocations of a budget category from income
// events received within the range.
func budgetedSum(db *gorm.DB, categoryID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.Model(&models.BudgetAllocation{}).
		Joins("JOIN income_events ON income_events.id = budget_allocations.income_event_id").
		Where("budget_allocations.budget_category_id = ?", categoryID).
		Where("income_events.actual_date >= ? AND income_events.actual_date <= ?", from.In(time.UTC), to.In(time.UTC)).
		Select("SUM(budget_allocations.amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}

// spentSum sums the transactions in the spending categories linked to a
// budget category within the range.
func spentSum(db *gorm.DB, familyID, categoryID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.Model(&models.Transaction{}).
		Joins("JOIN spending_categories ON spending_categories.id = transactions.spending_category_id").
		Where("spending_categories.budget_category_id = ?", categoryID).
		Where("transactions.family_id = ?", familyID).
		Where("transactions.date >= ? AND transactions.date <= ?", from.In(time.UTC), to.In(time.UTC)).
		Select("SUM(transactions.amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}
