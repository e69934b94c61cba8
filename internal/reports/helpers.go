package reports

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// BreakdownRow is one named slice of a total, with its share in percent.
type BreakdownRow struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// percentage returns part/total*100 rounded to two digits, and zero when
// the total is zero.
func percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}

	return part.Div(total).Mul(oneHundred).Round(2)
}

// breakdownRows converts a name -> amount map into rows sorted by amount
// descending, ties broken by name ascending for determinism.
func breakdownRows(amounts map[string]decimal.Decimal, total decimal.Decimal) []BreakdownRow {
	rows := make([]BreakdownRow, 0, len(amounts))
	for name, amount := range amounts {
		rows = append(rows, BreakdownRow{
			Name:       name,
			Amount:     amount,
			Percentage: percentage(amount, total),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Amount.Equal(rows[j].Amount) {
			return rows[i].Amount.GreaterThan(rows[j].Amount)
		}
		return rows[i].Name < rows[j].Name
	})

	return rows
}

// receivedIncomeEvents loads the family's received income events with an
// actual date in [from, to].
func receivedIncomeEvents(db *gorm.DB, familyID uuid.UUID, from, to time.Time) ([]models.IncomeEvent, error) {
	var events []models.IncomeEvent
	err := db.
		Where("family_id = ? AND status = ?", familyID, models.IncomeEventStatusReceived).
		Where("actual_date >= ? AND actual_date <= ?", from.In(time.UTC), to.In(time.UTC)).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

// rangeTransactions loads the family's transactions with a date in
// [from, to].
func rangeTransactions(db *gorm.DB, familyID uuid.UUID, from, to time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := db.
		Where("family_id = ?", familyID).
		Where("date >= ? AND date <= ?", from.In(time.UTC), to.In(time.UTC)).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// spendingCategoryNames returns a map of spending category ID to name
// for the family.
func spendingCategoryNames(db *gorm.DB, familyID uuid.UUID) (map[uuid.UUID]string, error) {
	var categories []models.SpendingCategory
	err := db.Where("family_id = ?", familyID).Find(&categories).Error
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
	}

	return names, nil
}

// categoryName resolves a transaction's category name, mapping missing
// references to the "Uncategorized" bucket.
func categoryName(names map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return "Uncategorized"
	}

	name, ok := names[*id]
	if !ok {
		return "Uncategorized"
	}

	return name
}
