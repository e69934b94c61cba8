package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/ledger"
	"github.com/hearthledger/backend/internal/models"
)

// BudgetStatus classifies a category's spending against its budget.
type BudgetStatus string

const (
	BudgetStatusUnder   BudgetStatus = "under_budget"    // < 100%
	BudgetStatusOver    BudgetStatus = "over_budget"     // 100% - 125%
	BudgetStatusWayOver BudgetStatus = "way_over_budget" // > 125%
)

// Fixed policy thresholds for the budget status classification.
var wayOverThreshold = decimal.NewFromInt(125)

// BudgetPerformanceRow is the performance of one budget category.
type BudgetPerformanceRow struct {
	BudgetCategoryID      uuid.UUID       `json:"budgetCategoryId"`
	Name                  string          `json:"name"`
	Budgeted              decimal.Decimal `json:"budgeted"`
	Spent                 decimal.Decimal `json:"spent"`
	PerformancePercentage decimal.Decimal `json:"performancePercentage"`
	Status                BudgetStatus    `json:"status"`
}

// BudgetPerformanceReport compares budgeted against spent amounts per
// active budget category.
type BudgetPerformanceReport struct {
	From             time.Time              `json:"from"`
	To               time.Time              `json:"to"`
	TotalBudgeted    decimal.Decimal        `json:"totalBudgeted"`
	TotalSpent       decimal.Decimal        `json:"totalSpent"`
	PerformanceScore decimal.Decimal        `json:"performanceScore"` // 0-100, 100 is on or under budget
	Categories       []BudgetPerformanceRow `json:"categories"`
}

// BudgetPerformance reduces allocations and transactions in [from, to]
// into a per-category performance view.
func BudgetPerformance(db *gorm.DB, familyID uuid.UUID, from, to time.Time) (BudgetPerformanceReport, error) {
	var categories []models.BudgetCategory
	err := db.
		Where("family_id = ? AND archived = ?", familyID, false).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return BudgetPerformanceReport{}, err
	}

	report := BudgetPerformanceReport{
		From:          from,
		To:            to,
		TotalBudgeted: decimal.Zero,
		TotalSpent:    decimal.Zero,
		Categories:    make([]BudgetPerformanceRow, 0, len(categories)),
	}

	for _, category := range categories {
		consumption, err := ledger.GetCategoryConsumption(db, familyID, category.ID, from, to)
		if err != nil {
			return BudgetPerformanceReport{}, err
		}

		row := BudgetPerformanceRow{
			BudgetCategoryID:      category.ID,
			Name:                  category.Name,
			Budgeted:              consumption.Budgeted,
			Spent:                 consumption.Spent,
			PerformancePercentage: percentage(consumption.Spent, consumption.Budgeted),
		}
		row.Status = budgetStatus(row.PerformancePercentage)

		report.TotalBudgeted = report.TotalBudgeted.Add(row.Budgeted)
		report.TotalSpent = report.TotalSpent.Add(row.Spent)
		report.Categories = append(report.Categories, row)
	}

	report.PerformanceScore = performanceScore(report.TotalBudgeted, report.TotalSpent)

	return report, nil
}

func budgetStatus(performancePercentage decimal.Decimal) BudgetStatus {
	switch {
	case performancePercentage.LessThan(oneHundred):
		return BudgetStatusUnder
	case performancePercentage.LessThanOrEqual(wayOverThreshold):
		return BudgetStatusOver
	default:
		return BudgetStatusWayOver
	}
}

// performanceScore is 100 minus the overspend in percent of the total
// budget, clamped to [0, 100].
func performanceScore(budgeted, spent decimal.Decimal) decimal.Decimal {
	if budgeted.IsZero() {
		if spent.IsZero() {
			return oneHundred
		}
		return decimal.Zero
	}

	overspend := spent.Sub(budgeted).Div(budgeted).Mul(oneHundred)
	if overspend.IsNegative() {
		overspend = decimal.Zero
	}

	score := oneHundred.Sub(overspend)
	if score.IsNegative() {
		return decimal.Zero
	}

	return score.Round(2)
}
