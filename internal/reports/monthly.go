package reports

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/internal/types"
)

// topExpenseCount limits the expense list of the monthly summary.
const topExpenseCount = 10

// TopExpense is one of the largest transactions of the month.
type TopExpense struct {
	TransactionID uuid.UUID       `json:"transactionId"`
	Date          time.Time       `json:"date"`
	Merchant      string          `json:"merchant"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
}

// MonthlySummaryReport is the combined view over a single month.
type MonthlySummaryReport struct {
	Month              types.Month             `json:"month"`
	TotalIncome        decimal.Decimal         `json:"totalIncome"`
	TotalExpenses      decimal.Decimal         `json:"totalExpenses"`
	NetCashFlow        decimal.Decimal         `json:"netCashFlow"`
	SavingsRate        decimal.Decimal         `json:"savingsRate"`
	IncomeBySource     []BreakdownRow          `json:"incomeBySource"`
	ExpensesByCategory []BreakdownRow          `json:"expensesByCategory"`
	TopExpenses        []TopExpense            `json:"topExpenses"`
	BudgetPerformance  BudgetPerformanceReport `json:"budgetPerformance"`
}

// MonthlySummary reduces a single month into totals, breakdowns, the
// largest expenses and the budget performance. The independent queries
// run concurrently.
func MonthlySummary(ctx context.Context, db *gorm.DB, familyID uuid.UUID, month types.Month) (MonthlySummaryReport, error) {
	from := month.FirstDay()
	to := month.LastDayTime().Add(-time.Nanosecond)

	var (
		events       []models.IncomeEvent
		transactions []models.Transaction
		names        map[uuid.UUID]string
		performance  BudgetPerformanceReport
	)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		events, err = receivedIncomeEvents(db.WithContext(ctx), familyID, from, to)
		return err
	})

	group.Go(func() (err error) {
		transactions, err = rangeTransactions(db.WithContext(ctx), familyID, from, to)
		if err != nil {
			return err
		}

		names, err = spendingCategoryNames(db.WithContext(ctx), familyID)
		return err
	})

	group.Go(func() (err error) {
		performance, err = BudgetPerformance(db.WithContext(ctx), familyID, from, to)
		return err
	})

	if err := group.Wait(); err != nil {
		return MonthlySummaryReport{}, err
	}

	totalIncome := decimal.Zero
	incomeBySource := map[string]decimal.Decimal{}
	for _, event := range events {
		amount := event.EffectiveAmount()
		totalIncome = totalIncome.Add(amount)
		incomeBySource[event.SourceLabel()] = incomeBySource[event.SourceLabel()].Add(amount)
	}

	totalExpenses := decimal.Zero
	expensesByCategory := map[string]decimal.Decimal{}
	for _, transaction := range transactions {
		name := categoryName(names, transaction.SpendingCategoryID)
		totalExpenses = totalExpenses.Add(transaction.Amount)
		expensesByCategory[name] = expensesByCategory[name].Add(transaction.Amount)
	}

	net := totalIncome.Sub(totalExpenses)

	return MonthlySummaryReport{
		Month:              month,
		TotalIncome:        totalIncome,
		TotalExpenses:      totalExpenses,
		NetCashFlow:        net,
		SavingsRate:        percentage(net, totalIncome),
		IncomeBySource:     breakdownRows(incomeBySource, totalIncome),
		ExpensesByCategory: breakdownRows(expensesByCategory, totalExpenses),
		TopExpenses:        topExpenses(transactions, names),
		BudgetPerformance:  performance,
	}, nil
}

// topExpenses returns the largest transactions by amount, ties broken
// by merchant name ascending.
func topExpenses(transactions []models.Transaction, names map[uuid.UUID]string) []TopExpense {
	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)

	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Amount.Equal(sorted[j].Amount) {
			return sorted[i].Amount.GreaterThan(sorted[j].Amount)
		}
		return sorted[i].Merchant < sorted[j].Merchant
	})

	if len(sorted) > topExpenseCount {
		sorted = sorted[:topExpenseCount]
	}

	expenses := make([]TopExpense, 0, len(sorted))
	for _, transaction := range sorted {
		expenses = append(expenses, TopExpense{
			TransactionID: transaction.ID,
			Date:          transaction.Date,
			Merchant:      transaction.Merchant,
			Category:      categoryName(names, transaction.SpendingCategoryID),
			Amount:        transaction.Amount,
		})
	}

	return expenses
}
