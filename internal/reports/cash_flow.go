package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashFlowBucket is one period of the cash flow report.
type CashFlowBucket struct {
	Start         time.Time       `json:"start"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetCashFlow   decimal.Decimal `json:"netCashFlow"`
}

// CashFlowReport buckets received income and transactions into periods.
type CashFlowReport struct {
	From               time.Time       `json:"from"`
	To                 time.Time       `json:"to"`
	Period             Period          `json:"period"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	NetCashFlow        decimal.Decimal `json:"netCashFlow"`
	Buckets            []CashFlowBucket `json:"buckets"`
	IncomeBySource     []BreakdownRow   `json:"incomeBySource"`
	ExpensesByCategory []BreakdownRow   `json:"expensesByCategory"`
}

// CashFlow reduces received income events (by actual date) and
// transactions (by date, as expenses) over [from, to] into buckets of
// the requested period. Buckets with no activity appear with zero
// values, there are no gaps.
func CashFlow(db *gorm.DB, familyID uuid.UUID, from, to time.Time, period Period) (CashFlowReport, error) {
	if !period.Valid() {
		return CashFlowReport{}, ErrPeriodInvalid
	}

	from = from.In(time.UTC)
	to = to.In(time.UTC)

	events, err := receivedIncomeEvents(db, familyID, from, to)
	if err != nil {
		return CashFlowReport{}, err
	}

	transactions, err := rangeTransactions(db, familyID, from, to)
	if err != nil {
		return CashFlowReport{}, err
	}

	names, err := spendingCategoryNames(db, familyID)
	if err != nil {
		return CashFlowReport{}, err
	}

	// Zero-fill every bucket in the range first
	starts := []time.Time{}
	index := map[time.Time]int{}
	for start := period.Truncate(from); !start.After(to); start = period.Next(start) {
		index[start] = len(starts)
		starts = append(starts, start)
	}

	buckets := make([]CashFlowBucket, len(starts))
	for i, start := range starts {
		buckets[i] = CashFlowBucket{
			Start:         start,
			TotalIncome:   decimal.Zero,
			TotalExpenses: decimal.Zero,
			NetCashFlow:   decimal.Zero,
		}
	}

	totalIncome := decimal.Zero
	incomeBySource := map[string]decimal.Decimal{}
	for _, event := range events {
		amount := event.EffectiveAmount()
		totalIncome = totalIncome.Add(amount)
		incomeBySource[event.SourceLabel()] = incomeBySource[event.SourceLabel()].Add(amount)

		if i, ok := index[period.Truncate(event.EffectiveDate())]; ok {
			buckets[i].TotalIncome = buckets[i].TotalIncome.Add(amount)
		}
	}

	totalExpenses := decimal.Zero
	expensesByCategory := map[string]decimal.Decimal{}
	for _, transaction := range transactions {
		name := categoryName(names, transaction.SpendingCategoryID)
		totalExpenses = totalExpenses.Add(transaction.Amount)
		expensesByCategory[name] = expensesByCategory[name].Add(transaction.Amount)

		if i, ok := index[period.Truncate(transaction.Date)]; ok {
			buckets[i].TotalExpenses = buckets[i].TotalExpenses.Add(transaction.Amount)
		}
	}

	for i := range buckets {
		buckets[i].NetCashFlow = buckets[i].TotalIncome.Sub(buckets[i].TotalExpenses)
	}

	return CashFlowReport{
		From:               from,
		To:                 to,
		Period:             period,
		TotalIncome:        totalIncome,
		TotalExpenses:      totalExpenses,
		NetCashFlow:        totalIncome.Sub(totalExpenses),
		Buckets:            buckets,
		IncomeBySource:     breakdownRows(incomeBySource, totalIncome),
		ExpensesByCategory: breakdownRows(expensesByCategory, totalExpenses),
	}, nil
}
