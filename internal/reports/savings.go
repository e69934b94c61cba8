package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/types"
)

// SavingsTrend describes how the savings rate develops over the range.
type SavingsTrend string

const (
	SavingsTrendIncreasing SavingsTrend = "increasing"
	SavingsTrendDecreasing SavingsTrend = "decreasing"
	SavingsTrendStable     SavingsTrend = "stable"
	SavingsTrendVolatile   SavingsTrend = "volatile"
)

// Fixed policy constants for the trend classification.
const (
	// Rates within this many percentage points count as stable.
	savingsStableDelta = 5.0
	// A rate variance above this marks the range as volatile.
	savingsVarianceThreshold = 400.0
)

// SavingsMonth is one month of the savings rate report.
type SavingsMonth struct {
	Month       types.Month     `json:"month"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Savings     decimal.Decimal `json:"savings"`
	SavingsRate decimal.Decimal `json:"savingsRate"` // Percent of income saved, 0 when there is no income
}

// SavingsRateReport tracks the monthly savings rate over a range.
type SavingsRateReport struct {
	From   time.Time      `json:"from"`
	To     time.Time      `json:"to"`
	Months []SavingsMonth `json:"months"`
	Trend  SavingsTrend   `json:"trend"`
}

// SavingsRate computes income, expenses and the savings rate for every
// month in [from, to]. Months without activity appear with zero values.
func SavingsRate(db *gorm.DB, familyID uuid.UUID, from, to time.Time) (SavingsRateReport, error) {
	from = from.In(time.UTC)
	to = to.In(time.UTC)

	events, err := receivedIncomeEvents(db, familyID, from, to)
	if err != nil {
		return SavingsRateReport{}, err
	}

	transactions, err := rangeTransactions(db, familyID, from, to)
	if err != nil {
		return SavingsRateReport{}, err
	}

	first := types.MonthOf(from)
	last := types.MonthOf(to)

	income := map[types.Month]decimal.Decimal{}
	for _, event := range events {
		month := types.MonthOf(event.EffectiveDate())
		income[month] = income[month].Add(event.EffectiveAmount())
	}

	expenses := map[types.Month]decimal.Decimal{}
	for _, transaction := range transactions {
		month := types.MonthOf(transaction.Date)
		expenses[month] = expenses[month].Add(transaction.Amount)
	}

	months := []SavingsMonth{}
	for month := first; !month.After(last); month = month.AddDate(0, 1) {
		entry := SavingsMonth{
			Month:    month,
			Income:   income[month],
			Expenses: expenses[month],
		}
		entry.Savings = entry.Income.Sub(entry.Expenses)
		entry.SavingsRate = percentage(entry.Savings, entry.Income)

		months = append(months, entry)
	}

	return SavingsRateReport{
		From:   from,
		To:     to,
		Months: months,
		Trend:  savingsTrend(months),
	}, nil
}

// savingsTrend compares the first and last month's rates. Small
// differences are stable, a high variance across months is volatile,
// everything else follows the sign of the difference.
func savingsTrend(months []SavingsMonth) SavingsTrend {
	if len(months) < 2 {
		return SavingsTrendStable
	}

	rates := make([]float64, len(months))
	for i, month := range months {
		rates[i] = month.SavingsRate.InexactFloat64()
	}

	delta := rates[len(rates)-1] - rates[0]
	if delta < savingsStableDelta && delta > -savingsStableDelta {
		return SavingsTrendStable
	}

	mean := 0.0
	for _, rate := range rates {
		mean += rate
	}
	mean /= float64(len(rates))

	variance := 0.0
	for _, rate := range rates {
		variance += (rate - mean) * (rate - mean)
	}
	variance /= float64(len(rates))

	if variance > savingsVarianceThreshold {
		return SavingsTrendVolatile
	}

	if delta > 0 {
		return SavingsTrendIncreasing
	}
	return SavingsTrendDecreasing
}
