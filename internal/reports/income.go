package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/types"
)

// IncomeAnalysisReport summarizes received income over a range.
type IncomeAnalysisReport struct {
	From                 time.Time       `json:"from"`
	To                   time.Time       `json:"to"`
	TotalIncome          decimal.Decimal `json:"totalIncome"`
	RegularIncome        decimal.Decimal `json:"regularIncome"`   // Recurring frequencies
	IrregularIncome      decimal.Decimal `json:"irregularIncome"` // One-off income
	AverageMonthlyIncome decimal.Decimal `json:"averageMonthlyIncome"`
	Sources              []BreakdownRow  `json:"sources"`
}

// IncomeAnalysis reduces the family's received income events in
// [from, to]. The monthly average divides by the number of whole months
// the range spans, never less than one. The per-source breakdown falls
// back to the income event's name when no source is set.
func IncomeAnalysis(db *gorm.DB, familyID uuid.UUID, from, to time.Time) (IncomeAnalysisReport, error) {
	events, err := receivedIncomeEvents(db, familyID, from, to)
	if err != nil {
		return IncomeAnalysisReport{}, err
	}

	total := decimal.Zero
	regular := decimal.Zero
	irregular := decimal.Zero
	sources := map[string]decimal.Decimal{}

	for _, event := range events {
		amount := event.EffectiveAmount()
		total = total.Add(amount)

		if event.Frequency.Recurring() {
			regular = regular.Add(amount)
		} else {
			irregular = irregular.Add(amount)
		}

		sources[event.SourceLabel()] = sources[event.SourceLabel()].Add(amount)
	}

	months := types.MonthsBetween(types.MonthOf(from), types.MonthOf(to))

	return IncomeAnalysisReport{
		From:                 from,
		To:                   to,
		TotalIncome:          total,
		RegularIncome:        regular,
		IrregularIncome:      irregular,
		AverageMonthlyIncome: total.Div(decimal.NewFromInt(int64(months))).Round(2),
		Sources:              breakdownRows(sources, total),
	}, nil
}
