package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

// SpendingCategoryRow aggregates the transactions of one category.
type SpendingCategoryRow struct {
	Name             string          `json:"name"`
	Amount           decimal.Decimal `json:"amount"`
	Percentage       decimal.Decimal `json:"percentage"`
	TransactionCount int             `json:"transactionCount"`
	AverageAmount    decimal.Decimal `json:"averageAmount"`
}

// MerchantRow is one entry of the top-merchant ranking.
type MerchantRow struct {
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// SpendingAnalysisReport groups transactions by category and ranks the
// top merchants.
type SpendingAnalysisReport struct {
	From             time.Time             `json:"from"`
	To               time.Time             `json:"to"`
	TotalSpent       decimal.Decimal       `json:"totalSpent"`
	TransactionCount int                   `json:"transactionCount"`
	Categories       []SpendingCategoryRow `json:"categories"`
	TopMerchants     []MerchantRow         `json:"topMerchants"`
}

// SpendingAnalysis groups the family's transactions in [from, to] by
// spending category. Transactions without a category land in the
// "Uncategorized" bucket. The top 10 merchants are ranked by total
// spend descending, ties broken by merchant name ascending.
func SpendingAnalysis(db *gorm.DB, familyID uuid.UUID, from, to time.Time) (SpendingAnalysisReport, error) {
	transactions, err := rangeTransactions(db, familyID, from, to)
	if err != nil {
		return SpendingAnalysisReport{}, err
	}

	names, err := spendingCategoryNames(db, familyID)
	if err != nil {
		return SpendingAnalysisReport{}, err
	}

	total := decimal.Zero
	amounts := map[string]decimal.Decimal{}
	counts := map[string]int{}
	for _, transaction := range transactions {
		name := categoryName(names, transaction.SpendingCategoryID)
		total = total.Add(transaction.Amount)
		amounts[name] = amounts[name].Add(transaction.Amount)
		counts[name]++
	}

	categories := make([]SpendingCategoryRow, 0, len(amounts))
	for _, row := range breakdownRows(amounts, total) {
		count := counts[row.Name]

		average := decimal.Zero
		if count > 0 {
			average = row.Amount.Div(decimal.NewFromInt(int64(count))).Round(2)
		}

		categories = append(categories, SpendingCategoryRow{
			Name:             row.Name,
			Amount:           row.Amount,
			Percentage:       row.Percentage,
			TransactionCount: count,
			AverageAmount:    average,
		})
	}

	merchants, err := topMerchants(db, familyID, from, to, 10)
	if err != nil {
		return SpendingAnalysisReport{}, err
	}

	return SpendingAnalysisReport{
		From:             from,
		To:               to,
		TotalSpent:       total,
		TransactionCount: len(transactions),
		Categories:       categories,
		TopMerchants:     merchants,
	}, nil
}

// topMerchants ranks merchants by total spend in the range.
func topMerchants(db *gorm.DB, familyID uuid.UUID, from, to time.Time, limit int) ([]MerchantRow, error) {
	var rows []struct {
		Merchant string
		Amount   decimal.Decimal
		Count    int
	}

	err := db.Model(&models.Transaction{}).
		Select("merchant, SUM(amount) AS amount, COUNT(*) AS count").
		Where("family_id = ?", familyID).
		Where("date >= ? AND date <= ?", from.In(time.UTC), to.In(time.UTC)).
		Where("merchant != ''").
		Group("merchant").
		Order("SUM(amount) DESC").
		Order("merchant ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	merchants := make([]MerchantRow, 0, len(rows))
	for _, row := range rows {
		merchants = append(merchants, MerchantRow{
			Merchant: row.Merchant,
			Amount:   row.Amount,
			Count:    row.Count,
		})
	}

	return merchants, nil
}
