package reports_test

import (
	"github.com/shopspring/decimal"

	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/internal/reports"
)

func (suite *TestSuiteStandard) TestSpendingAnalysis() {
	family := suite.createTestFamily()

	groceries := suite.createTestSpendingCategory(models.SpendingCategory{FamilyID: family.ID, Name: "Groceries"})

	suite.createTestTransaction(family.ID, &groceries.ID, date(2024, 1, 5), decimal.NewFromInt(100), "Corner Store")
	suite.createTestTransaction(family.ID, &groceries.ID, date(2024, 1, 12), decimal.NewFromInt(200), "Corner Store")
	suite.createTestTransaction(family.ID, nil, date(2024, 1, 20), decimal.NewFromInt(100), "Cash machine")

	// Outside the range, must not count
	suite.createTestTransaction(family.ID, &groceries.ID, date(2024, 3, 1), decimal.NewFromInt(999), "Corner Store")

	report, err := reports.SpendingAnalysis(models.DB, family.ID, date(2024, 1, 1), date(2024, 1, 31))
	suite.Require().Nil(err)

	suite.decimalEqual(decimal.NewFromInt(400), report.TotalSpent)
	suite.Assert().Equal(3, report.TransactionCount)

	suite.Require().Len(report.Categories, 2)
	suite.Assert().Equal("Groceries", report.Categories[0].Name)
	suite.decimalEqual(decimal.NewFromInt(300), report.Categories[0].Amount)
	suite.decimalEqual(decimal.NewFromInt(75), report.Categories[0].Percentage)
	suite.Assert().Equal(2, report.Categories[0].TransactionCount)
	suite.decimalEqual(decimal.NewFromInt(150), report.Categories[0].AverageAmount)

	suite.Assert().Equal("Uncategorized", report.Categories[1].Name)
	suite.decimalEqual(decimal.NewFromInt(100), report.Categories[1].Amount)
}

func (suite *TestSuiteStandard) TestSpendingAnalysisTopMerchants() {
	family := suite.createTestFamily()

	suite.createTestTransaction(family.ID, nil, date(2024, 1, 5), decimal.NewFromInt(50), "Bakery")
	suite.createTestTransaction(family.ID, nil, date(2024, 1, 6), decimal.NewFromInt(50), "Bakery")
	suite.createTestTransaction(family.ID, nil, date(2024, 1, 7), decimal.NewFromInt(100), "Apothecary")
	suite.createTestTransaction(family.ID, nil, date(2024, 1, 8), decimal.NewFromInt(100), "Zoo")

	// Transactions without a merchant are excluded from the ranking
	suite.createTestTransaction(family.ID, nil, date(2024, 1, 9), decimal.NewFromInt(500), "")

	report, err := reports.SpendingAnalysis(models.DB, family.ID, date(2024, 1, 1), date(2024, 1, 31))
	suite.Require().Nil(err)

	suite.Require().Len(report.TopMerchants, 3)

	// Ties are broken by merchant name ascending
	suite.Assert().Equal("Apothecary", report.TopMerchants[0].Merchant)
	suite.Assert().Equal("Bakery", report.TopMerchants[1].Merchant)
	suite.Assert().Equal(2, report.TopMerchants[1].Count)
	suite.Assert().Equal("Zoo", report.TopMerchants[2].Merchant)
}

func (suite *TestSuiteStandard) TestSpendingAnalysisEmptyRange() {
	family := suite.createTestFamily()

	report, err := reports.SpendingAnalysis(models.DB, family.ID, date(2024, 1, 1), date(2024, 1, 31))
	suite.Require().Nil(err)

	suite.decimalEqual(decimal.Zero, report.TotalSpent)
	suite.Assert().Equal(0, report.TransactionCount)
	suite.Assert().Empty(report.Categories)
	suite.Assert().Empty(report.TopMerchants)
}
