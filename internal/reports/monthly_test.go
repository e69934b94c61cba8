package reports_test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/internal/reports"
	"github.com/hearthledger/backend/internal/types"
)

func (suite *TestSuiteStandard) TestMonthlySummary() {
	family := suite.createTestFamily()

	groceries := suite.createTestSpendingCategory(models.SpendingCategory{FamilyID: family.ID, Name: "Groceries"})

	suite.createTestReceivedIncome(models.IncomeEvent{
		FamilyID: family.ID,
		Name:     "Salary",
		Source:   "ACME Corp",
	}, date(2024, 1, 15), decimal.NewFromInt(4000))

	suite.createTestTransaction(family.ID, &groceries.ID, date(2024, 1, 5), decimal.NewFromInt(300), "Corner Store")
	suite.createTestTransaction(family.ID, nil, date(2024, 1, 8), decimal.NewFromInt(700), "Garage")

	// Other months must not leak into the summary
	suite.createTestReceivedIncome(models.IncomeEvent{
		FamilyID: family.ID,
		Name:     "Bonus",
	}, date(2024, 2, 1), decimal.NewFromInt(9999))

	report, err := reports.MonthlySummary(context.Background(), models.DB, family.ID, types.NewMonth(2024, 1))
	suite.Require().Nil(err)

	suite.Assert().True(report.Month.Equal(types.NewMonth(2024, 1)))
	suite.decimalEqual(decimal.NewFromInt(4000), report.TotalIncome)
	suite.decimalEqual(decimal.NewFromInt(1000), report.TotalExpenses)
	suite.decimalEqual(decimal.NewFromInt(3000), report.NetCashFlow)
	suite.decimalEqual(decimal.NewFromInt(75), report.SavingsRate)

	suite.Require().Len(report.IncomeBySource, 1)
	suite.Assert().Equal("ACME Corp", report.IncomeBySource[0].Name)

	suite.Require().Len(report.ExpensesByCategory, 2)
	suite.Assert().Equal("Uncategorized", report.ExpensesByCategory[0].Name)
	suite.Assert().Equal("Groceries", report.ExpensesByCategory[1].Name)

	// Largest expense first
	suite.Require().Len(report.TopExpenses, 2)
	suite.Assert().Equal("Garage", report.TopExpenses[0].Merchant)
	suite.decimalEqual(decimal.NewFromInt(700), report.TopExpenses[0].Amount)
	suite.Assert().Equal("Groceries", report.TopExpenses[1].Category)
}

func (suite *TestSuiteStandard) TestMonthlySummaryIncludesBudgetPerformance() {
	family := suite.createTestFamily()

	suite.budgetFixture(family, "Needs", decimal.NewFromInt(1000), decimal.NewFromInt(500))

	report, err := reports.MonthlySummary(context.Background(), models.DB, family.ID, types.NewMonth(2024, 1))
	suite.Require().Nil(err)

	suite.Require().Len(report.BudgetPerformance.Categories, 1)
	suite.Assert().Equal("Needs", report.BudgetPerformance.Categories[0].Name)
	suite.decimalEqual(decimal.NewFromInt(1000), report.BudgetPerformance.TotalBudgeted)
}

func (suite *TestSuiteStandard) TestMonthlySummaryEmptyMonth() {
	family := suite.createTestFamily()

	report, err := reports.MonthlySummary(context.Background(), models.DB, family.ID, types.NewMonth(2024, 6))
	suite.Require().Nil(err)

	suite.decimalEqual(decimal.Zero, report.TotalIncome)
	suite.decimalEqual(decimal.Zero, report.TotalExpenses)
	suite.decimalEqual(decimal.Zero, report.SavingsRate)
	suite.Assert().Empty(report.TopExpenses)
}
