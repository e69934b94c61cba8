package ledger_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthledger/backend/internal/ledger"
	"github.com/hearthledger/backend/internal/models"
)

func (suite *TestSuiteStandard) TestAllocationsSumExactly() {
	family := suite.createTestFamily(models.Family{})

	needs := suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:   family.ID,
		Name:       "Needs",
		Percentage: decimal.NewFromInt(50),
	})
	savings := suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:   family.ID,
		Name:       "Savings",
		Percentage: decimal.NewFromInt(20),
	})
	wants := suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:   family.ID,
		Name:       "Wants",
		Percentage: decimal.NewFromInt(30),
	})

	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{
		Amount: decimal.NewFromFloat(100.01),
	})

	_, err := ledger.MarkReceived(models.DB, family.ID, event.ID, time.Time{}, decimal.NewFromFloat(100.01))
	suite.Require().Nil(err)

	var allocations []models.BudgetAllocation
	suite.Require().Nil(models.DB.Where("income_event_id = ?", event.ID).Find(&allocations).Error)
	suite.Require().Len(allocations, 3)

	byCategory := map[string]decimal.Decimal{}
	sum := decimal.Zero
	for _, allocation := range allocations {
		switch allocation.BudgetCategoryID {
		case needs.ID:
			byCategory["Needs"] = allocation.Amount
		case savings.ID:
			byCategory["Savings"] = allocation.Amount
		case wants.ID:
			byCategory["Wants"] = allocation.Amount
		}
		sum = sum.Add(allocation.Amount)
	}

	// Rounded half-up to cents, the last category in name order absorbs
	// the remainder
	suite.decimalEqual(decimal.NewFromFloat(50.01), byCategory["Needs"])
	suite.decimalEqual(decimal.NewFromFloat(20.00), byCategory["Savings"])
	suite.decimalEqual(decimal.NewFromFloat(30.00), byCategory["Wants"])
	suite.decimalEqual(decimal.NewFromFloat(100.01), sum)
}

func (suite *TestSuiteStandard) TestAllocationsSkipArchivedCategories() {
	family := suite.createTestFamily(models.Family{})

	_ = suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:   family.ID,
		Name:       "Needs",
		Percentage: decimal.NewFromInt(100),
	})
	archived := suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:   family.ID,
		Name:       "Vacation fund",
		Percentage: decimal.NewFromInt(10),
		Archived:   true,
	})

	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{})
	_, err := ledger.MarkReceived(models.DB, family.ID, event.ID, time.Time{}, event.Amount)
	suite.Require().Nil(err)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.BudgetAllocation{}).Where("budget_category_id = ?", archived.ID).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestAllocationsWithoutCategories() {
	family := suite.createTestFamily(models.Family{})

	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{})

	// Receiving without active categories leaves the amount unbudgeted
	_, err := ledger.MarkReceived(models.DB, family.ID, event.ID, time.Time{}, event.Amount)
	suite.Require().Nil(err)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.BudgetAllocation{}).Where("income_event_id = ?", event.ID).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestAllocateIncomeNotReceived() {
	family := suite.createTestFamily(models.Family{})
	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{})

	_, err := ledger.AllocateIncome(models.DB, family.ID, event.ID)
	suite.Assert().ErrorIs(err, ledger.ErrNotReceived)
}

func (suite *TestSuiteStandard) TestAllocateIncomeIdempotent() {
	family := suite.createTestFamily(models.Family{})

	_ = suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:   family.ID,
		Name:       "Needs",
		Percentage: decimal.NewFromInt(60),
	})
	_ = suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:   family.ID,
		Name:       "Wants",
		Percentage: decimal.NewFromInt(40),
	})

	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{})
	_, err := ledger.MarkReceived(models.DB, family.ID, event.ID, time.Time{}, event.Amount)
	suite.Require().Nil(err)

	// Re-running the distribution replaces the existing allocations
	_, err = ledger.AllocateIncome(models.DB, family.ID, event.ID)
	suite.Require().Nil(err)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.BudgetAllocation{}).Where("income_event_id = ?", event.ID).Count(&count).Error)
	suite.Assert().Equal(int64(2), count)
}

func (suite *TestSuiteStandard) TestGetCategoryConsumption() {
	family := suite.createTestFamily(models.Family{})

	needs := suite.createTestBudgetCategory(models.BudgetCategory{
		FamilyID:   family.ID,
		Name:       "Needs",
		Percentage: decimal.NewFromInt(100),
	})
	groceries := suite.createTestSpendingCategory(models.SpendingCategory{
		FamilyID:         family.ID,
		Name:             "Groceries",
		BudgetCategoryID: &needs.ID,
	})

	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{
		Amount: decimal.NewFromInt(1000),
	})
	_, err := ledger.MarkReceived(models.DB, family.ID, event.ID, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(1000))
	suite.Require().Nil(err)

	_ = suite.createTestTransaction(models.Transaction{
		FamilyID:           family.ID,
		SpendingCategoryID: &groceries.ID,
		Date:               time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Amount:             decimal.NewFromInt(150),
	})

	// Outside the range, must not count
	_ = suite.createTestTransaction(models.Transaction{
		FamilyID:           family.ID,
		SpendingCategoryID: &groceries.ID,
		Date:               time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:             decimal.NewFromInt(99),
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	consumption, err := ledger.GetCategoryConsumption(models.DB, family.ID, needs.ID, from, to)
	suite.Require().Nil(err)

	suite.Assert().Equal("Needs", consumption.Name)
	suite.decimalEqual(decimal.NewFromInt(1000), consumption.Budgeted)
	suite.decimalEqual(decimal.NewFromInt(150), consumption.Spent)
	suite.decimalEqual(decimal.NewFromInt(850), consumption.Available)
}
