package reports_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/internal/reports"
	"github.com/hearthledger/backend/internal/types"
)

// savingsMonthFixture stores income and expenses so the month ends up
// with the given savings rate when income is 100.
func (suite *TestSuiteStandard) savingsMonthFixture(family models.Family, month time.Time, expenses int64) {
	suite.createTestReceivedIncome(models.IncomeEvent{
		FamilyID: family.ID,
		Name:     "Salary " + month.Format("2006-01"),
	}, month, decimal.NewFromInt(100))

	if expenses > 0 {
		suite.createTestTransaction(family.ID, nil, month, decimal.NewFromInt(expenses), "")
	}
}

func (suite *TestSuiteStandard) TestSavingsRateZeroFillsMonths() {
	family := suite.createTestFamily()

	// Only January has activity
	suite.savingsMonthFixture(family, date(2024, 1, 15), 60)

	report, err := reports.SavingsRate(models.DB, family.ID, date(2024, 1, 1), date(2024, 3, 31))
	suite.Require().Nil(err)

	suite.Require().Len(report.Months, 3)

	january := report.Months[0]
	suite.Assert().True(january.Month.Equal(types.NewMonth(2024, 1)))
	suite.decimalEqual(decimal.NewFromInt(100), january.Income)
	suite.decimalEqual(decimal.NewFromInt(60), january.Expenses)
	suite.decimalEqual(decimal.NewFromInt(40), january.Savings)
	suite.decimalEqual(decimal.NewFromInt(40), january.SavingsRate)

	// Empty months report zero income and a zero rate, not a division
	// error
	february := report.Months[1]
	suite.Assert().True(february.Month.Equal(types.NewMonth(2024, 2)))
	suite.decimalEqual(decimal.Zero, february.Income)
	suite.decimalEqual(decimal.Zero, february.SavingsRate)
}

func (suite *TestSuiteStandard) TestSavingsRateTrendStable() {
	family := suite.createTestFamily()

	// Rates 40 and 42, within the stability band
	suite.savingsMonthFixture(family, date(2024, 1, 15), 60)
	suite.savingsMonthFixture(family, date(2024, 2, 15), 58)

	report, err := reports.SavingsRate(models.DB, family.ID, date(2024, 1, 1), date(2024, 2, 29))
	suite.Require().Nil(err)
	suite.Assert().Equal(reports.SavingsTrendStable, report.Trend)
}

func (suite *TestSuiteStandard) TestSavingsRateTrendSingleMonth() {
	family := suite.createTestFamily()

	suite.savingsMonthFixture(family, date(2024, 1, 15), 60)

	report, err := reports.SavingsRate(models.DB, family.ID, date(2024, 1, 1), date(2024, 1, 31))
	suite.Require().Nil(err)
	suite.Assert().Equal(reports.SavingsTrendStable, report.Trend)
}

func (suite *TestSuiteStandard) TestSavingsRateTrendIncreasing() {
	family := suite.createTestFamily()

	// Rates 10, 30, 50
	suite.savingsMonthFixture(family, date(2024, 1, 15), 90)
	suite.savingsMonthFixture(family, date(2024, 2, 15), 70)
	suite.savingsMonthFixture(family, date(2024, 3, 15), 50)

	report, err := reports.SavingsRate(models.DB, family.ID, date(2024, 1, 1), date(2024, 3, 31))
	suite.Require().Nil(err)
	suite.Assert().Equal(reports.SavingsTrendIncreasing, report.Trend)
}

func (suite *TestSuiteStandard) TestSavingsRateTrendDecreasing() {
	family := suite.createTestFamily()

	// Rates 50, 30, 10
	suite.savingsMonthFixture(family, date(2024, 1, 15), 50)
	suite.savingsMonthFixture(family, date(2024, 2, 15), 70)
	suite.savingsMonthFixture(family, date(2024, 3, 15), 90)

	report, err := reports.SavingsRate(models.DB, family.ID, date(2024, 1, 1), date(2024, 3, 31))
	suite.Require().Nil(err)
	suite.Assert().Equal(reports.SavingsTrendDecreasing, report.Trend)
}

func (suite *TestSuiteStandard) TestSavingsRateTrendVolatile() {
	family := suite.createTestFamily()

	// Rates 0, 90, 10 swing wildly
	suite.savingsMonthFixture(family, date(2024, 1, 15), 100)
	suite.savingsMonthFixture(family, date(2024, 2, 15), 10)
	suite.savingsMonthFixture(family, date(2024, 3, 15), 90)

	report, err := reports.SavingsRate(models.DB, family.ID, date(2024, 1, 1), date(2024, 3, 31))
	suite.Require().Nil(err)
	suite.Assert().Equal(reports.SavingsTrendVolatile, report.Trend)
}
