package ledger_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthledger/backend/internal/ledger"
	"github.com/hearthledger/backend/internal/models"
)

func (suite *TestSuiteStandard) TestMarkPaidDefaultsToScheduledAmount() {
	family := suite.createTestFamily(models.Family{})

	payment := suite.createTestPayment(family, ledger.PaymentCreate{
		Amount: decimal.NewFromFloat(120.50),
	})

	paid, err := ledger.MarkPaid(models.DB, family.ID, payment.ID, time.Time{}, decimal.Zero)
	suite.Require().Nil(err)

	suite.Assert().Equal(models.PaymentStatusPaid, paid.Status)
	suite.Require().NotNil(paid.PaidAmount)
	suite.decimalEqual(decimal.NewFromFloat(120.50), *paid.PaidAmount)
	suite.Require().NotNil(paid.PaidDate)
}

func (suite *TestSuiteStandard) TestMarkPaidVariableAmount() {
	family := suite.createTestFamily(models.Family{})

	payment := suite.createTestPayment(family, ledger.PaymentCreate{
		Type:   models.PaymentTypeVariable,
		Amount: decimal.NewFromInt(80),
	})

	paid, err := ledger.MarkPaid(models.DB, family.ID, payment.ID, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), decimal.NewFromFloat(93.17))
	suite.Require().Nil(err)

	suite.Require().NotNil(paid.PaidAmount)
	suite.decimalEqual(decimal.NewFromFloat(93.17), *paid.PaidAmount)
	suite.Assert().True(paid.PaidDate.Equal(time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)))
}

func (suite *TestSuiteStandard) TestMarkPaidSpawnsNextOccurrence() {
	family := suite.createTestFamily(models.Family{})

	payment := suite.createTestPayment(family, ledger.PaymentCreate{
		Payee:     "Landlord",
		Amount:    decimal.NewFromInt(1200),
		DueDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Type:      models.PaymentTypeRecurring,
		Frequency: models.FrequencyMonthly,
	})

	_, err := ledger.MarkPaid(models.DB, family.ID, payment.ID, time.Time{}, decimal.Zero)
	suite.Require().Nil(err)

	var next models.Payment
	err = models.DB.First(&next, "family_id = ? AND status = ?", family.ID, models.PaymentStatusScheduled).Error
	suite.Require().Nil(err)

	suite.Assert().True(next.DueDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	suite.decimalEqual(decimal.NewFromInt(1200), next.Amount)
	suite.decimalEqual(decimal.Zero, next.AttributedAmount)

	// Both occurrences share the series
	suite.Assert().Equal(payment.SeriesID, next.SeriesID)
	suite.Assert().NotEqual(payment.ID, next.ID)
}

func (suite *TestSuiteStandard) TestMarkPaidStatusChecks() {
	family := suite.createTestFamily(models.Family{})

	payment := suite.createTestPayment(family, ledger.PaymentCreate{})

	_, err := ledger.MarkPaid(models.DB, family.ID, payment.ID, time.Time{}, decimal.Zero)
	suite.Require().Nil(err)

	_, err = ledger.MarkPaid(models.DB, family.ID, payment.ID, time.Time{}, decimal.Zero)
	suite.Assert().ErrorIs(err, ledger.ErrAlreadyPaid)

	other := suite.createTestPayment(family, ledger.PaymentCreate{Payee: "Garage"})
	cancelled := models.PaymentStatusCancelled
	_, err = ledger.UpdatePayment(models.DB, family.ID, other.ID, ledger.PaymentUpdate{Status: &cancelled})
	suite.Require().Nil(err)

	_, err = ledger.MarkPaid(models.DB, family.ID, other.ID, time.Time{}, decimal.Zero)
	suite.Assert().ErrorIs(err, ledger.ErrPaymentCancelled)
}

func (suite *TestSuiteStandard) TestUpdatePaymentPaidImmutable() {
	family := suite.createTestFamily(models.Family{})

	payment := suite.createTestPayment(family, ledger.PaymentCreate{})
	_, err := ledger.MarkPaid(models.DB, family.ID, payment.ID, time.Time{}, decimal.Zero)
	suite.Require().Nil(err)

	payee := "Someone else"
	_, err = ledger.UpdatePayment(models.DB, family.ID, payment.ID, ledger.PaymentUpdate{Payee: &payee})
	suite.Assert().ErrorIs(err, ledger.ErrPaidImmutable)
}

func (suite *TestSuiteStandard) TestUpdatePaymentBelowAttributed() {
	family := suite.createTestFamily(models.Family{})

	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{
		Amount: decimal.NewFromInt(100),
	})

	_, err := ledger.AttributeToIncome(models.DB, family.ID, payment.ID, event.ID, decimal.NewFromInt(80), models.AttributionTypeManual)
	suite.Require().Nil(err)

	amount := decimal.NewFromInt(50)
	_, err = ledger.UpdatePayment(models.DB, family.ID, payment.ID, ledger.PaymentUpdate{Amount: &amount})
	suite.Assert().ErrorIs(err, ledger.ErrBelowAttributed)
}

func (suite *TestSuiteStandard) TestDeletePaymentReleasesAttributions() {
	family := suite.createTestFamily(models.Family{})

	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{
		Amount: decimal.NewFromInt(1000),
	})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{
		Amount: decimal.NewFromInt(700),
	})

	_, err := ledger.AttributeToIncome(models.DB, family.ID, payment.ID, event.ID, decimal.NewFromInt(700), models.AttributionTypeManual)
	suite.Require().Nil(err)

	err = ledger.DeletePayment(models.DB, family.ID, payment.ID, false)
	suite.Require().Nil(err)

	// The earmarked money flows back to the income event
	event, err = ledger.GetIncomeEvent(models.DB, family.ID, event.ID)
	suite.Require().Nil(err)
	suite.decimalEqual(decimal.Zero, event.AllocatedAmount)
	suite.decimalEqual(decimal.NewFromInt(1000), event.RemainingAmount)

	var attributions int64
	suite.Require().Nil(models.DB.Model(&models.PaymentAttribution{}).Where("payment_id = ?", payment.ID).Count(&attributions).Error)
	suite.Assert().Equal(int64(0), attributions)
}

func (suite *TestSuiteStandard) TestDeletePaymentSeries() {
	family := suite.createTestFamily(models.Family{})

	payment := suite.createTestPayment(family, ledger.PaymentCreate{
		Payee:     "Landlord",
		Amount:    decimal.NewFromInt(1200),
		DueDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Type:      models.PaymentTypeRecurring,
		Frequency: models.FrequencyMonthly,
	})

	// Pay february, which spawns march
	paid, err := ledger.MarkPaid(models.DB, family.ID, payment.ID, time.Time{}, decimal.Zero)
	suite.Require().Nil(err)

	var march models.Payment
	suite.Require().Nil(models.DB.First(&march, "family_id = ? AND status = ?", family.ID, models.PaymentStatusScheduled).Error)

	err = ledger.DeletePayment(models.DB, family.ID, march.ID, true)
	suite.Require().Nil(err)

	// The scheduled occurrence is gone, the paid one stays
	var count int64
	suite.Require().Nil(models.DB.Model(&models.Payment{}).Where("family_id = ?", family.ID).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)

	_, err = ledger.GetPayment(models.DB, family.ID, paid.ID)
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestListPayments() {
	family := suite.createTestFamily(models.Family{})

	_ = suite.createTestPayment(family, ledger.PaymentCreate{
		Payee:   "Landlord",
		DueDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	electricity := suite.createTestPayment(family, ledger.PaymentCreate{
		Payee:   "City Power & Light",
		DueDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	})

	payments, count, err := ledger.ListPayments(models.DB, family.ID, ledger.PaymentFilter{})
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(2), count)
	suite.Require().Len(payments, 2)

	// Ordered by due date ascending
	suite.Assert().Equal(electricity.ID, payments[0].ID)
}

func (suite *TestSuiteStandard) TestListPaymentsOverdue() {
	family := suite.createTestFamily(models.Family{})

	// Due in the past, scheduled
	overdue := suite.createTestPayment(family, ledger.PaymentCreate{
		Payee:   "Landlord",
		DueDate: time.Now().In(time.UTC).AddDate(0, 0, -10),
	})
	// Due in the future
	_ = suite.createTestPayment(family, ledger.PaymentCreate{
		Payee:   "City Power & Light",
		DueDate: time.Now().In(time.UTC).AddDate(0, 0, 10),
	})

	payments, count, err := ledger.ListPayments(models.DB, family.ID, ledger.PaymentFilter{Status: "overdue"})
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(1), count)
	suite.Require().Len(payments, 1)
	suite.Assert().Equal(overdue.ID, payments[0].ID)
}

func (suite *TestSuiteStandard) TestListPaymentsStatusValidated() {
	family := suite.createTestFamily(models.Family{})

	_, _, err := ledger.ListPayments(models.DB, family.ID, ledger.PaymentFilter{Status: "partial"})
	suite.Assert().ErrorIs(err, models.ErrPaymentStatusInvalid)
}
