package v1_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	v1 "github.com/hearthledger/backend/internal/controllers/v1"
	"github.com/hearthledger/backend/internal/ledger"
	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/test"
)

func (suite *TestSuiteStandard) TestCreatePayment() {
	family := suite.createTestFamily(v1.FamilyEditable{})

	payment := suite.createTestPayment(family, ledger.PaymentCreate{
		Payee:     "Acme Insurance",
		Amount:    decimal.NewFromFloat(120.50),
		Type:      models.PaymentTypeRecurring,
		Frequency: models.FrequencyMonthly,
	})

	assert.Equal(suite.T(), models.PaymentStatusScheduled, payment.Status)
	assert.Equal(suite.T(), payment.ID, payment.SeriesID)
	assert.Contains(suite.T(), payment.Links.Attributions, fmt.Sprintf("/payments/%s/attributions", payment.ID))
}

func (suite *TestSuiteStandard) TestCreatePaymentInvalid() {
	family := suite.createTestFamily(v1.FamilyEditable{})

	// The payee is required
	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, "/payments"), map[string]any{
		"amount":  "100",
		"dueDate": "2024-02-01T00:00:00Z",
		"type":    "once",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	// Recurring payments need a frequency
	r = test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, "/payments"), map[string]any{
		"payee":   "Acme Insurance",
		"amount":  "100",
		"dueDate": "2024-02-01T00:00:00Z",
		"type":    "recurring",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetPayments() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	_ = suite.createTestPayment(family, ledger.PaymentCreate{Payee: "Rent", DueDate: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)})
	_ = suite.createTestPayment(family, ledger.PaymentCreate{Payee: "Water", DueDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})

	r := test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, "/payments"), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.PaymentListResponse
	suite.decodeResponse(&r, &response)

	// Sorted by due date
	assert.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "Water", response.Data[0].Payee)
	assert.Equal(suite.T(), "Rent", response.Data[1].Payee)
}

func (suite *TestSuiteStandard) TestGetPaymentsInvalidStatus() {
	family := suite.createTestFamily(v1.FamilyEditable{})

	r := test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, "/payments?status=partial"), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestPayPayment() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{
		Amount: decimal.NewFromFloat(120.50),
	})

	// An empty body pays with the scheduled amount
	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, fmt.Sprintf("/payments/%s/paid", payment.ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var paid v1.Payment
	suite.decodeResponse(&r, &paid)
	assert.Equal(suite.T(), models.PaymentStatusPaid, paid.Status)
	assert.True(suite.T(), paid.PaidAmount.Equal(decimal.NewFromFloat(120.50)))

	// Paying twice is rejected
	r = test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, fmt.Sprintf("/payments/%s/paid", payment.ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestPayPaymentActualValues() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{
		Amount: decimal.NewFromInt(100),
	})

	paidDate := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	paidAmount := decimal.NewFromFloat(93.17)
	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, fmt.Sprintf("/payments/%s/paid", payment.ID)), v1.PaymentPay{
		PaidDate:   &paidDate,
		PaidAmount: &paidAmount,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var paid v1.Payment
	suite.decodeResponse(&r, &paid)
	assert.True(suite.T(), paid.PaidAmount.Equal(paidAmount))
	assert.True(suite.T(), paid.PaidDate.Equal(paidDate))
}

func (suite *TestSuiteStandard) TestPayPaymentSpawnsNextOccurrence() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{
		Type:      models.PaymentTypeRecurring,
		Frequency: models.FrequencyMonthly,
		DueDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, fmt.Sprintf("/payments/%s/paid", payment.ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, "/payments?status=scheduled"), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.PaymentListResponse
	suite.decodeResponse(&r, &response)
	suite.Require().Len(response.Data, 1)
	assert.Equal(suite.T(), payment.SeriesID, response.Data[0].SeriesID)
	assert.True(suite.T(), response.Data[0].DueDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func (suite *TestSuiteStandard) TestCreateAttribution() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{Amount: decimal.NewFromInt(1000)})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{Amount: decimal.NewFromInt(700)})

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, fmt.Sprintf("/payments/%s/attributions", payment.ID)), v1.AttributionEditable{
		IncomeEventID: event.ID.String(),
		Amount:        decimal.NewFromInt(700),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var attribution models.PaymentAttribution
	suite.decodeResponse(&r, &attribution)
	assert.Equal(suite.T(), models.AttributionTypeManual, attribution.Type)

	// The income event only has 300 left
	r = test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, fmt.Sprintf("/payments/%s/attributions", payment.ID)), v1.AttributionEditable{
		IncomeEventID: event.ID.String(),
		Amount:        decimal.NewFromInt(301),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreateAttributionInvalidUUID() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{})

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, fmt.Sprintf("/payments/%s/attributions", payment.ID)), v1.AttributionEditable{
		IncomeEventID: "NotParseableAsUUID",
		Amount:        decimal.NewFromInt(10),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetAttributions() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{})

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, fmt.Sprintf("/payments/%s/attributions", payment.ID)), v1.AttributionEditable{
		IncomeEventID: event.ID.String(),
		Amount:        decimal.NewFromInt(50),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	r = test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, fmt.Sprintf("/payments/%s/attributions", payment.ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AttributionListResponse
	suite.decodeResponse(&r, &response)
	suite.Require().Len(response.Data, 1)
	assert.True(suite.T(), response.Data[0].Amount.Equal(decimal.NewFromInt(50)))
}

func (suite *TestSuiteStandard) TestReplaceAttribution() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{Amount: decimal.NewFromInt(1000)})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{Amount: decimal.NewFromInt(700)})

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, fmt.Sprintf("/payments/%s/attributions", payment.ID)), v1.AttributionEditable{
		IncomeEventID: event.ID.String(),
		Amount:        decimal.NewFromInt(700),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var attribution models.PaymentAttribution
	suite.decodeResponse(&r, &attribution)

	r = test.Request(suite.router, suite.T(), http.MethodPatch, suite.familyPath(family, fmt.Sprintf("/payments/%s/attributions/%s", payment.ID, attribution.ID)), v1.AttributionReplace{
		Amount: decimal.NewFromInt(400),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var replaced models.PaymentAttribution
	suite.decodeResponse(&r, &replaced)
	assert.True(suite.T(), replaced.Amount.Equal(decimal.NewFromInt(400)))

	// More than the payment amount is rejected
	r = test.Request(suite.router, suite.T(), http.MethodPatch, suite.familyPath(family, fmt.Sprintf("/payments/%s/attributions/%s", payment.ID, attribution.ID)), v1.AttributionReplace{
		Amount: decimal.NewFromInt(800),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDeleteAttribution() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	event := suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{})

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, fmt.Sprintf("/payments/%s/attributions", payment.ID)), v1.AttributionEditable{
		IncomeEventID: event.ID.String(),
		Amount:        payment.Amount,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var attribution models.PaymentAttribution
	suite.decodeResponse(&r, &attribution)

	r = test.Request(suite.router, suite.T(), http.MethodDelete, suite.familyPath(family, fmt.Sprintf("/payments/%s/attributions/%s", payment.ID, attribution.ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The income event's money is restored
	r = test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, fmt.Sprintf("/income-events/%s", event.ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var reloaded v1.IncomeEvent
	suite.decodeResponse(&r, &reloaded)
	assert.True(suite.T(), reloaded.AllocatedAmount.IsZero())
}

func (suite *TestSuiteStandard) TestGetSplitSuggestion() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	_ = suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{
		Name:   "January salary",
		Amount: decimal.NewFromInt(700),
		Date:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	_ = suite.createTestIncomeEvent(family, ledger.IncomeEventCreate{
		Name:   "February salary",
		Amount: decimal.NewFromInt(1000),
		Date:   time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
	})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{Amount: decimal.NewFromInt(1200)})

	r := test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, fmt.Sprintf("/payments/%s/split-suggestion", payment.ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SplitSuggestionResponse
	suite.decodeResponse(&r, &response)

	// Oldest income first
	suite.Require().Len(response.Data, 2)
	assert.True(suite.T(), response.Data[0].Amount.Equal(decimal.NewFromInt(700)))
	assert.True(suite.T(), response.Data[1].Amount.Equal(decimal.NewFromInt(500)))
}

func (suite *TestSuiteStandard) TestDeletePaymentSeries() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	payment := suite.createTestPayment(family, ledger.PaymentCreate{
		Type:      models.PaymentTypeRecurring,
		Frequency: models.FrequencyMonthly,
		DueDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})

	// Paying spawns the march occurrence
	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, fmt.Sprintf("/payments/%s/paid", payment.ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, "/payments?status=scheduled"), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.PaymentListResponse
	suite.decodeResponse(&r, &response)
	suite.Require().Len(response.Data, 1)

	r = test.Request(suite.router, suite.T(), http.MethodDelete, suite.familyPath(family, fmt.Sprintf("/payments/%s?all=true", response.Data[0].ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The paid occurrence stays
	r = test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, "/payments"), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	suite.decodeResponse(&r, &response)
	suite.Require().Len(response.Data, 1)
	assert.Equal(suite.T(), models.PaymentStatusPaid, response.Data[0].Status)
}
