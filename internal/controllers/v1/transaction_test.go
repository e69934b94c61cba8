package v1_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	v1 "github.com/hearthledger/backend/internal/controllers/v1"
	"github.com/hearthledger/backend/test"
)

func (suite *TestSuiteStandard) TestCreateTransactions() {
	family := suite.createTestFamily(v1.FamilyEditable{})

	// The endpoint takes a batch
	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, "/transactions"), []v1.TransactionEditable{
		{
			Date:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.NewFromFloat(42.13),
			Merchant: "Corner Store",
		},
		{
			Date:     time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.NewFromInt(15),
			Merchant: "Bakery",
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.TransactionListResponse
	suite.decodeResponse(&r, &response)
	suite.Require().Len(response.Data, 2)
	assert.True(suite.T(), response.Data[0].Amount.Equal(decimal.NewFromFloat(42.13)))
}

func (suite *TestSuiteStandard) TestCreateTransactionAmountMustBePositive() {
	family := suite.createTestFamily(v1.FamilyEditable{})

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, "/transactions"), []v1.TransactionEditable{
		{
			Date:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.NewFromInt(-10),
			Merchant: "Corner Store",
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetTransactionsFilters() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	groceries := suite.createTestSpendingCategory(family, v1.SpendingCategoryEditable{Name: "Groceries"})

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, "/transactions"), []v1.TransactionEditable{
		{
			SpendingCategoryID: &groceries.ID,
			Date:               time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Amount:             decimal.NewFromInt(30),
			Merchant:           "Corner Store",
		},
		{
			Date:     time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.NewFromInt(50),
			Merchant: "Gas Station",
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	r = test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, fmt.Sprintf("/transactions?spendingCategory=%s", groceries.ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionListResponse
	suite.decodeResponse(&r, &response)
	suite.Require().Len(response.Data, 1)
	assert.Equal(suite.T(), "Corner Store", response.Data[0].Merchant)

	r = test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, "/transactions?from=2024-02-01"), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	suite.decodeResponse(&r, &response)
	suite.Require().Len(response.Data, 1)
	assert.Equal(suite.T(), "Gas Station", response.Data[0].Merchant)

	// Newest first without filters
	r = test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, "/transactions"), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	suite.decodeResponse(&r, &response)
	suite.Require().Len(response.Data, 2)
	assert.Equal(suite.T(), "Gas Station", response.Data[0].Merchant)
	assert.Equal(suite.T(), int64(2), response.Pagination.Total)
}

func (suite *TestSuiteStandard) TestUpdateTransaction() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	groceries := suite.createTestSpendingCategory(family, v1.SpendingCategoryEditable{Name: "Groceries"})

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, "/transactions"), []v1.TransactionEditable{
		{
			Date:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.NewFromInt(30),
			Merchant: "Corner Store",
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created v1.TransactionListResponse
	suite.decodeResponse(&r, &created)
	suite.Require().Len(created.Data, 1)

	r = test.Request(suite.router, suite.T(), http.MethodPatch, suite.familyPath(family, fmt.Sprintf("/transactions/%s", created.Data[0].ID)), map[string]any{
		"spendingCategoryId": groceries.ID,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	// A spending category of another family is rejected
	other := suite.createTestFamily(v1.FamilyEditable{Name: "Other Family"})
	foreign := suite.createTestSpendingCategory(other, v1.SpendingCategoryEditable{Name: "Groceries"})

	r = test.Request(suite.router, suite.T(), http.MethodPatch, suite.familyPath(family, fmt.Sprintf("/transactions/%s", created.Data[0].ID)), map[string]any{
		"spendingCategoryId": foreign.ID,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDeleteTransaction() {
	family := suite.createTestFamily(v1.FamilyEditable{})

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, "/transactions"), []v1.TransactionEditable{
		{
			Date:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.NewFromInt(30),
			Merchant: "Corner Store",
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created v1.TransactionListResponse
	suite.decodeResponse(&r, &created)
	suite.Require().Len(created.Data, 1)

	r = test.Request(suite.router, suite.T(), http.MethodDelete, suite.familyPath(family, fmt.Sprintf("/transactions/%s", created.Data[0].ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.router, suite.T(), http.MethodDelete, suite.familyPath(family, fmt.Sprintf("/transactions/%s", uuid.New())), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionDatesInUTC() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	berlin, err := time.LoadLocation("Europe/Berlin")
	suite.Require().Nil(err)

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, "/transactions"), []v1.TransactionEditable{
		{
			Date:     time.Date(2024, 1, 5, 10, 0, 0, 0, berlin),
			Amount:   decimal.NewFromInt(30),
			Merchant: "Corner Store",
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created v1.TransactionListResponse
	suite.decodeResponse(&r, &created)
	suite.Require().Len(created.Data, 1)
	assert.True(suite.T(), created.Data[0].Date.Equal(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)))
}
