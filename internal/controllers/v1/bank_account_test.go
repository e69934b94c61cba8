package v1_test

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	v1 "github.com/hearthledger/backend/internal/controllers/v1"
	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/test"
)

func (suite *TestSuiteStandard) createTestBankAccount(family v1.Family, editable v1.BankAccountEditable, expectedStatus ...int) models.BankAccount {
	if editable.Name == "" {
		editable.Name = "Joint checking"
	}
	if editable.Type == "" {
		editable.Type = models.BankAccountTypeChecking
	}
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(suite.router, suite.T(), http.MethodPost, suite.familyPath(family, "/bank-accounts"), editable)
	test.AssertHTTPStatus(suite.T(), &r, expectedStatus...)

	var account models.BankAccount
	suite.decodeResponse(&r, &account)

	return account
}

func (suite *TestSuiteStandard) TestCreateBankAccount() {
	family := suite.createTestFamily(v1.FamilyEditable{})

	account := suite.createTestBankAccount(family, v1.BankAccountEditable{
		Name:           "Emergency fund",
		Type:           models.BankAccountTypeSavings,
		CurrentBalance: decimal.NewFromInt(10000),
	})

	assert.Equal(suite.T(), models.BankAccountTypeSavings, account.Type)
	assert.True(suite.T(), account.CurrentBalance.Equal(decimal.NewFromInt(10000)))
}

func (suite *TestSuiteStandard) TestCreateBankAccountInvalidType() {
	family := suite.createTestFamily(v1.FamilyEditable{})

	_ = suite.createTestBankAccount(family, v1.BankAccountEditable{
		Name: "Brokerage",
		Type: "brokerage",
	}, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetBankAccounts() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	_ = suite.createTestBankAccount(family, v1.BankAccountEditable{Name: "Joint checking"})
	_ = suite.createTestBankAccount(family, v1.BankAccountEditable{Name: "Emergency fund", Type: models.BankAccountTypeSavings})

	r := test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, "/bank-accounts"), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BankAccountListResponse
	suite.decodeResponse(&r, &response)

	// Sorted by name
	suite.Require().Len(response.Data, 2)
	assert.Equal(suite.T(), "Emergency fund", response.Data[0].Name)
	assert.Equal(suite.T(), "Joint checking", response.Data[1].Name)
}

func (suite *TestSuiteStandard) TestUpdateBankAccountBalance() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	account := suite.createTestBankAccount(family, v1.BankAccountEditable{
		CurrentBalance: decimal.NewFromInt(1000),
	})

	// Negative balances represent debt on asset accounts as well
	r := test.Request(suite.router, suite.T(), http.MethodPatch, suite.familyPath(family, fmt.Sprintf("/bank-accounts/%s", account.ID)), map[string]any{
		"currentBalance": "-250.75",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated models.BankAccount
	suite.decodeResponse(&r, &updated)
	assert.True(suite.T(), updated.CurrentBalance.Equal(decimal.NewFromFloat(-250.75)))
}

func (suite *TestSuiteStandard) TestDeleteBankAccount() {
	family := suite.createTestFamily(v1.FamilyEditable{})
	account := suite.createTestBankAccount(family, v1.BankAccountEditable{})

	r := test.Request(suite.router, suite.T(), http.MethodDelete, suite.familyPath(family, fmt.Sprintf("/bank-accounts/%s", account.ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.router, suite.T(), http.MethodGet, suite.familyPath(family, fmt.Sprintf("/bank-accounts/%s", account.ID)), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
