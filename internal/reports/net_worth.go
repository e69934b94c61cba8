package reports

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

// NetWorthReport is a point-in-time view over the family's bank
// accounts.
type NetWorthReport struct {
	Assets          decimal.Decimal    `json:"assets"`      // Checking and savings balances
	Liabilities     decimal.Decimal    `json:"liabilities"` // Credit and loan balances, as positive numbers
	CurrentNetWorth decimal.Decimal    `json:"currentNetWorth"`
	Accounts        []NetWorthAccount  `json:"accounts"`
}

// NetWorthAccount is one account's contribution to the report.
type NetWorthAccount struct {
	BankAccountID uuid.UUID              `json:"bankAccountId"`
	Name          string                 `json:"name"`
	Type          models.BankAccountType `json:"type"`
	Balance       decimal.Decimal        `json:"balance"`
}

// NetWorth sums the family's non-deleted, non-archived bank account
// balances. Asset account balances count as-is, credit and loan
// balances count as liabilities by absolute value.
func NetWorth(db *gorm.DB, familyID uuid.UUID) (NetWorthReport, error) {
	var accounts []models.BankAccount
	err := db.
		Where("family_id = ? AND archived = ?", familyID, false).
		Order("name ASC").
		Find(&accounts).Error
	if err != nil {
		return NetWorthReport{}, err
	}

	report := NetWorthReport{
		Assets:      decimal.Zero,
		Liabilities: decimal.Zero,
		Accounts:    make([]NetWorthAccount, 0, len(accounts)),
	}

	for _, account := range accounts {
		if account.Type.IsAsset() {
			report.Assets = report.Assets.Add(account.CurrentBalance)
		} else {
			report.Liabilities = report.Liabilities.Add(account.CurrentBalance.Abs())
		}

		report.Accounts = append(report.Accounts, NetWorthAccount{
			BankAccountID: account.ID,
			Name:          account.Name,
			Type:          account.Type,
			Balance:       account.CurrentBalance,
		})
	}

	report.CurrentNetWorth = report.Assets.Sub(report.Liabilities)

	return report, nil
}
