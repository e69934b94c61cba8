package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankAccountType distinguishes asset accounts from debt accounts.
type BankAccountType string

const (
	BankAccountTypeChecking BankAccountType = "checking"
	BankAccountTypeSavings  BankAccountType = "savings"
	BankAccountTypeCredit   BankAccountType = "credit"
	BankAccountTypeLoan     BankAccountType = "loan"
)

// IsAsset reports whether balances of this account type count towards
// assets. Credit and loan balances count towards liabilities.
func (t BankAccountType) IsAsset() bool {
	return t == BankAccountTypeChecking || t == BankAccountTypeSavings
}

// BankAccount is an already-materialized bank account balance.
//
// Balances are maintained by the bank-sync collaborator; the ledger only
// reads them for the net worth report.
type BankAccount struct {
	DefaultModel
	Family         Family          `json:"-"`
	FamilyID       uuid.UUID       `json:"familyId" gorm:"index"`
	Name           string          `json:"name" example:"Joint checking"`
	Type           BankAccountType `json:"type" example:"checking"`
	CurrentBalance decimal.Decimal `json:"currentBalance" gorm:"type:DECIMAL(20,8)" example:"2543.21"`
	Archived       bool            `json:"archived"`
}

var ErrBankAccountTypeInvalid = errors.New("the account type must be one of checking, savings, credit, loan")

func (b *BankAccount) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)

	return nil
}

func (b *BankAccount) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*BankAccount)
	return tx.First(&Family{}, toSave.FamilyID).Error
}

func (b *BankAccount) AfterSave(_ *gorm.DB) error {
	switch b.Type {
	case BankAccountTypeChecking, BankAccountTypeSavings, BankAccountTypeCredit, BankAccountTypeLoan:
	default:
		return ErrBankAccountTypeInvalid
	}

	return nil
}
