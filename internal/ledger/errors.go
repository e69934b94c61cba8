// Package ledger implements the income, payment, attribution and budget
// allocation engines.
//
// All operations are family-scoped: a resource that exists but belongs
// to another family reads as not found. Every multi-row mutation runs in
// a single database transaction and either commits fully or rolls back.
package ledger

import "errors"

var (
	// Income event lifecycle
	ErrAlreadyReceived      = errors.New("the income event has already been received")
	ErrNotReceived          = errors.New("the income event has not been received")
	ErrIncomeEventCancelled = errors.New("the income event has been cancelled")
	ErrReceivedImmutable    = errors.New("a received income event can not be updated, revert the receipt first")
	ErrBelowAllocated       = errors.New("the income event amount can not be lower than the amount already attributed to payments")
	ErrHasAttributions      = errors.New("the income event has payment attributions, remove them first")

	// Payment lifecycle
	ErrAlreadyPaid      = errors.New("the payment has already been paid")
	ErrPaymentCancelled = errors.New("the payment has been cancelled")
	ErrPaidImmutable    = errors.New("a paid payment can not be updated")
	ErrBelowAttributed  = errors.New("the payment amount can not be lower than the amount already attributed to it")

	// Conservation
	ErrExceedsPaymentAmount   = errors.New("the attribution would exceed the payment amount")
	ErrExceedsAvailableIncome = errors.New("the attribution would exceed the remaining amount of the income event")
)
