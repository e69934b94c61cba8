package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

// SplitProposal is one leg of a suggested split of a payment across
// multiple income events. Proposals are advisory, creating the legs goes
// through AttributeToIncome so the conservation checks apply to each.
type SplitProposal struct {
	IncomeEventID uuid.UUID       `json:"incomeEventId"`
	Name          string          `json:"name"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
}

// AttributeToIncome earmarks part of an income event's money for a
// payment.
//
// The attribution row, the payment's attributed amount and the income
// event's allocated and remaining amounts are written in one
// transaction. Conservation is enforced twice: once against the loaded
// rows for a precise error, and again in the guarded UPDATE statements
// so that concurrent attributions can not jointly overspend.
func AttributeToIncome(db *gorm.DB, familyID, paymentID, incomeEventID uuid.UUID, amount decimal.Decimal, attributionType models.AttributionType) (models.PaymentAttribution, error) {
	if !amount.IsPositive() {
		return models.PaymentAttribution{}, models.ErrAttributionAmountNotPositive
	}

	var attribution models.PaymentAttribution
	err := db.Transaction(func(tx *gorm.DB) error {
		payment, err := GetPayment(tx, familyID, paymentID)
		if err != nil {
			return err
		}

		event, err := GetIncomeEvent(tx, familyID, incomeEventID)
		if err != nil {
			return err
		}

		if event.Status == models.IncomeEventStatusCancelled {
			return ErrIncomeEventCancelled
		}

		if payment.AttributedAmount.Add(amount).GreaterThan(payment.Amount) {
			return ErrExceedsPaymentAmount
		}

		if amount.GreaterThan(event.RemainingAmount) {
			return ErrExceedsAvailableIncome
		}

		attribution = models.PaymentAttribution{
			PaymentID:     payment.ID,
			IncomeEventID: event.ID,
			Amount:        amount,
			Type:          attributionType,
		}

		err = tx.Create(&attribution).Error
		if err != nil {
			return err
		}

		return applyAttribution(tx, attribution)
	})
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	return attribution, nil
}

// RemoveAttribution deletes an attribution and restores the amounts on
// the payment and the income event.
func RemoveAttribution(db *gorm.DB, familyID, paymentID, attributionID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		attribution, err := getAttribution(tx, familyID, paymentID, attributionID)
		if err != nil {
			return err
		}

		err = releaseAttribution(tx, attribution)
		if err != nil {
			return err
		}

		return tx.Delete(&attribution).Error
	})
}

// ReplaceAttribution atomically replaces an attribution with one of a
// new amount against the same income event.
//
// It is the transactional form of remove-then-recreate: if any step
// fails, the original attribution stays in place. The replacement keeps
// the original creation timestamp so it reads as an update to consumers.
func ReplaceAttribution(db *gorm.DB, familyID, paymentID, attributionID uuid.UUID, amount decimal.Decimal) (models.PaymentAttribution, error) {
	if !amount.IsPositive() {
		return models.PaymentAttribution{}, models.ErrAttributionAmountNotPositive
	}

	var replacement models.PaymentAttribution
	err := db.Transaction(func(tx *gorm.DB) error {
		attribution, err := getAttribution(tx, familyID, paymentID, attributionID)
		if err != nil {
			return err
		}

		err = releaseAttribution(tx, attribution)
		if err != nil {
			return err
		}

		err = tx.Delete(&attribution).Error
		if err != nil {
			return err
		}

		payment, err := GetPayment(tx, familyID, paymentID)
		if err != nil {
			return err
		}

		event, err := GetIncomeEvent(tx, familyID, attribution.IncomeEventID)
		if err != nil {
			return err
		}

		if payment.AttributedAmount.Add(amount).GreaterThan(payment.Amount) {
			return ErrExceedsPaymentAmount
		}

		if amount.GreaterThan(event.RemainingAmount) {
			return ErrExceedsAvailableIncome
		}

		replacement = models.PaymentAttribution{
			DefaultModel: models.DefaultModel{
				Timestamps: models.Timestamps{CreatedAt: attribution.CreatedAt},
			},
			PaymentID:     attribution.PaymentID,
			IncomeEventID: attribution.IncomeEventID,
			Amount:        amount,
			Type:          attribution.Type,
		}

		err = tx.Create(&replacement).Error
		if err != nil {
			return err
		}

		return applyAttribution(tx, replacement)
	})
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	return replacement, nil
}

// ListAttributions returns all attributions of a payment.
func ListAttributions(db *gorm.DB, familyID, paymentID uuid.UUID) ([]models.PaymentAttribution, error) {
	_, err := GetPayment(db, familyID, paymentID)
	if err != nil {
		return nil, err
	}

	var attributions []models.PaymentAttribution
	err = db.Where("payment_id = ?", paymentID).Order("created_at ASC").Find(&attributions).Error
	if err != nil {
		return nil, err
	}

	return attributions, nil
}

// SuggestSplit proposes how to divide a payment's unattributed amount
// across the remaining balances of the family's income events,
// prioritizing the income events with the soonest effective date.
func SuggestSplit(db *gorm.DB, familyID, paymentID uuid.UUID) ([]SplitProposal, error) {
	payment, err := GetPayment(db, familyID, paymentID)
	if err != nil {
		return nil, err
	}

	open := payment.Amount.Sub(payment.AttributedAmount)
	if !open.IsPositive() {
		return []SplitProposal{}, nil
	}

	var events []models.IncomeEvent
	err = db.
		Where("family_id = ?", familyID).
		Where("status IN ?", []models.IncomeEventStatus{models.IncomeEventStatusScheduled, models.IncomeEventStatusReceived}).
		Where("remaining_amount > 0").
		Order("COALESCE(actual_date, date) ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	proposals := []SplitProposal{}
	for _, event := range events {
		if !open.IsPositive() {
			break
		}

		leg := decimal.Min(open, event.RemainingAmount)
		proposals = append(proposals, SplitProposal{
			IncomeEventID: event.ID,
			Name:          event.Name,
			Date:          event.EffectiveDate(),
			Amount:        leg,
		})
		open = open.Sub(leg)
	}

	return proposals, nil
}

// getAttribution loads an attribution, verifying both the payment link
// and the family scope. Mismatches read as not found.
func getAttribution(tx *gorm.DB, familyID, paymentID, attributionID uuid.UUID) (models.PaymentAttribution, error) {
	_, err := GetPayment(tx, familyID, paymentID)
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	var attribution models.PaymentAttribution
	err = tx.First(&attribution, "id = ? AND payment_id = ?", attributionID, paymentID).Error
	if err != nil {
		return models.PaymentAttribution{}, err
	}

	return attribution, nil
}

// applyAttribution books an attribution's amount onto the payment and
// income event balances.
//
// Both UPDATEs re-check the conservation invariant in their WHERE clause
// and are verified via RowsAffected, so a stale read can not lead to an
// overspend: the losing side of a race rolls back the transaction.
func applyAttribution(tx *gorm.DB, attribution models.PaymentAttribution) error {
	// SkipHooks: these are aggregate bumps on rows that are not fully
	// loaded, the entity validation hooks must not run against them
	res := tx.Session(&gorm.Session{SkipHooks: true}).
		Model(&models.Payment{}).
		Where("id = ?", attribution.PaymentID).
		Where("amount - attributed_amount >= ?", attribution.Amount).
		Update("attributed_amount", gorm.Expr("attributed_amount + ?", attribution.Amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExceedsPaymentAmount
	}

	res = tx.Session(&gorm.Session{SkipHooks: true}).
		Model(&models.IncomeEvent{}).
		Where("id = ?", attribution.IncomeEventID).
		Where("remaining_amount >= ?", attribution.Amount).
		Updates(map[string]any{
			"allocated_amount": gorm.Expr("allocated_amount + ?", attribution.Amount),
			"remaining_amount": gorm.Expr("remaining_amount - ?", attribution.Amount),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExceedsAvailableIncome
	}

	return nil
}

// releaseAttribution restores an attribution's amount to the payment and
// income event balances.
func releaseAttribution(tx *gorm.DB, attribution models.PaymentAttribution) error {
	err := tx.Session(&gorm.Session{SkipHooks: true}).
		Model(&models.Payment{}).
		Where("id = ?", attribution.PaymentID).
		Update("attributed_amount", gorm.Expr("attributed_amount - ?", attribution.Amount)).Error
	if err != nil {
		return err
	}

	return tx.Session(&gorm.Session{SkipHooks: true}).
		Model(&models.IncomeEvent{}).
		Where("id = ?", attribution.IncomeEventID).
		Updates(map[string]any{
			"allocated_amount": gorm.Expr("allocated_amount - ?", attribution.Amount),
			"remaining_amount": gorm.Expr("remaining_amount + ?", attribution.Amount),
		}).Error
}
