package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

// PaymentCreate defines all values accepted when creating a payment.
type PaymentCreate struct {
	Payee              string             `json:"payee" binding:"required" example:"City Power & Light"`
	Note               string             `json:"note"`
	Amount             decimal.Decimal    `json:"amount" example:"120.5"`
	DueDate            time.Time          `json:"dueDate"`
	Type               models.PaymentType `json:"type" example:"recurring"`
	Frequency          models.Frequency   `json:"frequency" example:"monthly"`
	SpendingCategoryID *uuid.UUID         `json:"spendingCategoryId"`
	AutoPay            bool               `json:"autoPay"`
}

// PaymentUpdate is a partial update of an unpaid payment.
type PaymentUpdate struct {
	Payee              *string               `json:"payee"`
	Note               *string               `json:"note"`
	Amount             *decimal.Decimal      `json:"amount"`
	DueDate            *time.Time            `json:"dueDate"`
	SpendingCategoryID *uuid.UUID            `json:"spendingCategoryId"`
	AutoPay            *bool                 `json:"autoPay"`
	Status             *models.PaymentStatus `json:"status"`
}

// PaymentFilter selects payments for listing.
type PaymentFilter struct {
	Status  string     `form:"status"` // Stored statuses plus the derived "overdue"
	From    *time.Time `form:"from" time_format:"2006-01-02"`
	To      *time.Time `form:"to" time_format:"2006-01-02"`
	Search  string     `form:"search"`
	AutoPay *bool      `form:"autoPay"`
	Limit   int        `form:"limit"`
	Offset  int        `form:"offset"`
}

// CreatePayment validates and stores a new scheduled payment.
func CreatePayment(db *gorm.DB, familyID uuid.UUID, create PaymentCreate) (models.Payment, error) {
	payment := models.Payment{
		FamilyID:           familyID,
		Payee:              create.Payee,
		Note:               create.Note,
		Amount:             create.Amount,
		DueDate:            create.DueDate,
		Type:               create.Type,
		Frequency:          create.Frequency,
		Status:             models.PaymentStatusScheduled,
		SpendingCategoryID: create.SpendingCategoryID,
		AutoPay:            create.AutoPay,
		AttributedAmount:   decimal.Zero,
	}

	err := db.Create(&payment).Error
	if err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

// GetPayment returns the payment with the given ID for the family.
func GetPayment(db *gorm.DB, familyID, id uuid.UUID) (models.Payment, error) {
	var payment models.Payment
	err := db.First(&payment, "id = ? AND family_id = ?", id, familyID).Error
	if err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

// MarkPaid records a payment as paid.
//
// For recurring payments a new scheduled occurrence of the same series
// is spawned in the same transaction.
func MarkPaid(db *gorm.DB, familyID, id uuid.UUID, paidDate time.Time, paidAmount decimal.Decimal) (models.Payment, error) {
	if paidDate.IsZero() {
		paidDate = time.Now().In(time.UTC)
	}

	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		payment, err = GetPayment(tx, familyID, id)
		if err != nil {
			return err
		}

		switch payment.Status {
		case models.PaymentStatusPaid:
			return ErrAlreadyPaid
		case models.PaymentStatusCancelled:
			return ErrPaymentCancelled
		}

		// Variable payments may be paid with a different amount
		if paidAmount.IsZero() {
			paidAmount = payment.Amount
		}
		if !paidAmount.IsPositive() {
			return models.ErrPaymentAmountNotPositive
		}

		err = tx.Model(&payment).Updates(map[string]any{
			"status":      models.PaymentStatusPaid,
			"paid_date":   paidDate.In(time.UTC),
			"paid_amount": paidAmount,
		}).Error
		if err != nil {
			return err
		}

		if payment.Type == models.PaymentTypeRecurring && payment.Frequency.Recurring() {
			next := models.Payment{
				FamilyID:           payment.FamilyID,
				Payee:              payment.Payee,
				Note:               payment.Note,
				Amount:             payment.Amount,
				DueDate:            payment.Frequency.NextDate(payment.DueDate),
				Type:               payment.Type,
				Frequency:          payment.Frequency,
				Status:             models.PaymentStatusScheduled,
				SpendingCategoryID: payment.SpendingCategoryID,
				AutoPay:            payment.AutoPay,
				AttributedAmount:   decimal.Zero,
				SeriesID:           payment.SeriesID,
			}

			err = tx.Create(&next).Error
			if err != nil {
				return err
			}
		}

		payment, err = GetPayment(tx, familyID, id)
		return err
	})
	if err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

// UpdatePayment applies a partial update to an unpaid payment.
//
// The amount can not be lowered below the amount already attributed to
// the payment.
func UpdatePayment(db *gorm.DB, familyID, id uuid.UUID, update PaymentUpdate) (models.Payment, error) {
	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		payment, err = GetPayment(tx, familyID, id)
		if err != nil {
			return err
		}

		if payment.Status == models.PaymentStatusPaid {
			return ErrPaidImmutable
		}

		updates := map[string]any{}
		if update.Payee != nil {
			updates["payee"] = *update.Payee
		}
		if update.Note != nil {
			updates["note"] = *update.Note
		}
		if update.Amount != nil {
			if update.Amount.LessThan(payment.AttributedAmount) {
				return ErrBelowAttributed
			}
			updates["amount"] = *update.Amount
		}
		if update.DueDate != nil {
			updates["due_date"] = update.DueDate.In(time.UTC)
		}
		if update.SpendingCategoryID != nil {
			if *update.SpendingCategoryID == uuid.Nil {
				updates["spending_category_id"] = nil
			} else {
				err = tx.First(&models.SpendingCategory{}, "id = ? AND family_id = ?", *update.SpendingCategoryID, familyID).Error
				if err != nil {
					return err
				}
				updates["spending_category_id"] = *update.SpendingCategoryID
			}
		}
		if update.AutoPay != nil {
			updates["auto_pay"] = *update.AutoPay
		}
		if update.Status != nil {
			updates["status"] = *update.Status
		}

		err = tx.Model(&payment).Updates(updates).Error
		if err != nil {
			return err
		}

		payment, err = GetPayment(tx, familyID, id)
		return err
	})
	if err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

// DeletePayment deletes a payment. With deleteAll, all scheduled future
// occurrences of the same recurring series are deleted as well.
//
// Attributions of the deleted payments are removed and their amounts are
// restored to the income events they drew on, all in one transaction.
func DeletePayment(db *gorm.DB, familyID, id uuid.UUID, deleteAll bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		payment, err := GetPayment(tx, familyID, id)
		if err != nil {
			return err
		}

		payments := []models.Payment{payment}
		if deleteAll {
			var future []models.Payment
			err = tx.
				Where("family_id = ? AND series_id = ? AND id != ?", familyID, payment.SeriesID, payment.ID).
				Where("status = ?", models.PaymentStatusScheduled).
				Where("due_date >= ?", payment.DueDate).
				Find(&future).Error
			if err != nil {
				return err
			}
			payments = append(payments, future...)
		}

		for _, p := range payments {
			var attributions []models.PaymentAttribution
			err = tx.Where("payment_id = ?", p.ID).Find(&attributions).Error
			if err != nil {
				return err
			}

			for _, attribution := range attributions {
				err = releaseAttribution(tx, attribution)
				if err != nil {
					return err
				}
			}

			err = tx.Delete(&p).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// ListPayments returns the family's payments matching the filter,
// ordered by due date ascending, and the total count of matches before
// limit and offset are applied.
//
// The "overdue" status filter selects scheduled payments whose due date
// has passed, matching the derived display status.
func ListPayments(db *gorm.DB, familyID uuid.UUID, filter PaymentFilter) ([]models.Payment, int64, error) {
	q := db.Model(&models.Payment{}).
		Where("family_id = ?", familyID).
		Order("due_date ASC")

	storedStatuses := []string{
		string(models.PaymentStatusScheduled),
		string(models.PaymentStatusPaid),
		string(models.PaymentStatusCancelled),
	}

	switch {
	case filter.Status == "":
	case filter.Status == string(models.PaymentStatusOverdue):
		q = q.Where("status = ?", models.PaymentStatusScheduled).
			Where("due_date < ?", time.Now().In(time.UTC).Truncate(24*time.Hour))
	case slices.Contains(storedStatuses, filter.Status):
		q = q.Where("status = ?", filter.Status)
	default:
		return nil, 0, models.ErrPaymentStatusInvalid
	}

	if filter.From != nil {
		q = q.Where("due_date >= ?", filter.From.In(time.UTC))
	}
	if filter.To != nil {
		q = q.Where("due_date <= ?", filter.To.In(time.UTC))
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		q = q.Where(
			db.Where("payee LIKE ?", search).Or("note LIKE ?", search),
		)
	}
	if filter.AutoPay != nil {
		q = q.Where("auto_pay = ?", *filter.AutoPay)
	}

	var count int64
	err := q.Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	q = q.Offset(filter.Offset)

	// Default to 50 payments
	limit := 50
	if filter.Limit != 0 {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var payments []models.Payment
	err = q.Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, count, nil
}
