package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

// IncomeEventCreate defines all values accepted when creating an income event.
type IncomeEventCreate struct {
	Name      string           `json:"name" binding:"required" example:"Salary"`
	Source    string           `json:"source" example:"ACME Corp"`
	Note      string           `json:"note"`
	Amount    decimal.Decimal  `json:"amount" example:"5000"`
	Date      time.Time        `json:"date"`
	Frequency models.Frequency `json:"frequency" example:"monthly"`
}

// IncomeEventUpdate is a partial update of a scheduled income event.
type IncomeEventUpdate struct {
	Name      *string                   `json:"name"`
	Source    *string                   `json:"source"`
	Note      *string                   `json:"note"`
	Amount    *decimal.Decimal          `json:"amount"`
	Date      *time.Time                `json:"date"`
	Frequency *models.Frequency         `json:"frequency"`
	Status    *models.IncomeEventStatus `json:"status"`
}

// IncomeEventFilter selects income events for listing.
type IncomeEventFilter struct {
	Status string     `form:"status"`
	From   *time.Time `form:"from" time_format:"2006-01-02"`
	To     *time.Time `form:"to" time_format:"2006-01-02"`
	Search string     `form:"search"`
	Limit  int        `form:"limit"`
	Offset int        `form:"offset"`
}

// CreateIncomeEvent validates and stores a new scheduled income event.
func CreateIncomeEvent(db *gorm.DB, familyID uuid.UUID, create IncomeEventCreate) (models.IncomeEvent, error) {
	event := models.IncomeEvent{
		FamilyID:        familyID,
		Name:            create.Name,
		Source:          create.Source,
		Note:            create.Note,
		Amount:          create.Amount,
		Date:            create.Date,
		Frequency:       create.Frequency,
		Status:          models.IncomeEventStatusScheduled,
		AllocatedAmount: decimal.Zero,
		RemainingAmount: create.Amount,
	}

	if create.Frequency.Recurring() {
		next := create.Frequency.NextDate(create.Date)
		event.NextDate = &next
	}

	err := db.Create(&event).Error
	if err != nil {
		return models.IncomeEvent{}, err
	}

	return event, nil
}

// GetIncomeEvent returns the income event with the given ID for the family.
func GetIncomeEvent(db *gorm.DB, familyID, id uuid.UUID) (models.IncomeEvent, error) {
	var event models.IncomeEvent
	err := db.First(&event, "id = ? AND family_id = ?", id, familyID).Error
	if err != nil {
		return models.IncomeEvent{}, err
	}

	return event, nil
}

// MarkReceived records the receipt of an income event.
//
// The remaining amount is recomputed from the actual amount, carrying
// over all attributions made against the scheduled amount. For recurring
// income a new scheduled occurrence is spawned. Budget allocations for
// the family's active categories are created in the same transaction.
func MarkReceived(db *gorm.DB, familyID, id uuid.UUID, actualDate time.Time, actualAmount decimal.Decimal) (models.IncomeEvent, error) {
	if !actualAmount.IsPositive() {
		return models.IncomeEvent{}, models.ErrIncomeEventAmountNotPositive
	}

	if actualDate.IsZero() {
		actualDate = time.Now().In(time.UTC)
	}

	var event models.IncomeEvent
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		event, err = GetIncomeEvent(tx, familyID, id)
		if err != nil {
			return err
		}

		switch event.Status {
		case models.IncomeEventStatusReceived:
			return ErrAlreadyReceived
		case models.IncomeEventStatusCancelled:
			return ErrIncomeEventCancelled
		}

		if actualAmount.LessThan(event.AllocatedAmount) {
			return ErrBelowAllocated
		}

		// The WHERE clause re-checks the preconditions so that a
		// concurrent attribution can not slip between the read above and
		// this write.
		res := tx.Model(&event).
			Where("status = ?", models.IncomeEventStatusScheduled).
			Where("allocated_amount <= ?", actualAmount).
			Updates(map[string]any{
				"status":           models.IncomeEventStatusReceived,
				"actual_date":      actualDate.In(time.UTC),
				"actual_amount":    actualAmount,
				"remaining_amount": gorm.Expr("? - allocated_amount", actualAmount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBelowAllocated
		}

		if event.Frequency.Recurring() {
			next := models.IncomeEvent{
				FamilyID:        event.FamilyID,
				Name:            event.Name,
				Source:          event.Source,
				Note:            event.Note,
				Amount:          event.Amount,
				Date:            event.Frequency.NextDate(event.Date),
				Frequency:       event.Frequency,
				Status:          models.IncomeEventStatusScheduled,
				AllocatedAmount: decimal.Zero,
				RemainingAmount: event.Amount,
			}
			nextNext := event.Frequency.NextDate(next.Date)
			next.NextDate = &nextNext

			err = tx.Create(&next).Error
			if err != nil {
				return err
			}
		}

		event, err = GetIncomeEvent(tx, familyID, id)
		if err != nil {
			return err
		}

		_, err = allocateReceived(tx, event)
		return err
	})
	if err != nil {
		return models.IncomeEvent{}, err
	}

	return event, nil
}

// RevertReceived reverts a received income event back to scheduled.
//
// The remaining amount is recomputed from the scheduled amount and the
// budget allocations created on receipt are removed. Attributions stay
// untouched. An already-spawned next occurrence is not retracted.
func RevertReceived(db *gorm.DB, familyID, id uuid.UUID) (models.IncomeEvent, error) {
	var event models.IncomeEvent
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		event, err = GetIncomeEvent(tx, familyID, id)
		if err != nil {
			return err
		}

		if event.Status != models.IncomeEventStatusReceived {
			return ErrNotReceived
		}

		if event.Amount.LessThan(event.AllocatedAmount) {
			return ErrBelowAllocated
		}

		err = tx.Where(&models.BudgetAllocation{IncomeEventID: event.ID}).Delete(&models.BudgetAllocation{}).Error
		if err != nil {
			return err
		}

		res := tx.Model(&event).
			Where("status = ?", models.IncomeEventStatusReceived).
			Where("allocated_amount <= amount").
			Updates(map[string]any{
				"status":           models.IncomeEventStatusScheduled,
				"actual_date":      nil,
				"actual_amount":    nil,
				"remaining_amount": gorm.Expr("amount - allocated_amount"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBelowAllocated
		}

		event, err = GetIncomeEvent(tx, familyID, id)
		return err
	})
	if err != nil {
		return models.IncomeEvent{}, err
	}

	return event, nil
}

// UpdateIncomeEvent applies a partial update to a scheduled income event.
//
// Received income events are immutable until the receipt is reverted.
// The amount can not be lowered below the amount already attributed.
func UpdateIncomeEvent(db *gorm.DB, familyID, id uuid.UUID, update IncomeEventUpdate) (models.IncomeEvent, error) {
	var event models.IncomeEvent
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		event, err = GetIncomeEvent(tx, familyID, id)
		if err != nil {
			return err
		}

		if event.Status == models.IncomeEventStatusReceived {
			return ErrReceivedImmutable
		}

		updates := map[string]any{}
		if update.Name != nil {
			updates["name"] = *update.Name
		}
		if update.Source != nil {
			updates["source"] = *update.Source
		}
		if update.Note != nil {
			updates["note"] = *update.Note
		}
		if update.Status != nil {
			updates["status"] = *update.Status
		}

		amount := event.Amount
		if update.Amount != nil {
			if update.Amount.LessThan(event.AllocatedAmount) {
				return ErrBelowAllocated
			}

			amount = *update.Amount
			updates["amount"] = amount
			updates["remaining_amount"] = amount.Sub(event.AllocatedAmount)
		}

		date := event.Date
		if update.Date != nil {
			date = update.Date.In(time.UTC)
			updates["date"] = date
		}

		frequency := event.Frequency
		if update.Frequency != nil {
			frequency = *update.Frequency
			updates["frequency"] = frequency
		}

		if update.Date != nil || update.Frequency != nil {
			if frequency.Recurring() {
				updates["next_date"] = frequency.NextDate(date)
			} else {
				updates["next_date"] = nil
			}
		}

		err = tx.Model(&event).Updates(updates).Error
		if err != nil {
			return err
		}

		event, err = GetIncomeEvent(tx, familyID, id)
		return err
	})
	if err != nil {
		return models.IncomeEvent{}, err
	}

	return event, nil
}

// DeleteIncomeEvent deletes an income event and its budget allocations.
//
// Deletion is only permitted when no payment attribution draws on the
// income event.
func DeleteIncomeEvent(db *gorm.DB, familyID, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		event, err := GetIncomeEvent(tx, familyID, id)
		if err != nil {
			return err
		}

		var attributions int64
		err = tx.Model(&models.PaymentAttribution{}).Where("income_event_id = ?", event.ID).Count(&attributions).Error
		if err != nil {
			return err
		}
		if attributions > 0 {
			return ErrHasAttributions
		}

		err = tx.Where(&models.BudgetAllocation{IncomeEventID: event.ID}).Delete(&models.BudgetAllocation{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&event).Error
	})
}

// ListIncomeEvents returns the family's income events matching the
// filter, ordered by scheduled date ascending, and the total count of
// matches before limit and offset are applied.
func ListIncomeEvents(db *gorm.DB, familyID uuid.UUID, filter IncomeEventFilter) ([]models.IncomeEvent, int64, error) {
	q := db.Model(&models.IncomeEvent{}).
		Where("family_id = ?", familyID).
		Order("date ASC")

	statuses := []string{
		string(models.IncomeEventStatusScheduled),
		string(models.IncomeEventStatusReceived),
		string(models.IncomeEventStatusCancelled),
	}

	if filter.Status != "" {
		if !slices.Contains(statuses, filter.Status) {
			return nil, 0, models.ErrIncomeEventStatusInvalid
		}
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", filter.From.In(time.UTC))
	}
	if filter.To != nil {
		q = q.Where("date <= ?", filter.To.In(time.UTC))
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		q = q.Where(
			db.Where("name LIKE ?", search).
				Or("source LIKE ?", search).
				Or("note LIKE ?", search),
		)
	}

	var count int64
	err := q.Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	q = q.Offset(filter.Offset)

	// Default to 50 events
	limit := 50
	if filter.Limit != 0 {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var events []models.IncomeEvent
	err = q.Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, count, nil
}
