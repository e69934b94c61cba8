package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

// UpcomingOccurrence is a projected future occurrence of a scheduled
// income event or payment.
type UpcomingOccurrence struct {
	Kind     string          `json:"kind"` // "income" or "payment"
	SourceID uuid.UUID       `json:"sourceId"`
	Name     string          `json:"name"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
}

// ListUpcoming projects the occurrences of the family's scheduled income
// events and payments for the next `days` days, including recurring
// occurrences that have not been materialized yet.
//
// The projection uses the same pure frequency arithmetic as the lazy
// spawning on receipt/payment, so both views always agree.
func ListUpcoming(db *gorm.DB, familyID uuid.UUID, days int) ([]UpcomingOccurrence, error) {
	now := time.Now().In(time.UTC).Truncate(24 * time.Hour)
	horizon := now.AddDate(0, 0, days)

	var events []models.IncomeEvent
	err := db.
		Where("family_id = ? AND status = ?", familyID, models.IncomeEventStatusScheduled).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	var payments []models.Payment
	err = db.
		Where("family_id = ? AND status = ?", familyID, models.PaymentStatusScheduled).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	occurrences := []UpcomingOccurrence{}
	for _, event := range events {
		for _, date := range projectDates(event.Date, event.Frequency, now, horizon) {
			occurrences = append(occurrences, UpcomingOccurrence{
				Kind:     "income",
				SourceID: event.ID,
				Name:     event.Name,
				Date:     date,
				Amount:   event.Amount,
			})
		}
	}

	for _, payment := range payments {
		for _, date := range projectDates(payment.DueDate, payment.Frequency, now, horizon) {
			occurrences = append(occurrences, UpcomingOccurrence{
				Kind:     "payment",
				SourceID: payment.ID,
				Name:     payment.Payee,
				Date:     date,
				Amount:   payment.Amount,
			})
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if !occurrences[i].Date.Equal(occurrences[j].Date) {
			return occurrences[i].Date.Before(occurrences[j].Date)
		}
		return occurrences[i].Name < occurrences[j].Name
	})

	return occurrences, nil
}

// projectDates returns the occurrence dates of a schedule within
// [from, to], starting from the scheduled date.
func projectDates(start time.Time, frequency models.Frequency, from, to time.Time) []time.Time {
	dates := []time.Time{}

	date := start.In(time.UTC)
	for !date.After(to) {
		if !date.Before(from) {
			dates = append(dates, date)
		}

		if !frequency.Recurring() {
			break
		}
		date = frequency.NextDate(date)
	}

	return dates
}
