package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/ledger"
	"github.com/hearthledger/backend/internal/models"
)

// PaymentPay is the optional body for marking a payment as paid.
type PaymentPay struct {
	PaidDate   *time.Time       `json:"paidDate"`   // Defaults to today
	PaidAmount *decimal.Decimal `json:"paidAmount"` // Defaults to the scheduled amount
}

func (pay PaymentPay) paidDate() time.Time {
	if pay.PaidDate != nil {
		return *pay.PaidDate
	}

	return time.Time{}
}

func (pay PaymentPay) paidAmount() decimal.Decimal {
	if pay.PaidAmount != nil {
		return *pay.PaidAmount
	}

	return decimal.Zero
}

type PaymentLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/families/d1b4132f-b6c8-4e30-8bbb-cb9b920e437b/payments/6f8c09ba-3733-45f3-b986-fdacf3b68bab"`
	Attributions string `json:"attributions" example:"https://example.com/api/v1/families/d1b4132f-b6c8-4e30-8bbb-cb9b920e437b/payments/6f8c09ba-3733-45f3-b986-fdacf3b68bab/attributions"`
	Paid         string `json:"paid" example:"https://example.com/api/v1/families/d1b4132f-b6c8-4e30-8bbb-cb9b920e437b/payments/6f8c09ba-3733-45f3-b986-fdacf3b68bab/paid"`
}

type Payment struct {
	models.Payment
	DisplayStatus models.PaymentStatus `json:"displayStatus" example:"overdue"` // Status including the derived overdue and partial states
	Links         PaymentLinks         `json:"links"`
}

func newPayment(c *gin.Context, model models.Payment) Payment {
	self := fmt.Sprintf("%s/families/%s/payments/%s", httputil.RequestPathV1(c), model.FamilyID, model.ID)

	return Payment{
		Payment:       model,
		DisplayStatus: model.DisplayStatus(time.Now().In(time.UTC)),
		Links: PaymentLinks{
			Self:         self,
			Attributions: self + "/attributions",
			Paid:         self + "/paid",
		},
	}
}

type PaymentListResponse struct {
	Data       []Payment  `json:"data"`       // List of payments
	Pagination Pagination `json:"pagination"` // Pagination information
}

type SplitSuggestionResponse struct {
	Data []ledger.SplitProposal `json:"data"` // Suggested legs, oldest income first
}

// AttributionEditable represents all user configurable parameters of a
// payment attribution.
type AttributionEditable struct {
	IncomeEventID string          `json:"incomeEventId" binding:"required" example:"5b95f0ab-fa6d-4916-a937-b2a066eb1bab"` // ID of the income event the money comes from
	Amount        decimal.Decimal `json:"amount" example:"700"`                                                           // The attributed amount
}

// AttributionReplace is the body for replacing an attribution's amount.
type AttributionReplace struct {
	Amount decimal.Decimal `json:"amount" binding:"required" example:"500"` // The new attributed amount
}

type AttributionListResponse struct {
	Data []models.PaymentAttribution `json:"data"` // List of attributions
}
