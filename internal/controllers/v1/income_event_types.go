package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
)

// IncomeEventReceive is the optional body for marking income as received.
type IncomeEventReceive struct {
	ActualDate   *time.Time       `json:"actualDate"`   // Defaults to today
	ActualAmount *decimal.Decimal `json:"actualAmount"` // Defaults to the scheduled amount
}

func (receive IncomeEventReceive) actualDate() time.Time {
	if receive.ActualDate != nil {
		return *receive.ActualDate
	}

	return time.Time{}
}

type IncomeEventLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/families/d1b4132f-b6c8-4e30-8bbb-cb9b920e437b/income-events/5b95f0ab-fa6d-4916-a937-b2a066eb1bab"`
	Received string `json:"received" example:"https://example.com/api/v1/families/d1b4132f-b6c8-4e30-8bbb-cb9b920e437b/income-events/5b95f0ab-fa6d-4916-a937-b2a066eb1bab/received"`
}

type IncomeEvent struct {
	models.IncomeEvent
	Links IncomeEventLinks `json:"links"`
}

func newIncomeEvent(c *gin.Context, model models.IncomeEvent) IncomeEvent {
	self := fmt.Sprintf("%s/families/%s/income-events/%s", httputil.RequestPathV1(c), model.FamilyID, model.ID)

	return IncomeEvent{
		IncomeEvent: model,
		Links: IncomeEventLinks{
			Self:     self,
			Received: self + "/received",
		},
	}
}

type IncomeEventListResponse struct {
	Data       []IncomeEvent `json:"data"`       // List of income events
	Pagination Pagination    `json:"pagination"` // Pagination information
}

type BudgetAllocationListResponse struct {
	Data []models.BudgetAllocation `json:"data"` // List of budget allocations
}

// paginate builds the pagination information for a list response.
func paginate(offset, limit, count int, total int64) Pagination {
	if limit == 0 {
		limit = 50
	}

	return Pagination{
		Count:  count,
		Offset: offset,
		Limit:  limit,
		Total:  total,
	}
}
