package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
)

// FamilyEditable represents all user configurable parameters of a family.
type FamilyEditable struct {
	Name     string `json:"name" binding:"required" example:"The Parkers"` // Name of the family
	Note     string `json:"note" example:"Shared household budget"`        // Notes about the family
	Currency string `json:"currency" example:"USD"`                        // Display currency
}

func (editable FamilyEditable) model() models.Family {
	return models.Family{
		Name:     editable.Name,
		Note:     editable.Note,
		Currency: editable.Currency,
	}
}

// FamilyUpdate is a partial update of a family.
type FamilyUpdate struct {
	Name     *string `json:"name"`
	Note     *string `json:"note"`
	Currency *string `json:"currency"`
}

func (update FamilyUpdate) fields() map[string]any {
	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Note != nil {
		fields["note"] = *update.Note
	}
	if update.Currency != nil {
		fields["currency"] = *update.Currency
	}

	return fields
}

type FamilyLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/families/d1b4132f-b6c8-4e30-8bbb-cb9b920e437b"`
	IncomeEvents string `json:"incomeEvents" example:"https://example.com/api/v1/families/d1b4132f-b6c8-4e30-8bbb-cb9b920e437b/income-events"`
	Payments     string `json:"payments" example:"https://example.com/api/v1/families/d1b4132f-b6c8-4e30-8bbb-cb9b920e437b/payments"`
	Reports      string `json:"reports" example:"https://example.com/api/v1/families/d1b4132f-b6c8-4e30-8bbb-cb9b920e437b/reports"`
}

type Family struct {
	models.DefaultModel
	FamilyEditable
	Links FamilyLinks `json:"links"`
}

func newFamily(c *gin.Context, model models.Family) Family {
	self := fmt.Sprintf("%s/families/%s", httputil.RequestPathV1(c), model.ID)

	return Family{
		DefaultModel: model.DefaultModel,
		FamilyEditable: FamilyEditable{
			Name:     model.Name,
			Note:     model.Note,
			Currency: model.Currency,
		},
		Links: FamilyLinks{
			Self:         self,
			IncomeEvents: self + "/income-events",
			Payments:     self + "/payments",
			Reports:      self + "/reports",
		},
	}
}

type FamilyListResponse struct {
	Data []Family `json:"data"` // List of families
}
