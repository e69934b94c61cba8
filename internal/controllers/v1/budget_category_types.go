package v1

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hearthledger/backend/internal/models"
)

// BudgetCategoryEditable represents all user configurable parameters of
// a budget category.
type BudgetCategoryEditable struct {
	Name       string          `json:"name" binding:"required" example:"Housing"` // Name of the category, unique for the family
	Note       string          `json:"note" example:"Rent, utilities, repairs"`   // Notes about the category
	Percentage decimal.Decimal `json:"percentage" example:"30"`                   // Target percentage of income, 0-100
	Archived   bool            `json:"archived" example:"false" default:"false"`  // Archived categories do not receive allocations
}

func (editable BudgetCategoryEditable) model(familyID uuid.UUID) models.BudgetCategory {
	return models.BudgetCategory{
		FamilyID:   familyID,
		Name:       editable.Name,
		Note:       editable.Note,
		Percentage: editable.Percentage,
		Archived:   editable.Archived,
	}
}

// BudgetCategoryUpdate is a partial update of a budget category.
type BudgetCategoryUpdate struct {
	Name       *string          `json:"name"`
	Note       *string          `json:"note"`
	Percentage *decimal.Decimal `json:"percentage"`
	Archived   *bool            `json:"archived"`
}

func (update BudgetCategoryUpdate) fields() map[string]any {
	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Note != nil {
		fields["note"] = *update.Note
	}
	if update.Percentage != nil {
		fields["percentage"] = *update.Percentage
	}
	if update.Archived != nil {
		fields["archived"] = *update.Archived
	}

	return fields
}

// BudgetCategoryResponse is the response for category writes. It carries
// a warning when the family's active percentages sum to more than 100.
type BudgetCategoryResponse struct {
	Data                models.BudgetCategory `json:"data"`
	ActivePercentageSum decimal.Decimal       `json:"activePercentageSum" example:"100"`
	Warning             string                `json:"warning,omitempty" example:"the active budget category percentages sum to more than 100"`
}

type BudgetCategoryListResponse struct {
	Data                []models.BudgetCategory `json:"data"` // List of budget categories
	ActivePercentageSum decimal.Decimal         `json:"activePercentageSum" example:"100"`
	Warning             string                  `json:"warning,omitempty" example:"the active budget category percentages sum to more than 100"`
}

func newBudgetCategoryResponse(category models.BudgetCategory) (BudgetCategoryResponse, error) {
	sum, err := models.ActivePercentageSum(models.DB, category.FamilyID)
	if err != nil {
		return BudgetCategoryResponse{}, err
	}

	return BudgetCategoryResponse{
		Data:                category,
		ActivePercentageSum: sum,
		Warning:             overAllocationWarning(sum),
	}, nil
}

var oneHundred = decimal.NewFromInt(100)

// overAllocationWarning returns a warning for category percentage sums
// above 100. Over-allocation is allowed, not an error.
func overAllocationWarning(sum decimal.Decimal) string {
	if sum.GreaterThan(oneHundred) {
		return "the active budget category percentages sum to more than 100"
	}

	return ""
}
