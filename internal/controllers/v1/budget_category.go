package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/httperror"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/ledger"
	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/internal/types"
)

// RegisterBudgetCategoryRoutes registers the routes for budget
// categories with the RouterGroup that is passed.
func RegisterBudgetCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetCategoryList)
		r.GET("", GetBudgetCategories)
		r.POST("", CreateBudgetCategory)
	}

	// Budget category with ID
	{
		r.OPTIONS("/:id", OptionsBudgetCategoryDetail)
		r.GET("/:id", GetBudgetCategory)
		r.PATCH("/:id", UpdateBudgetCategory)
		r.DELETE("/:id", DeleteBudgetCategory)

		r.GET("/:id/consumption", GetBudgetCategoryConsumption)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetCategories
// @Success		204
// @Router			/v1/families/{familyId}/budget-categories [options]
func OptionsBudgetCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetCategories
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Router			/v1/families/{familyId}/budget-categories/{id} [options]
func OptionsBudgetCategoryDetail(c *gin.Context) {
	if _, ok := budgetCategoryFromURI(c); !ok {
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create budget category
// @Description	Creates a new budget category. The response carries a warning when the active percentages now sum to more than 100
// @Tags			BudgetCategories
// @Accept			json
// @Produce		json
// @Success		201	{object}	BudgetCategoryResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId		path	string					true	"ID formatted as string"
// @Param			budgetCategory	body	BudgetCategoryEditable	true	"Budget category"
// @Router			/v1/families/{familyId}/budget-categories [post]
func CreateBudgetCategory(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	var editable BudgetCategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	category := editable.model(family.ID)
	err := models.DB.Create(&category).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	response, err := newBudgetCategoryResponse(category)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary		List budget categories
// @Description	Returns a list of the family's budget categories
// @Tags			BudgetCategories
// @Produce		json
// @Success		200	{object}	BudgetCategoryListResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			archived	query	bool	false	"Include archived categories. Defaults to false."
// @Router			/v1/families/{familyId}/budget-categories [get]
func GetBudgetCategories(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	q := models.DB.Where("family_id = ?", family.ID).Order("name ASC")
	if c.Query("archived") != "true" {
		q = q.Where("archived = ?", false)
	}

	var categories []models.BudgetCategory
	err := q.Find(&categories).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	sum, err := models.ActivePercentageSum(models.DB, family.ID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, BudgetCategoryListResponse{
		Data:                categories,
		ActivePercentageSum: sum,
		Warning:             overAllocationWarning(sum),
	})
}

// @Summary		Get budget category
// @Description	Returns a specific budget category
// @Tags			BudgetCategories
// @Produce		json
// @Success		200	{object}	models.BudgetCategory
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/budget-categories/{id} [get]
func GetBudgetCategory(c *gin.Context) {
	category, ok := budgetCategoryFromURI(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, category)
}

// @Summary		Update budget category
// @Description	Updates a budget category. The response carries a warning when the active percentages now sum to more than 100
// @Tags			BudgetCategories
// @Accept			json
// @Produce		json
// @Success		200	{object}	BudgetCategoryResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId		path	string					true	"ID formatted as string"
// @Param			id				path	string					true	"ID formatted as string"
// @Param			budgetCategory	body	BudgetCategoryUpdate	true	"Budget category"
// @Router			/v1/families/{familyId}/budget-categories/{id} [patch]
func UpdateBudgetCategory(c *gin.Context) {
	category, ok := budgetCategoryFromURI(c)
	if !ok {
		return
	}

	var update BudgetCategoryUpdate
	if err := httputil.BindData(c, &update); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	err := models.DB.Model(&category).Updates(update.fields()).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	response, err := newBudgetCategoryResponse(category)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary		Delete budget category
// @Description	Deletes a budget category. Its allocations are removed, linked spending categories are detached
// @Tags			BudgetCategories
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/budget-categories/{id} [delete]
func DeleteBudgetCategory(c *gin.Context) {
	category, ok := budgetCategoryFromURI(c)
	if !ok {
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where(&models.BudgetAllocation{BudgetCategoryID: category.ID}).Delete(&models.BudgetAllocation{}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.SpendingCategory{}).
			Where("budget_category_id = ?", category.ID).
			Update("budget_category_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(&category).Error
	})
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Get category consumption
// @Description	Returns budgeted and spent money for the budget category in a date range. Defaults to the current month
// @Tags			BudgetCategories
// @Produce		json
// @Success		200	{object}	ledger.CategoryConsumption
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Param			from		query	string	false	"Start of the range, defaults to the first of the current month"
// @Param			to			query	string	false	"End of the range, defaults to the last instant of the current month"
// @Router			/v1/families/{familyId}/budget-categories/{id}/consumption [get]
func GetBudgetCategoryConsumption(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	from, to, ok := rangeFromQuery(c)
	if !ok {
		return
	}

	consumption, err := ledger.GetCategoryConsumption(models.DB, uri.FamilyID.UUID, uri.ID.UUID, from, to)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, consumption)
}

// budgetCategoryFromURI loads a family-scoped budget category,
// responding with the appropriate error when that fails.
func budgetCategoryFromURI(c *gin.Context) (models.BudgetCategory, bool) {
	uri, ok := bindURIID(c)
	if !ok {
		return models.BudgetCategory{}, false
	}

	var category models.BudgetCategory
	err := models.DB.First(&category, "id = ? AND family_id = ?", uri.ID.UUID, uri.FamilyID.UUID).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return models.BudgetCategory{}, false
	}

	return category, true
}

// rangeFromQuery parses the from and to query parameters, defaulting to
// the current month.
func rangeFromQuery(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().In(time.UTC)
	month := types.MonthOf(now)

	from := month.FirstDay()
	to := month.LastDayTime().Add(-time.Nanosecond)

	var err error
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperror.New(errRangeInvalid))
			return time.Time{}, time.Time{}, false
		}
	}

	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperror.New(errRangeInvalid))
			return time.Time{}, time.Time{}, false
		}

		// Make the end of the range inclusive of the whole day
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if to.Before(from) {
		c.JSON(http.StatusBadRequest, httperror.New(errRangeInvalid))
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}
