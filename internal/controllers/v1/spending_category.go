package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/httperror"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
)

// RegisterSpendingCategoryRoutes registers the routes for spending
// categories with the RouterGroup that is passed.
func RegisterSpendingCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsSpendingCategoryList)
		r.GET("", GetSpendingCategories)
		r.POST("", CreateSpendingCategory)
	}

	// Spending category with ID
	{
		r.OPTIONS("/:id", OptionsSpendingCategoryDetail)
		r.GET("/:id", GetSpendingCategory)
		r.PATCH("/:id", UpdateSpendingCategory)
		r.DELETE("/:id", DeleteSpendingCategory)
	}
}

// SpendingCategoryEditable represents all user configurable parameters
// of a spending category.
type SpendingCategoryEditable struct {
	Name             string     `json:"name" binding:"required" example:"Groceries"`                    // Name of the category, unique for the family
	BudgetCategoryID *uuid.UUID `json:"budgetCategoryId" example:"19b9aa1c-fbb3-4bbc-b7b6-db27dee0b889"` // Optional link to a budget category
}

func (editable SpendingCategoryEditable) model(familyID uuid.UUID) models.SpendingCategory {
	return models.SpendingCategory{
		FamilyID:         familyID,
		Name:             editable.Name,
		BudgetCategoryID: editable.BudgetCategoryID,
	}
}

// SpendingCategoryUpdate is a partial update of a spending category.
type SpendingCategoryUpdate struct {
	Name             *string    `json:"name"`
	BudgetCategoryID *uuid.UUID `json:"budgetCategoryId"` // The nil UUID detaches the category
}

type SpendingCategoryListResponse struct {
	Data []models.SpendingCategory `json:"data"` // List of spending categories
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SpendingCategories
// @Success		204
// @Router			/v1/families/{familyId}/spending-categories [options]
func OptionsSpendingCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SpendingCategories
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Router			/v1/families/{familyId}/spending-categories/{id} [options]
func OptionsSpendingCategoryDetail(c *gin.Context) {
	if _, ok := spendingCategoryFromURI(c); !ok {
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create spending category
// @Description	Creates a new spending category
// @Tags			SpendingCategories
// @Accept			json
// @Produce		json
// @Success		201	{object}	models.SpendingCategory
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId			path	string						true	"ID formatted as string"
// @Param			spendingCategory	body	SpendingCategoryEditable	true	"Spending category"
// @Router			/v1/families/{familyId}/spending-categories [post]
func CreateSpendingCategory(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	var editable SpendingCategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	category := editable.model(family.ID)

	// The budget category link has to stay within the family
	if category.BudgetCategoryID != nil && *category.BudgetCategoryID != uuid.Nil {
		err := models.DB.First(&models.BudgetCategory{}, "id = ? AND family_id = ?", *category.BudgetCategoryID, family.ID).Error
		if err != nil {
			c.JSON(status(err), httperror.New(err))
			return
		}
	}

	err := models.DB.Create(&category).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, category)
}

// @Summary		List spending categories
// @Description	Returns a list of the family's spending categories
// @Tags			SpendingCategories
// @Produce		json
// @Success		200	{object}	SpendingCategoryListResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/spending-categories [get]
func GetSpendingCategories(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	var categories []models.SpendingCategory
	err := models.DB.Where("family_id = ?", family.ID).Order("name ASC").Find(&categories).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, SpendingCategoryListResponse{Data: categories})
}

// @Summary		Get spending category
// @Description	Returns a specific spending category
// @Tags			SpendingCategories
// @Produce		json
// @Success		200	{object}	models.SpendingCategory
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/spending-categories/{id} [get]
func GetSpendingCategory(c *gin.Context) {
	category, ok := spendingCategoryFromURI(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, category)
}

// @Summary		Update spending category
// @Description	Updates a spending category. Setting the nil UUID as budget category detaches it
// @Tags			SpendingCategories
// @Accept			json
// @Produce		json
// @Success		200	{object}	models.SpendingCategory
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId			path	string					true	"ID formatted as string"
// @Param			id					path	string					true	"ID formatted as string"
// @Param			spendingCategory	body	SpendingCategoryUpdate	true	"Spending category"
// @Router			/v1/families/{familyId}/spending-categories/{id} [patch]
func UpdateSpendingCategory(c *gin.Context) {
	category, ok := spendingCategoryFromURI(c)
	if !ok {
		return
	}

	var update SpendingCategoryUpdate
	if err := httputil.BindData(c, &update); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.BudgetCategoryID != nil {
		if *update.BudgetCategoryID == uuid.Nil {
			fields["budget_category_id"] = nil
		} else {
			err := models.DB.First(&models.BudgetCategory{}, "id = ? AND family_id = ?", *update.BudgetCategoryID, category.FamilyID).Error
			if err != nil {
				c.JSON(status(err), httperror.New(err))
				return
			}
			fields["budget_category_id"] = *update.BudgetCategoryID
		}
	}

	err := models.DB.Model(&category).Updates(fields).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, category)
}

// @Summary		Delete spending category
// @Description	Deletes a spending category. Transactions and payments referencing it are detached, not deleted
// @Tags			SpendingCategories
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/spending-categories/{id} [delete]
func DeleteSpendingCategory(c *gin.Context) {
	category, ok := spendingCategoryFromURI(c)
	if !ok {
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		// SkipHooks: the detach updates single columns, the entity
		// validation hooks must not run against empty structs
		err := tx.Session(&gorm.Session{SkipHooks: true}).
			Model(&models.Transaction{}).
			Where("spending_category_id = ?", category.ID).
			Update("spending_category_id", nil).Error
		if err != nil {
			return err
		}

		err = tx.Session(&gorm.Session{SkipHooks: true}).
			Model(&models.Payment{}).
			Where("spending_category_id = ?", category.ID).
			Update("spending_category_id", nil).Error
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

// spendingCategoryFromURI loads a family-scoped spending category,
// responding with the appropriate error when that fails.
func spendingCategoryFromURI(c *gin.Context) (models.SpendingCategory, bool) {
	uri, ok := bindURIID(c)
	if !ok {
		return models.SpendingCategory{}, false
	}

	var category models.SpendingCategory
	err := models.DB.First(&category, "id = ? AND family_id = ?", uri.ID.UUID, uri.FamilyID.UUID).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return models.SpendingCategory{}, false
	}

	return category, true
}
