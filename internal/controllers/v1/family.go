package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/httperror"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
)

// RegisterFamilyRoutes registers the routes for families with
// the RouterGroup that is passed.
func RegisterFamilyRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsFamilyList)
		r.GET("", GetFamilies)
		r.POST("", CreateFamily)
	}

	// Family with ID
	{
		r.OPTIONS("/:familyId", OptionsFamilyDetail)
		r.GET("/:familyId", GetFamily)
		r.PATCH("/:familyId", UpdateFamily)
		r.DELETE("/:familyId", DeleteFamily)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Families
// @Success		204
// @Router			/v1/families [options]
func OptionsFamilyList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Families
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Router			/v1/families/{familyId} [options]
func OptionsFamilyDetail(c *gin.Context) {
	var uri URIFamily
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidUUID))
		return
	}

	err := models.DB.First(&models.Family{}, uri.FamilyID.UUID).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create family
// @Description	Creates a new family
// @Tags			Families
// @Accept			json
// @Produce		json
// @Success		201		{object}	Family
// @Failure		400		{object}	httperror.Error
// @Failure		500		{object}	httperror.Error
// @Param			family	body		FamilyEditable	true	"Family"
// @Router			/v1/families [post]
func CreateFamily(c *gin.Context) {
	var editable FamilyEditable
	if err := httputil.BindData(c, &editable); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	family := editable.model()
	err := models.DB.Create(&family).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, newFamily(c, family))
}

// @Summary		List families
// @Description	Returns a list of families
// @Tags			Families
// @Produce		json
// @Success		200	{object}	FamilyListResponse
// @Failure		500	{object}	httperror.Error
// @Router			/v1/families [get]
func GetFamilies(c *gin.Context) {
	var families []models.Family
	err := models.DB.Order("name ASC").Find(&families).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	data := make([]Family, 0, len(families))
	for _, family := range families {
		data = append(data, newFamily(c, family))
	}

	c.JSON(http.StatusOK, FamilyListResponse{Data: data})
}

// @Summary		Get family
// @Description	Returns a specific family
// @Tags			Families
// @Produce		json
// @Success		200	{object}	Family
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId} [get]
func GetFamily(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newFamily(c, family))
}

// @Summary		Update family
// @Description	Updates an existing family
// @Tags			Families
// @Accept			json
// @Produce		json
// @Success		200		{object}	Family
// @Failure		400		{object}	httperror.Error
// @Failure		404		{object}	httperror.Error
// @Param			familyId	path	string			true	"ID formatted as string"
// @Param			family		body	FamilyEditable	true	"Family"
// @Router			/v1/families/{familyId} [patch]
func UpdateFamily(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	var update FamilyUpdate
	if err := httputil.BindData(c, &update); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	err := models.DB.Model(&family).Updates(update.fields()).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, newFamily(c, family))
}

// @Summary		Delete family
// @Description	Deletes a family and everything it owns
// @Tags			Families
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId} [delete]
func DeleteFamily(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	// All resources hang off the family, so the delete has to take
	// everything with it. Attributions and allocations go first since
	// they reference the rows deleted afterwards.
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("payment_id IN (?)", tx.Model(&models.Payment{}).Select("id").Where("family_id = ?", family.ID)).
			Delete(&models.PaymentAttribution{}).Error
		if err != nil {
			return err
		}

		err = tx.
			Where("income_event_id IN (?)", tx.Model(&models.IncomeEvent{}).Select("id").Where("family_id = ?", family.ID)).
			Delete(&models.BudgetAllocation{}).Error
		if err != nil {
			return err
		}

		for _, query := range []any{
			&models.Payment{},
			&models.IncomeEvent{},
			&models.Transaction{},
			&models.SpendingCategory{},
			&models.BudgetCategory{},
			&models.BankAccount{},
		} {
			if err := tx.Where("family_id = ?", family.ID).Delete(query).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&family).Error
	})
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.Status(http.StatusNoContent)
}

// familyFromURI loads the family a request is scoped to, responding
// with the appropriate error when that fails.
func familyFromURI(c *gin.Context) (models.Family, bool) {
	var uri URIFamily
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidUUID))
		return models.Family{}, false
	}

	var family models.Family
	err := models.DB.First(&family, uri.FamilyID.UUID).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return models.Family{}, false
	}

	return family, true
}
