package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hearthledger/backend/internal/httperror"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/ledger"
	"github.com/hearthledger/backend/internal/models"
	hl_uuid "github.com/hearthledger/backend/internal/uuid"
)

// URIAttribution binds an attribution nested under a payment.
type URIAttribution struct {
	URIID
	AttributionID hl_uuid.UUID `uri:"attributionId" binding:"required" format:"UUID"` // ID of the attribution
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Attributions
// @Success		204
// @Router			/v1/families/{familyId}/payments/{id}/attributions [options]
func OptionsAttributionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		List attributions
// @Description	Returns the attributions of a payment
// @Tags			Attributions
// @Produce		json
// @Success		200	{object}	AttributionListResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/payments/{id}/attributions [get]
func GetAttributions(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	attributions, err := ledger.ListAttributions(models.DB, uri.FamilyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, AttributionListResponse{Data: attributions})
}

// @Summary		Create attribution
// @Description	Earmarks part of an income event's money for the payment. Fails when the payment or the income event would be overspent
// @Tags			Attributions
// @Accept			json
// @Produce		json
// @Success		201	{object}	models.PaymentAttribution
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string				true	"ID formatted as string"
// @Param			id			path	string				true	"ID formatted as string"
// @Param			attribution	body	AttributionEditable	true	"Attribution"
// @Router			/v1/families/{familyId}/payments/{id}/attributions [post]
func CreateAttribution(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	var editable AttributionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	incomeEventID, err := uuid.Parse(editable.IncomeEventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidUUID))
		return
	}

	attribution, err := ledger.AttributeToIncome(models.DB, uri.FamilyID.UUID, uri.ID.UUID, incomeEventID, editable.Amount, models.AttributionTypeManual)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, attribution)
}

// @Summary		Replace attribution
// @Description	Replaces the amount of an attribution atomically, re-checking conservation for the new amount
// @Tags			Attributions
// @Accept			json
// @Produce		json
// @Success		200	{object}	models.PaymentAttribution
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId		path	string				true	"ID formatted as string"
// @Param			id				path	string				true	"ID formatted as string"
// @Param			attributionId	path	string				true	"ID formatted as string"
// @Param			attribution		body	AttributionReplace	true	"Attribution"
// @Router			/v1/families/{familyId}/payments/{id}/attributions/{attributionId} [patch]
func ReplaceAttribution(c *gin.Context) {
	uri, ok := bindURIAttribution(c)
	if !ok {
		return
	}

	var replace AttributionReplace
	if err := httputil.BindData(c, &replace); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	attribution, err := ledger.ReplaceAttribution(models.DB, uri.FamilyID.UUID, uri.ID.UUID, uri.AttributionID.UUID, replace.Amount)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, attribution)
}

// @Summary		Delete attribution
// @Description	Removes an attribution, restoring the income event's remaining money and the payment's open amount
// @Tags			Attributions
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId		path	string	true	"ID formatted as string"
// @Param			id				path	string	true	"ID formatted as string"
// @Param			attributionId	path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/payments/{id}/attributions/{attributionId} [delete]
func DeleteAttribution(c *gin.Context) {
	uri, ok := bindURIAttribution(c)
	if !ok {
		return
	}

	err := ledger.RemoveAttribution(models.DB, uri.FamilyID.UUID, uri.ID.UUID, uri.AttributionID.UUID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.Status(http.StatusNoContent)
}

func bindURIAttribution(c *gin.Context) (URIAttribution, bool) {
	var uri URIAttribution
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidUUID))
		return URIAttribution{}, false
	}

	return uri, true
}
