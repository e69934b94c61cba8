package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hearthledger/backend/internal/httperror"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/ledger"
	"github.com/hearthledger/backend/internal/models"
)

// RegisterIncomeEventRoutes registers the routes for income events with
// the RouterGroup that is passed.
func RegisterIncomeEventRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsIncomeEventList)
		r.GET("", GetIncomeEvents)
		r.POST("", CreateIncomeEvent)
	}

	// Income event with ID
	{
		r.OPTIONS("/:id", OptionsIncomeEventDetail)
		r.GET("/:id", GetIncomeEvent)
		r.PATCH("/:id", UpdateIncomeEvent)
		r.DELETE("/:id", DeleteIncomeEvent)

		r.POST("/:id/received", ReceiveIncomeEvent)
		r.POST("/:id/revert", RevertIncomeEvent)
		r.POST("/:id/allocate", AllocateIncomeEvent)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			IncomeEvents
// @Success		204
// @Router			/v1/families/{familyId}/income-events [options]
func OptionsIncomeEventList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			IncomeEvents
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Router			/v1/families/{familyId}/income-events/{id} [options]
func OptionsIncomeEventDetail(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	_, err := ledger.GetIncomeEvent(models.DB, uri.FamilyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create income event
// @Description	Creates a new scheduled income event
// @Tags			IncomeEvents
// @Accept			json
// @Produce		json
// @Success		201			{object}	IncomeEvent
// @Failure		400			{object}	httperror.Error
// @Failure		404			{object}	httperror.Error
// @Param			familyId	path		string						true	"ID formatted as string"
// @Param			incomeEvent	body		ledger.IncomeEventCreate	true	"Income event"
// @Router			/v1/families/{familyId}/income-events [post]
func CreateIncomeEvent(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	var create ledger.IncomeEventCreate
	if err := httputil.BindData(c, &create); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	event, err := ledger.CreateIncomeEvent(models.DB, family.ID, create)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, newIncomeEvent(c, event))
}

// @Summary		List income events
// @Description	Returns a list of the family's income events
// @Tags			IncomeEvents
// @Produce		json
// @Success		200	{object}	IncomeEventListResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			status		query	string	false	"Filter by status"
// @Param			from		query	string	false	"Earliest scheduled date"
// @Param			to			query	string	false	"Latest scheduled date"
// @Param			search		query	string	false	"Search for this text in name, source and note"
// @Param			offset		query	uint	false	"The offset of the first income event returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of income events to return. Defaults to 50."
// @Router			/v1/families/{familyId}/income-events [get]
func GetIncomeEvents(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	var filter ledger.IncomeEventFilter
	if err := c.Bind(&filter); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	events, count, err := ledger.ListIncomeEvents(models.DB, family.ID, filter)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	data := make([]IncomeEvent, 0, len(events))
	for _, event := range events {
		data = append(data, newIncomeEvent(c, event))
	}

	c.JSON(http.StatusOK, IncomeEventListResponse{
		Data:       data,
		Pagination: paginate(filter.Offset, filter.Limit, len(data), count),
	})
}

// @Summary		Get income event
// @Description	Returns a specific income event
// @Tags			IncomeEvents
// @Produce		json
// @Success		200	{object}	IncomeEvent
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/income-events/{id} [get]
func GetIncomeEvent(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	event, err := ledger.GetIncomeEvent(models.DB, uri.FamilyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, newIncomeEvent(c, event))
}

// @Summary		Update income event
// @Description	Updates a scheduled income event. Received income events are immutable until reverted
// @Tags			IncomeEvents
// @Accept			json
// @Produce		json
// @Success		200	{object}	IncomeEvent
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string						true	"ID formatted as string"
// @Param			id			path	string						true	"ID formatted as string"
// @Param			incomeEvent	body	ledger.IncomeEventUpdate	true	"Income event"
// @Router			/v1/families/{familyId}/income-events/{id} [patch]
func UpdateIncomeEvent(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	var update ledger.IncomeEventUpdate
	if err := httputil.BindData(c, &update); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	event, err := ledger.UpdateIncomeEvent(models.DB, uri.FamilyID.UUID, uri.ID.UUID, update)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, newIncomeEvent(c, event))
}

// @Summary		Delete income event
// @Description	Deletes an income event. Fails while payment attributions still draw on it
// @Tags			IncomeEvents
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/income-events/{id} [delete]
func DeleteIncomeEvent(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	err := ledger.DeleteIncomeEvent(models.DB, uri.FamilyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Mark income as received
// @Description	Marks a scheduled income event as received, spawning the next occurrence for recurring income and allocating the income to the budget categories
// @Tags			IncomeEvents
// @Accept			json
// @Produce		json
// @Success		200	{object}	IncomeEvent
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string					true	"ID formatted as string"
// @Param			id			path	string					true	"ID formatted as string"
// @Param			receipt		body	IncomeEventReceive	false	"Actual date and amount"
// @Router			/v1/families/{familyId}/income-events/{id}/received [post]
func ReceiveIncomeEvent(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	var receive IncomeEventReceive
	if err := httputil.BindData(c, &receive); err != nil && !errors.Is(err, httputil.ErrRequestBodyEmpty) {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	// The actual amount defaults to the scheduled amount
	actualAmount := receive.ActualAmount
	if actualAmount == nil {
		event, err := ledger.GetIncomeEvent(models.DB, uri.FamilyID.UUID, uri.ID.UUID)
		if err != nil {
			c.JSON(status(err), httperror.New(err))
			return
		}
		actualAmount = &event.Amount
	}

	event, err := ledger.MarkReceived(models.DB, uri.FamilyID.UUID, uri.ID.UUID, receive.actualDate(), *actualAmount)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, newIncomeEvent(c, event))
}

// @Summary		Revert a receipt
// @Description	Reverts a received income event back to scheduled, removing its budget allocations
// @Tags			IncomeEvents
// @Produce		json
// @Success		200	{object}	IncomeEvent
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/income-events/{id}/revert [post]
func RevertIncomeEvent(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	event, err := ledger.RevertReceived(models.DB, uri.FamilyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, newIncomeEvent(c, event))
}

// @Summary		Allocate income
// @Description	Recreates the budget allocations of a received income event from the current active budget categories
// @Tags			IncomeEvents
// @Produce		json
// @Success		201	{object}	BudgetAllocationListResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/income-events/{id}/allocate [post]
func AllocateIncomeEvent(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	allocations, err := ledger.AllocateIncome(models.DB, uri.FamilyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, BudgetAllocationListResponse{Data: allocations})
}

// bindURIID binds a family-scoped resource URI, responding with the
// appropriate error when that fails.
func bindURIID(c *gin.Context) (URIID, bool) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidUUID))
		return URIID{}, false
	}

	return uri, true
}
