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

// RegisterPaymentRoutes registers the routes for payments with
// the RouterGroup that is passed.
func RegisterPaymentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPaymentList)
		r.GET("", GetPayments)
		r.POST("", CreatePayment)
	}

	// Payment with ID
	{
		r.OPTIONS("/:id", OptionsPaymentDetail)
		r.GET("/:id", GetPayment)
		r.PATCH("/:id", UpdatePayment)
		r.DELETE("/:id", DeletePayment)

		r.POST("/:id/paid", PayPayment)
		r.GET("/:id/split-suggestion", GetSplitSuggestion)
	}

	// Attributions of a payment
	{
		r.OPTIONS("/:id/attributions", OptionsAttributionList)
		r.GET("/:id/attributions", GetAttributions)
		r.POST("/:id/attributions", CreateAttribution)
		r.PATCH("/:id/attributions/:attributionId", ReplaceAttribution)
		r.DELETE("/:id/attributions/:attributionId", DeleteAttribution)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Router			/v1/families/{familyId}/payments [options]
func OptionsPaymentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Router			/v1/families/{familyId}/payments/{id} [options]
func OptionsPaymentDetail(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	_, err := ledger.GetPayment(models.DB, uri.FamilyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create payment
// @Description	Creates a new scheduled payment
// @Tags			Payments
// @Accept			json
// @Produce		json
// @Success		201			{object}	Payment
// @Failure		400			{object}	httperror.Error
// @Failure		404			{object}	httperror.Error
// @Param			familyId	path		string					true	"ID formatted as string"
// @Param			payment		body		ledger.PaymentCreate	true	"Payment"
// @Router			/v1/families/{familyId}/payments [post]
func CreatePayment(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	var create ledger.PaymentCreate
	if err := httputil.BindData(c, &create); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	payment, err := ledger.CreatePayment(models.DB, family.ID, create)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, newPayment(c, payment))
}

// @Summary		List payments
// @Description	Returns a list of the family's payments
// @Tags			Payments
// @Produce		json
// @Success		200	{object}	PaymentListResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			status		query	string	false	"Filter by status, supports the derived overdue status"
// @Param			from		query	string	false	"Earliest due date"
// @Param			to			query	string	false	"Latest due date"
// @Param			search		query	string	false	"Search for this text in payee and note"
// @Param			autoPay		query	bool	false	"Filter by auto-pay flag"
// @Param			offset		query	uint	false	"The offset of the first payment returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of payments to return. Defaults to 50."
// @Router			/v1/families/{familyId}/payments [get]
func GetPayments(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	var filter ledger.PaymentFilter
	if err := c.Bind(&filter); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	payments, count, err := ledger.ListPayments(models.DB, family.ID, filter)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	data := make([]Payment, 0, len(payments))
	for _, payment := range payments {
		data = append(data, newPayment(c, payment))
	}

	c.JSON(http.StatusOK, PaymentListResponse{
		Data:       data,
		Pagination: paginate(filter.Offset, filter.Limit, len(data), count),
	})
}

// @Summary		Get payment
// @Description	Returns a specific payment
// @Tags			Payments
// @Produce		json
// @Success		200	{object}	Payment
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/payments/{id} [get]
func GetPayment(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	payment, err := ledger.GetPayment(models.DB, uri.FamilyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, newPayment(c, payment))
}

// @Summary		Update payment
// @Description	Updates a payment. Paid payments are immutable
// @Tags			Payments
// @Accept			json
// @Produce		json
// @Success		200	{object}	Payment
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string					true	"ID formatted as string"
// @Param			id			path	string					true	"ID formatted as string"
// @Param			payment		body	ledger.PaymentUpdate	true	"Payment"
// @Router			/v1/families/{familyId}/payments/{id} [patch]
func UpdatePayment(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	var update ledger.PaymentUpdate
	if err := httputil.BindData(c, &update); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	payment, err := ledger.UpdatePayment(models.DB, uri.FamilyID.UUID, uri.ID.UUID, update)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, newPayment(c, payment))
}

// @Summary		Delete payment
// @Description	Deletes a payment, releasing its attributions. With all=true, future scheduled occurrences of the same series are deleted as well
// @Tags			Payments
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Param			all			query	bool	false	"Delete all future scheduled occurrences of the series"
// @Router			/v1/families/{familyId}/payments/{id} [delete]
func DeletePayment(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	deleteAll := c.Query("all") == "true"

	err := ledger.DeletePayment(models.DB, uri.FamilyID.UUID, uri.ID.UUID, deleteAll)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Mark payment as paid
// @Description	Marks a scheduled payment as paid, spawning the next occurrence for recurring payments
// @Tags			Payments
// @Accept			json
// @Produce		json
// @Success		200	{object}	Payment
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string		true	"ID formatted as string"
// @Param			id			path	string		true	"ID formatted as string"
// @Param			receipt		body	PaymentPay	false	"Paid date and amount"
// @Router			/v1/families/{familyId}/payments/{id}/paid [post]
func PayPayment(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	var pay PaymentPay
	if err := httputil.BindData(c, &pay); err != nil && !errors.Is(err, httputil.ErrRequestBodyEmpty) {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	payment, err := ledger.MarkPaid(models.DB, uri.FamilyID.UUID, uri.ID.UUID, pay.paidDate(), pay.paidAmount())
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, newPayment(c, payment))
}

// @Summary		Suggest a split
// @Description	Suggests how to attribute a payment's open amount across the income events with remaining money, oldest first
// @Tags			Payments
// @Produce		json
// @Success		200	{object}	SplitSuggestionResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/payments/{id}/split-suggestion [get]
func GetSplitSuggestion(c *gin.Context) {
	uri, ok := bindURIID(c)
	if !ok {
		return
	}

	proposals, err := ledger.SuggestSplit(models.DB, uri.FamilyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, SplitSuggestionResponse{Data: proposals})
}
