package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hearthledger/backend/internal/httperror"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
//
// The write path exists for the bank import collaborator, the ledger
// itself only reads transactions.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
		r.POST("", CreateTransactions)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
		r.DELETE("/:id", DeleteTransaction)
	}
}

// TransactionEditable represents all user configurable parameters of a
// transaction.
type TransactionEditable struct {
	SpendingCategoryID *uuid.UUID      `json:"spendingCategoryId"`                         // Optional spending category
	Date               time.Time       `json:"date"`                                       // Defaults to today
	Amount             decimal.Decimal `json:"amount" example:"42.13"`                     // Expense amount, always positive
	Merchant           string          `json:"merchant" example:"Corner Store"`            // Merchant name
	Note               string          `json:"note" example:"Weekly groceries"`            // Notes about the transaction
}

func (editable TransactionEditable) model(familyID uuid.UUID) models.Transaction {
	return models.Transaction{
		FamilyID:           familyID,
		SpendingCategoryID: editable.SpendingCategoryID,
		Date:               editable.Date,
		Amount:             editable.Amount,
		Merchant:           editable.Merchant,
		Note:               editable.Note,
	}
}

// TransactionUpdate is a partial update of a transaction.
type TransactionUpdate struct {
	SpendingCategoryID *uuid.UUID       `json:"spendingCategoryId"` // The nil UUID detaches the category
	Date               *time.Time       `json:"date"`
	Amount             *decimal.Decimal `json:"amount"`
	Merchant           *string          `json:"merchant"`
	Note               *string          `json:"note"`
}

// TransactionQueryFilter selects transactions for listing.
type TransactionQueryFilter struct {
	SpendingCategoryID string     `form:"spendingCategory"`
	From               *time.Time `form:"from" time_format:"2006-01-02"`
	To                 *time.Time `form:"to" time_format:"2006-01-02"`
	Merchant           string     `form:"merchant"`
	Offset             int        `form:"offset"`
	Limit              int        `form:"limit"`
}

type TransactionListResponse struct {
	Data       []models.Transaction `json:"data"`       // List of transactions
	Pagination Pagination           `json:"pagination"` // Pagination information
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/families/{familyId}/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Router			/v1/families/{familyId}/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	if _, ok := transactionFromURI(c); !ok {
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create transactions
// @Description	Creates new transactions. This endpoint accepts a list so that imports can hand over whole batches
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201	{object}	TransactionListResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId		path	string					true	"ID formatted as string"
// @Param			transactions	body	[]TransactionEditable	true	"Transactions"
// @Router			/v1/families/{familyId}/transactions [post]
func CreateTransactions(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	var editables []TransactionEditable
	if err := httputil.BindData(c, &editables); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	data := make([]models.Transaction, 0, len(editables))
	for _, editable := range editables {
		transaction := editable.model(family.ID)
		if err := models.DB.Create(&transaction).Error; err != nil {
			c.JSON(status(err), httperror.New(err))
			return
		}

		data = append(data, transaction)
	}

	c.JSON(http.StatusCreated, TransactionListResponse{Data: data})
}

// @Summary		List transactions
// @Description	Returns a list of the family's transactions, newest first
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId			path	string	true	"ID formatted as string"
// @Param			spendingCategory	query	string	false	"Filter by spending category ID"
// @Param			from				query	string	false	"Earliest date"
// @Param			to					query	string	false	"Latest date"
// @Param			merchant			query	string	false	"Filter by merchant"
// @Param			offset				query	uint	false	"The offset of the first transaction returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of transactions to return. Defaults to 50."
// @Router			/v1/families/{familyId}/transactions [get]
func GetTransactions(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidBody))
		return
	}

	q := models.DB.Model(&models.Transaction{}).Where("family_id = ?", family.ID)

	if filter.SpendingCategoryID != "" {
		id, err := uuid.Parse(filter.SpendingCategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperror.New(httputil.ErrInvalidUUID))
			return
		}
		q = q.Where("spending_category_id = ?", id)
	}

	if filter.From != nil {
		q = q.Where("date >= ?", filter.From.In(time.UTC))
	}
	if filter.To != nil {
		q = q.Where("date <= ?", filter.To.In(time.UTC))
	}
	if filter.Merchant != "" {
		q = q.Where("merchant = ?", filter.Merchant)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var transactions []models.Transaction
	err := q.Order("date DESC").Order("merchant ASC").
		Offset(filter.Offset).Limit(limit).
		Find(&transactions).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data:       transactions,
		Pagination: paginate(filter.Offset, filter.Limit, len(transactions), count),
	})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	models.Transaction
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	transaction, ok := transactionFromURI(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// @Summary		Update transaction
// @Description	Updates a transaction
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200	{object}	models.Transaction
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string				true	"ID formatted as string"
// @Param			id			path	string				true	"ID formatted as string"
// @Param			transaction	body	TransactionUpdate	true	"Transaction"
// @Router			/v1/families/{familyId}/transactions/{id} [patch]
func UpdateTransaction(c *gin.Context) {
	transaction, ok := transactionFromURI(c)
	if !ok {
		return
	}

	var update TransactionUpdate
	if err := httputil.BindData(c, &update); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	fields := map[string]any{}
	if update.SpendingCategoryID != nil {
		if *update.SpendingCategoryID == uuid.Nil {
			fields["spending_category_id"] = nil
		} else {
			err := models.DB.First(&models.SpendingCategory{}, "id = ? AND family_id = ?", *update.SpendingCategoryID, transaction.FamilyID).Error
			if err != nil {
				c.JSON(status(err), httperror.New(err))
				return
			}
			fields["spending_category_id"] = *update.SpendingCategoryID
		}
	}
	if update.Date != nil {
		fields["date"] = update.Date.In(time.UTC)
	}
	if update.Amount != nil {
		fields["amount"] = *update.Amount
	}
	if update.Merchant != nil {
		fields["merchant"] = *update.Merchant
	}
	if update.Note != nil {
		fields["note"] = *update.Note
	}

	err := models.DB.Model(&transaction).Updates(fields).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// @Summary		Delete transaction
// @Description	Deletes a transaction
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/transactions/{id} [delete]
func DeleteTransaction(c *gin.Context) {
	transaction, ok := transactionFromURI(c)
	if !ok {
		return
	}

	err := models.DB.Delete(&transaction).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.Status(http.StatusNoContent)
}

// transactionFromURI loads a family-scoped transaction, responding with
// the appropriate error when that fails.
func transactionFromURI(c *gin.Context) (models.Transaction, bool) {
	uri, ok := bindURIID(c)
	if !ok {
		return models.Transaction{}, false
	}

	var transaction models.Transaction
	err := models.DB.First(&transaction, "id = ? AND family_id = ?", uri.ID.UUID, uri.FamilyID.UUID).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return models.Transaction{}, false
	}

	return transaction, true
}
