package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hearthledger/backend/internal/httperror"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
)

// RegisterBankAccountRoutes registers the routes for bank accounts with
// the RouterGroup that is passed.
//
// Balances are maintained by the bank-sync collaborator, the write path
// exists so it can hand balances over.
func RegisterBankAccountRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBankAccountList)
		r.GET("", GetBankAccounts)
		r.POST("", CreateBankAccount)
	}

	// Bank account with ID
	{
		r.OPTIONS("/:id", OptionsBankAccountDetail)
		r.GET("/:id", GetBankAccount)
		r.PATCH("/:id", UpdateBankAccount)
		r.DELETE("/:id", DeleteBankAccount)
	}
}

// BankAccountEditable represents all user configurable parameters of a
// bank account.
type BankAccountEditable struct {
	Name           string                 `json:"name" binding:"required" example:"Joint checking"` // Name of the account
	Type           models.BankAccountType `json:"type" example:"checking"`                          // Account type
	CurrentBalance decimal.Decimal        `json:"currentBalance" example:"2543.21"`                 // Current balance, negative for debt
	Archived       bool                   `json:"archived" example:"false" default:"false"`         // Archived accounts are excluded from the net worth report
}

func (editable BankAccountEditable) model(familyID uuid.UUID) models.BankAccount {
	return models.BankAccount{
		FamilyID:       familyID,
		Name:           editable.Name,
		Type:           editable.Type,
		CurrentBalance: editable.CurrentBalance,
		Archived:       editable.Archived,
	}
}

// BankAccountUpdate is a partial update of a bank account.
type BankAccountUpdate struct {
	Name           *string                 `json:"name"`
	Type           *models.BankAccountType `json:"type"`
	CurrentBalance *decimal.Decimal        `json:"currentBalance"`
	Archived       *bool                   `json:"archived"`
}

func (update BankAccountUpdate) fields() map[string]any {
	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Type != nil {
		fields["type"] = *update.Type
	}
	if update.CurrentBalance != nil {
		fields["current_balance"] = *update.CurrentBalance
	}
	if update.Archived != nil {
		fields["archived"] = *update.Archived
	}

	return fields
}

type BankAccountListResponse struct {
	Data []models.BankAccount `json:"data"` // List of bank accounts
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BankAccounts
// @Success		204
// @Router			/v1/families/{familyId}/bank-accounts [options]
func OptionsBankAccountList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BankAccounts
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Router			/v1/families/{familyId}/bank-accounts/{id} [options]
func OptionsBankAccountDetail(c *gin.Context) {
	if _, ok := bankAccountFromURI(c); !ok {
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create bank account
// @Description	Creates a new bank account
// @Tags			BankAccounts
// @Accept			json
// @Produce		json
// @Success		201	{object}	models.BankAccount
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string				true	"ID formatted as string"
// @Param			account		body	BankAccountEditable	true	"Bank account"
// @Router			/v1/families/{familyId}/bank-accounts [post]
func CreateBankAccount(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	var editable BankAccountEditable
	if err := httputil.BindData(c, &editable); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	account := editable.model(family.ID)
	err := models.DB.Create(&account).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusCreated, account)
}

// @Summary		List bank accounts
// @Description	Returns a list of the family's bank accounts
// @Tags			BankAccounts
// @Produce		json
// @Success		200	{object}	BankAccountListResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			archived	query	bool	false	"Include archived accounts. Defaults to false."
// @Router			/v1/families/{familyId}/bank-accounts [get]
func GetBankAccounts(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	q := models.DB.Where("family_id = ?", family.ID).Order("name ASC")
	if c.Query("archived") != "true" {
		q = q.Where("archived = ?", false)
	}

	var accounts []models.BankAccount
	err := q.Find(&accounts).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, BankAccountListResponse{Data: accounts})
}

// @Summary		Get bank account
// @Description	Returns a specific bank account
// @Tags			BankAccounts
// @Produce		json
// @Success		200	{object}	models.BankAccount
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/bank-accounts/{id} [get]
func GetBankAccount(c *gin.Context) {
	account, ok := bankAccountFromURI(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, account)
}

// @Summary		Update bank account
// @Description	Updates a bank account
// @Tags			BankAccounts
// @Accept			json
// @Produce		json
// @Success		200	{object}	models.BankAccount
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string				true	"ID formatted as string"
// @Param			id			path	string				true	"ID formatted as string"
// @Param			account		body	BankAccountUpdate	true	"Bank account"
// @Router			/v1/families/{familyId}/bank-accounts/{id} [patch]
func UpdateBankAccount(c *gin.Context) {
	account, ok := bankAccountFromURI(c)
	if !ok {
		return
	}

	var update BankAccountUpdate
	if err := httputil.BindData(c, &update); err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	err := models.DB.Model(&account).Updates(update.fields()).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, account)
}

// @Summary		Delete bank account
// @Description	Deletes a bank account
// @Tags			BankAccounts
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			id			path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/bank-accounts/{id} [delete]
func DeleteBankAccount(c *gin.Context) {
	account, ok := bankAccountFromURI(c)
	if !ok {
		return
	}

	err := models.DB.Delete(&account).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.Status(http.StatusNoContent)
}

// bankAccountFromURI loads a family-scoped bank account, responding with
// the appropriate error when that fails.
func bankAccountFromURI(c *gin.Context) (models.BankAccount, bool) {
	uri, ok := bindURIID(c)
	if !ok {
		return models.BankAccount{}, false
	}

	var account models.BankAccount
	err := models.DB.First(&account, "id = ? AND family_id = ?", uri.ID.UUID, uri.FamilyID.UUID).Error
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return models.BankAccount{}, false
	}

	return account, true
}
