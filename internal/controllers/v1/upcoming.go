package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hearthledger/backend/internal/httperror"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/ledger"
	"github.com/hearthledger/backend/internal/models"
)

// RegisterUpcomingRoutes registers the routes for the upcoming
// projection with the RouterGroup that is passed.
func RegisterUpcomingRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsUpcoming)
	r.GET("", GetUpcoming)
}

type UpcomingListResponse struct {
	Data []ledger.UpcomingOccurrence `json:"data"` // Projected occurrences, earliest first
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Upcoming
// @Success		204
// @Router			/v1/families/{familyId}/upcoming [options]
func OptionsUpcoming(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Upcoming occurrences
// @Description	Projects the scheduled income events and payments of the next days, including recurring occurrences that are not materialized yet
// @Tags			Upcoming
// @Produce		json
// @Success		200	{object}	UpcomingListResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			days		query	int		false	"Projection horizon in days, 1 to 365. Defaults to 30."
// @Router			/v1/families/{familyId}/upcoming [get]
func GetUpcoming(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			c.JSON(http.StatusBadRequest, httperror.New(errDaysInvalid))
			return
		}
		days = parsed
	}

	occurrences, err := ledger.ListUpcoming(models.DB, family.ID, days)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, UpcomingListResponse{Data: occurrences})
}
