package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hearthledger/backend/internal/httperror"
	"github.com/hearthledger/backend/internal/httputil"
	"github.com/hearthledger/backend/internal/models"
	"github.com/hearthledger/backend/internal/reports"
	"github.com/hearthledger/backend/internal/types"
)

// RegisterReportRoutes registers the routes for reports with the
// RouterGroup that is passed.
func RegisterReportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsReports)
	r.GET("/cash-flow", GetCashFlowReport)
	r.GET("/spending", GetSpendingReport)
	r.GET("/budget-performance", GetBudgetPerformanceReport)
	r.GET("/income", GetIncomeReport)
	r.GET("/net-worth", GetNetWorthReport)
	r.GET("/savings-rate", GetSavingsRateReport)
	r.GET("/monthly/:month", GetMonthlySummary)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/families/{familyId}/reports [options]
func OptionsReports(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Cash flow report
// @Description	Buckets received income and transactions over a date range into periods. Defaults to the current month, bucketed by month
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	reports.CashFlowReport
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			from		query	string	false	"Start of the range"
// @Param			to			query	string	false	"End of the range"
// @Param			period		query	string	false	"Bucket size: day, week, month, quarter, year. Defaults to month."
// @Router			/v1/families/{familyId}/reports/cash-flow [get]
func GetCashFlowReport(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	from, to, ok := rangeFromQuery(c)
	if !ok {
		return
	}

	period := reports.Period(c.DefaultQuery("period", string(reports.PeriodMonth)))

	report, err := reports.CashFlow(models.DB, family.ID, from, to, period)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, report)
}

// @Summary		Spending report
// @Description	Breaks spending in a date range down by category and merchant. Defaults to the current month
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	reports.SpendingAnalysisReport
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			from		query	string	false	"Start of the range"
// @Param			to			query	string	false	"End of the range"
// @Router			/v1/families/{familyId}/reports/spending [get]
func GetSpendingReport(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	from, to, ok := rangeFromQuery(c)
	if !ok {
		return
	}

	report, err := reports.SpendingAnalysis(models.DB, family.ID, from, to)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, report)
}

// @Summary		Budget performance report
// @Description	Compares budgeted against spent money per budget category. Defaults to the current month
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	reports.BudgetPerformanceReport
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			from		query	string	false	"Start of the range"
// @Param			to			query	string	false	"End of the range"
// @Router			/v1/families/{familyId}/reports/budget-performance [get]
func GetBudgetPerformanceReport(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	from, to, ok := rangeFromQuery(c)
	if !ok {
		return
	}

	report, err := reports.BudgetPerformance(models.DB, family.ID, from, to)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, report)
}

// @Summary		Income report
// @Description	Summarizes received income in a date range. Defaults to the current month
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	reports.IncomeAnalysisReport
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			from		query	string	false	"Start of the range"
// @Param			to			query	string	false	"End of the range"
// @Router			/v1/families/{familyId}/reports/income [get]
func GetIncomeReport(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	from, to, ok := rangeFromQuery(c)
	if !ok {
		return
	}

	report, err := reports.IncomeAnalysis(models.DB, family.ID, from, to)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, report)
}

// @Summary		Net worth report
// @Description	Sums the family's bank account balances into assets, liabilities and net worth
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	reports.NetWorthReport
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Router			/v1/families/{familyId}/reports/net-worth [get]
func GetNetWorthReport(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	report, err := reports.NetWorth(models.DB, family.ID)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, report)
}

// @Summary		Savings rate report
// @Description	Tracks the monthly savings rate over a date range. Defaults to the current month
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	reports.SavingsRateReport
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			from		query	string	false	"Start of the range"
// @Param			to			query	string	false	"End of the range"
// @Router			/v1/families/{familyId}/reports/savings-rate [get]
func GetSavingsRateReport(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	from, to, ok := rangeFromQuery(c)
	if !ok {
		return
	}

	report, err := reports.SavingsRate(models.DB, family.ID, from, to)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, report)
}

// @Summary		Monthly summary
// @Description	Combines totals, breakdowns, the largest expenses and the budget performance for one month
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	reports.MonthlySummaryReport
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			familyId	path	string	true	"ID formatted as string"
// @Param			month		path	string	true	"The month in YYYY-MM format"
// @Router			/v1/families/{familyId}/reports/monthly/{month} [get]
func GetMonthlySummary(c *gin.Context) {
	family, ok := familyFromURI(c)
	if !ok {
		return
	}

	month, err := types.ParseMonth(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(errMonthInvalid))
		return
	}

	report, err := reports.MonthlySummary(c.Request.Context(), models.DB, family.ID, month)
	if err != nil {
		c.JSON(status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, report)
}
