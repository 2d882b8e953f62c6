package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veltapay/velta_backend/internal/core/domain"
	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
	"github.com/veltapay/velta_backend/internal/dto"
)

// profitShareHandler handles the accrual engine triggers, manual credits, and
// ledger reads.
type profitShareHandler struct {
	profitShareService portssvc.ProfitShareSvcFacade
}

func newProfitShareHandler(ps portssvc.ProfitShareSvcFacade) *profitShareHandler {
	return &profitShareHandler{profitShareService: ps}
}

// registerProfitShareRoutes registers the authenticated profit-share routes.
func registerProfitShareRoutes(rg *gin.RouterGroup, profitShareService portssvc.ProfitShareSvcFacade) {
	h := newProfitShareHandler(profitShareService)

	rg.GET("/profit-share/history", h.listOwnEntries)

	admin := rg.Group("/admin/profit-share")
	{
		admin.POST("/run", h.runAccrual)
		admin.POST("/credit", h.creditFixedAmount)
		admin.POST("/credit-percent", h.creditFixedPercentage)
		admin.GET("/runs", h.listRuns)
	}
}

// registerCronRoutes registers the scheduler trigger, guarded by the shared
// secret middleware rather than JWT auth.
func registerCronRoutes(rg *gin.RouterGroup, profitShareService portssvc.ProfitShareSvcFacade) {
	h := newProfitShareHandler(profitShareService)
	rg.POST("/profit-share", h.runAccrualFromScheduler)
}

// listOwnEntries godoc
// @Summary List own profit-share history
// @Tags profit-share
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.ProfitEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /profit-share/history [get]
func (h *profitShareHandler) listOwnEntries(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters: " + err.Error()})
		return
	}

	entries, err := h.profitShareService.ListOwnEntries(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list profit-share history")
		return
	}
	c.JSON(http.StatusOK, dto.ToListProfitEntryResponse(entries))
}

// runAccrual godoc
// @Summary Trigger the daily profit-share run
// @Description Runs the accrual for the given day (default today). Safe to re-run; already-credited accounts are skipped.
// @Tags admin
// @Accept json
// @Produce json
// @Param run body dto.RunAccrualRequest false "Optional run date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccrualRunResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /admin/profit-share/run [post]
func (h *profitShareHandler) runAccrual(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	asOf, ok := h.bindRunDate(c)
	if !ok {
		return
	}

	run, err := h.profitShareService.RunDailyAccrual(c.Request.Context(), asOf, userID)
	if err != nil {
		respondError(c, err, "Failed to run profit-share accrual")
		return
	}

	loggerFrom(c).Info("Profit-share run completed",
		slog.String("run_id", run.RunID),
		slog.Int("users_processed", run.UsersProcessed),
		slog.String("total_amount", run.TotalAmount.String()))
	c.JSON(http.StatusOK, dto.ToAccrualRunResponse(run))
}

// runAccrualFromScheduler is the cron-triggered variant; authentication is the
// shared secret checked by middleware, and the run is attributed to the
// scheduler actor.
func (h *profitShareHandler) runAccrualFromScheduler(c *gin.Context) {
	asOf, ok := h.bindRunDate(c)
	if !ok {
		return
	}

	run, err := h.profitShareService.RunDailyAccrual(c.Request.Context(), asOf, domain.SchedulerActor)
	if err != nil {
		respondError(c, err, "Failed to run profit-share accrual")
		return
	}

	loggerFrom(c).Info("Scheduled profit-share run completed",
		slog.String("run_id", run.RunID),
		slog.Int("users_processed", run.UsersProcessed))
	c.JSON(http.StatusOK, dto.ToAccrualRunResponse(run))
}

// bindRunDate parses the optional run date from the body, defaulting to now.
func (h *profitShareHandler) bindRunDate(c *gin.Context) (time.Time, bool) {
	var req dto.RunAccrualRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return time.Time{}, false
		}
	}
	if req.Date == "" {
		return time.Now().UTC(), true
	}
	asOf, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return asOf, true
}

// creditFixedAmount godoc
// @Summary Credit a fixed amount to an account
// @Description Administrator override outside the daily schedule. Recorded as a custom ledger entry and audited.
// @Tags admin
// @Accept json
// @Produce json
// @Param credit body dto.ManualCreditRequest true "Credit details"
// @Success 201 {object} dto.ProfitEntryResponse
// @Failure 400 {object} map[string]string "Invalid amount or above ceiling"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /admin/profit-share/credit [post]
func (h *profitShareHandler) creditFixedAmount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.ManualCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.profitShareService.CreditFixedAmount(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to credit account")
		return
	}

	loggerFrom(c).Info("Manual credit applied",
		slog.String("account_id", req.AccountID),
		slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusCreated, dto.ToProfitEntryResponse(entry))
}

// creditFixedPercentage godoc
// @Summary Credit a percentage of the deposit balance
// @Description Administrator override crediting depositBalance * percentage / 100
// @Tags admin
// @Accept json
// @Produce json
// @Param credit body dto.ManualPercentCreditRequest true "Credit details"
// @Success 201 {object} dto.ProfitEntryResponse
// @Failure 400 {object} map[string]string "Invalid percentage"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /admin/profit-share/credit-percent [post]
func (h *profitShareHandler) creditFixedPercentage(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.ManualPercentCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.profitShareService.CreditFixedPercentage(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to credit account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToProfitEntryResponse(entry))
}

// listRuns godoc
// @Summary List recent accrual runs
// @Tags admin
// @Produce json
// @Param limit query int false "Max runs" default(20)
// @Success 200 {array} dto.AccrualRunResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /admin/profit-share/runs [get]
func (h *profitShareHandler) listRuns(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters: " + err.Error()})
		return
	}

	runs, err := h.profitShareService.ListRuns(c.Request.Context(), userID, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to list accrual runs")
		return
	}

	res := make([]dto.AccrualRunResponse, len(runs))
	for i := range runs {
		res[i] = dto.ToAccrualRunResponse(&runs[i])
	}
	c.JSON(http.StatusOK, res)
}
