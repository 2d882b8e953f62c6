package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
	"github.com/veltapay/velta_backend/internal/dto"
)

// depositHandler handles HTTP requests for deposit requests and their review.
type depositHandler struct {
	depositService portssvc.DepositSvcFacade
}

func newDepositHandler(ds portssvc.DepositSvcFacade) *depositHandler {
	return &depositHandler{depositService: ds}
}

// registerDepositRoutes registers routes related to deposits.
func registerDepositRoutes(rg *gin.RouterGroup, depositService portssvc.DepositSvcFacade) {
	h := newDepositHandler(depositService)

	deposits := rg.Group("/deposits")
	{
		deposits.POST("", h.requestDeposit)
		deposits.GET("", h.listOwnDeposits)
	}

	admin := rg.Group("/admin/deposits")
	{
		admin.GET("/pending", h.listPending)
		admin.POST("/:depositID/approve", h.approve)
		admin.POST("/:depositID/reject", h.reject)
	}
}

// requestDeposit godoc
// @Summary Submit a deposit request
// @Tags deposits
// @Accept json
// @Produce json
// @Param deposit body dto.CreateDepositRequest true "Deposit details"
// @Success 201 {object} dto.DepositResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /deposits [post]
func (h *depositHandler) requestDeposit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	deposit, err := h.depositService.RequestDeposit(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create deposit request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDepositResponse(deposit))
}

// listOwnDeposits godoc
// @Summary List own deposit requests
// @Tags deposits
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.DepositResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /deposits [get]
func (h *depositHandler) listOwnDeposits(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters: " + err.Error()})
		return
	}

	deposits, err := h.depositService.ListOwnDeposits(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list deposits")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDepositResponse(deposits))
}

// listPending godoc
// @Summary List pending deposit requests
// @Tags admin
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.DepositResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /admin/deposits/pending [get]
func (h *depositHandler) listPending(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters: " + err.Error()})
		return
	}

	deposits, err := h.depositService.ListPendingDeposits(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list pending deposits")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDepositResponse(deposits))
}

// approve godoc
// @Summary Approve a deposit request
// @Description Applies the deposit to the account and pays any referral reward
// @Tags admin
// @Produce json
// @Param depositID path string true "Deposit ID"
// @Success 200 {object} dto.DepositResponse
// @Failure 400 {object} map[string]string "Deposit already reviewed"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Deposit not found"
// @Security BearerAuth
// @Router /admin/deposits/{depositID}/approve [post]
func (h *depositHandler) approve(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	depositID := c.Param("depositID")

	deposit, err := h.depositService.ApproveDeposit(c.Request.Context(), depositID, userID)
	if err != nil {
		respondError(c, err, "Failed to approve deposit")
		return
	}

	loggerFrom(c).Info("Deposit approved", slog.String("deposit_id", depositID))
	c.JSON(http.StatusOK, dto.ToDepositResponse(deposit))
}

// reject godoc
// @Summary Reject a deposit request
// @Tags admin
// @Produce json
// @Param depositID path string true "Deposit ID"
// @Success 200 {object} dto.DepositResponse
// @Failure 400 {object} map[string]string "Deposit already reviewed"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Deposit not found"
// @Security BearerAuth
// @Router /admin/deposits/{depositID}/reject [post]
func (h *depositHandler) reject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	deposit, err := h.depositService.RejectDeposit(c.Request.Context(), c.Param("depositID"), userID)
	if err != nil {
		respondError(c, err, "Failed to reject deposit")
		return
	}
	c.JSON(http.StatusOK, dto.ToDepositResponse(deposit))
}
