package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
	"github.com/veltapay/velta_backend/internal/dto"
)

// withdrawalHandler handles HTTP requests for withdrawal requests and their review.
type withdrawalHandler struct {
	withdrawalService portssvc.WithdrawalSvcFacade
}

func newWithdrawalHandler(ws portssvc.WithdrawalSvcFacade) *withdrawalHandler {
	return &withdrawalHandler{withdrawalService: ws}
}

// registerWithdrawalRoutes registers routes related to withdrawals.
func registerWithdrawalRoutes(rg *gin.RouterGroup, withdrawalService portssvc.WithdrawalSvcFacade) {
	h := newWithdrawalHandler(withdrawalService)

	withdrawals := rg.Group("/withdrawals")
	{
		withdrawals.POST("", h.requestWithdrawal)
		withdrawals.GET("", h.listOwnWithdrawals)
	}

	admin := rg.Group("/admin/withdrawals")
	{
		admin.GET("/pending", h.listPending)
		admin.POST("/:withdrawalID/approve", h.approve)
		admin.POST("/:withdrawalID/reject", h.reject)
	}
}

// requestWithdrawal godoc
// @Summary Submit a withdrawal request
// @Tags withdrawals
// @Accept json
// @Produce json
// @Param withdrawal body dto.CreateWithdrawalRequest true "Withdrawal details"
// @Success 201 {object} dto.WithdrawalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /withdrawals [post]
func (h *withdrawalHandler) requestWithdrawal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	withdrawal, err := h.withdrawalService.RequestWithdrawal(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create withdrawal request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToWithdrawalResponse(withdrawal))
}

// listOwnWithdrawals godoc
// @Summary List own withdrawal requests
// @Tags withdrawals
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.WithdrawalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /withdrawals [get]
func (h *withdrawalHandler) listOwnWithdrawals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters: " + err.Error()})
		return
	}

	withdrawals, err := h.withdrawalService.ListOwnWithdrawals(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list withdrawals")
		return
	}
	c.JSON(http.StatusOK, dto.ToListWithdrawalResponse(withdrawals))
}

// listPending godoc
// @Summary List pending withdrawal requests
// @Tags admin
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.WithdrawalResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /admin/withdrawals/pending [get]
func (h *withdrawalHandler) listPending(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters: " + err.Error()})
		return
	}

	withdrawals, err := h.withdrawalService.ListPendingWithdrawals(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list pending withdrawals")
		return
	}
	c.JSON(http.StatusOK, dto.ToListWithdrawalResponse(withdrawals))
}

// approve godoc
// @Summary Approve a withdrawal request
// @Description Debits the account; fails with 422 when funds have drained since the request
// @Tags admin
// @Produce json
// @Param withdrawalID path string true "Withdrawal ID"
// @Success 200 {object} dto.WithdrawalResponse
// @Failure 400 {object} map[string]string "Withdrawal already reviewed"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Withdrawal not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /admin/withdrawals/{withdrawalID}/approve [post]
func (h *withdrawalHandler) approve(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	withdrawalID := c.Param("withdrawalID")

	withdrawal, err := h.withdrawalService.ApproveWithdrawal(c.Request.Context(), withdrawalID, userID)
	if err != nil {
		respondError(c, err, "Failed to approve withdrawal")
		return
	}

	loggerFrom(c).Info("Withdrawal approved", slog.String("withdrawal_id", withdrawalID))
	c.JSON(http.StatusOK, dto.ToWithdrawalResponse(withdrawal))
}

// reject godoc
// @Summary Reject a withdrawal request
// @Tags admin
// @Produce json
// @Param withdrawalID path string true "Withdrawal ID"
// @Success 200 {object} dto.WithdrawalResponse
// @Failure 400 {object} map[string]string "Withdrawal already reviewed"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Withdrawal not found"
// @Security BearerAuth
// @Router /admin/withdrawals/{withdrawalID}/reject [post]
func (h *withdrawalHandler) reject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	withdrawal, err := h.withdrawalService.RejectWithdrawal(c.Request.Context(), c.Param("withdrawalID"), userID)
	if err != nil {
		respondError(c, err, "Failed to reject withdrawal")
		return
	}
	c.JSON(http.StatusOK, dto.ToWithdrawalResponse(withdrawal))
}
