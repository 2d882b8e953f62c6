package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/veltapay/velta_backend/internal/core/ports/services"
	"github.com/veltapay/velta_backend/internal/dto"
)

// settingsHandler handles platform settings and the tier table.
type settingsHandler struct {
	settingsService portssvc.SettingsSvcFacade
}

func newSettingsHandler(ss portssvc.SettingsSvcFacade) *settingsHandler {
	return &settingsHandler{settingsService: ss}
}

// registerSettingsRoutes registers settings and tier table routes.
func registerSettingsRoutes(rg *gin.RouterGroup, settingsService portssvc.SettingsSvcFacade) {
	h := newSettingsHandler(settingsService)

	// The active tier table is public to authenticated users so they can see
	// the rates they earn at.
	rg.GET("/tiers", h.getTierTable)

	admin := rg.Group("/admin/settings")
	{
		admin.GET("", h.getSettings)
		admin.PUT("", h.updateSettings)
		admin.PUT("/tiers", h.updateTierTable)
	}
	rg.GET("/admin/audit", h.listAuditRecords)
}

// getTierTable godoc
// @Summary Get the active tier table
// @Tags settings
// @Produce json
// @Success 200 {object} dto.TierTableResponse
// @Failure 404 {object} map[string]string "No tier table configured"
// @Security BearerAuth
// @Router /tiers [get]
func (h *settingsHandler) getTierTable(c *gin.Context) {
	table, err := h.settingsService.GetTierTable(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve tier table")
		return
	}
	c.JSON(http.StatusOK, dto.ToTierTableResponse(table))
}

// getSettings godoc
// @Summary Get platform settings
// @Tags admin
// @Produce json
// @Success 200 {object} dto.SettingsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /admin/settings [get]
func (h *settingsHandler) getSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsResponse(settings))
}

// updateSettings godoc
// @Summary Update platform settings
// @Tags admin
// @Accept json
// @Produce json
// @Param settings body dto.UpdateSettingsRequest true "Fields to update"
// @Success 200 {object} dto.SettingsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /admin/settings [put]
func (h *settingsHandler) updateSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update settings")
		return
	}

	loggerFrom(c).Info("Settings updated", slog.String("admin_id", userID))
	c.JSON(http.StatusOK, dto.ToSettingsResponse(settings))
}

// updateTierTable godoc
// @Summary Replace the active tier table
// @Description Validates and activates a new tier table version; old versions are kept for audit
// @Tags admin
// @Accept json
// @Produce json
// @Param tiers body dto.UpdateTierTableRequest true "New tier table"
// @Success 200 {object} dto.TierTableResponse
// @Failure 400 {object} map[string]string "Overlapping or malformed tiers"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /admin/settings/tiers [put]
func (h *settingsHandler) updateTierTable(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTierTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	table, err := h.settingsService.UpdateTierTable(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update tier table")
		return
	}

	loggerFrom(c).Info("Tier table updated", slog.Int("version", table.Version))
	c.JSON(http.StatusOK, dto.ToTierTableResponse(table))
}

// listAuditRecords godoc
// @Summary List audit trail records
// @Description Lists administrator actions, newest first
// @Tags admin
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} domain.AuditRecord
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /admin/audit [get]
func (h *settingsHandler) listAuditRecords(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters: " + err.Error()})
		return
	}

	records, err := h.settingsService.ListAuditRecords(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list audit records")
		return
	}
	c.JSON(http.StatusOK, records)
}
