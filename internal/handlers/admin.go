package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ayaocrm/crm/internal/middleware"
	"github.com/ayaocrm/crm/internal/service"
)

type backupResult struct {
	Path string `json:"path"`
}

// AdminHTTPHandler is http handler for audit log reading and backups,
// admin-only surface
type AdminHTTPHandler struct {
	auditSvc  service.AuditService
	backupSvc service.BackupService
}

// NewAdminHTTPHandler builds new AdminHTTPHandler
func NewAdminHTTPHandler(auditSvc service.AuditService, backupSvc service.BackupService) *AdminHTTPHandler {
	return &AdminHTTPHandler{auditSvc: auditSvc, backupSvc: backupSvc}
}

// GetLogs returns recent audit log entries, newest first
func (h *AdminHTTPHandler) GetLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.auditSvc.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// PostBackup exports a snapshot and uploads it to the configured
// remote repository
func (h *AdminHTTPHandler) PostBackup(c echo.Context) error {
	path, err := h.backupSvc.Run(c.Request().Context(), middleware.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, &backupResult{Path: path})
}
