package api

import (
	"errors"
	"net/http"

	"TicketSync/internal/config"
	"TicketSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SyncHandler struct {
	syncService *service.SyncService
	logger      *logrus.Logger
}

func NewSyncHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *SyncHandler {
	return &SyncHandler{
		syncService: service.NewSyncService(db, logger, cfg),
		logger:      logger,
	}
}

// SyncService exposes the underlying service so other handlers can share its
// pipeline instead of rebuilding it.
func (h *SyncHandler) SyncService() *service.SyncService {
	return h.syncService
}

// SyncVendorHandler runs one extraction cycle for the vendor in the path.
// POST /sync/vendor/:vendor
func (h *SyncHandler) SyncVendorHandler(c *gin.Context) {
	vendorName := c.Param("vendor")

	summary, err := h.syncService.SyncVendor(c.Request.Context(), vendorName)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrUnknownVendor) || errors.Is(err, service.ErrVendorDisabled) {
			status = http.StatusBadRequest
		}
		h.logger.WithError(err).WithField("vendor", vendorName).Error("vendor sync failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SyncAllHandler runs every enabled vendor.
// POST /sync/all
func (h *SyncHandler) SyncAllHandler(c *gin.Context) {
	summaries := h.syncService.SyncAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"syncs": summaries})
}
