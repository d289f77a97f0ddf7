package api

import (
	"errors"
	"net/http"
	"time"

	"TicketSync/internal/model"
	"TicketSync/internal/repository"
	"TicketSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ObservationHandler is the direct-ingest path for out-of-process scrapers
// that push their vendor-parsed figures instead of publishing an export feed.
type ObservationHandler struct {
	syncService *service.SyncService
	logger      *logrus.Logger
}

func NewObservationHandler(syncService *service.SyncService, logger *logrus.Logger) *ObservationHandler {
	return &ObservationHandler{syncService: syncService, logger: logger}
}

type observationRequest struct {
	Vendor            string              `json:"vendor" binding:"required"`
	Artist            string              `json:"artist" binding:"required"`
	Venue             string              `json:"venue" binding:"required"`
	ShowDate          time.Time           `json:"show_date" binding:"required"`
	Capacity          int                 `json:"capacity"`
	CumulativeUnits   int                 `json:"cumulative_units"`
	CumulativeRevenue decimal.Decimal     `json:"cumulative_revenue"`
	ReportedAt        *time.Time          `json:"reported_at"`
	Sectors           []model.SectorSales `json:"sectors"`
}

// PostObservation records one pushed observation.
// POST /api/observations
func (h *ObservationHandler) PostObservation(c *gin.Context) {
	var req observationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	obs := &model.Observation{
		Vendor:            model.Vendor(req.Vendor),
		Artist:            req.Artist,
		Venue:             req.Venue,
		ShowDate:          req.ShowDate,
		Capacity:          req.Capacity,
		CumulativeUnits:   req.CumulativeUnits,
		CumulativeRevenue: req.CumulativeRevenue,
		ReportedAt:        req.ReportedAt,
		Sectors:           req.Sectors,
	}

	show, result, err := h.syncService.Process(c.Request.Context(), obs)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrInvalidObservation):
			status = http.StatusBadRequest
		case errors.Is(err, repository.ErrShowNotFound):
			status = http.StatusNotFound
		}
		h.logger.WithError(err).WithFields(logrus.Fields{
			"vendor": req.Vendor,
			"artist": req.Artist,
		}).Warn("pushed observation rejected")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"show_id": show.ID,
		"result":  result,
	})
}
