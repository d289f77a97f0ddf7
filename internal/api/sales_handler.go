package api

import (
	"errors"
	"net/http"
	"strconv"

	"TicketSync/internal/repository"
	"TicketSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SalesHandler serves the read side: show listings and per-show ledgers.
type SalesHandler struct {
	showRepo   repository.ShowRepository
	salesRepo  repository.DailySalesRepository
	sectorRepo repository.SectorRepository
	logger     *logrus.Logger
}

func NewSalesHandler(db *gorm.DB, logger *logrus.Logger) *SalesHandler {
	return &SalesHandler{
		showRepo:   repository.NewShowRepository(db),
		salesRepo:  repository.NewDailySalesRepository(db),
		sectorRepo: repository.NewSectorRepository(db),
		logger:     logger,
	}
}

// ListShows lists registered shows with optional vendor/artist filters.
// GET /api/shows?ticketera=&artista=&page=&page_size=
func (h *SalesHandler) ListShows(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.ShowFilter{
		Vendor: c.Query("ticketera"),
		Artist: service.NormalizeArtist(c.Query("artista")),
	}

	shows, total, err := h.showRepo.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("listing shows failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"shows":     shows,
	})
}

// GetShowDailySales returns one show with its full ledger and latest sector
// breakdown.
// GET /api/shows/:id/daily-sales
func (h *SalesHandler) GetShowDailySales(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid show id"})
		return
	}

	ctx := c.Request.Context()
	show, err := h.showRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "show not found"})
			return
		}
		h.logger.WithError(err).WithField("show_id", id).Error("loading show failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sales, err := h.salesRepo.ListByShow(ctx, id)
	if err != nil {
		h.logger.WithError(err).WithField("show_id", id).Error("listing daily sales failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sectors, err := h.sectorRepo.ListByShow(ctx, id)
	if err != nil {
		h.logger.WithError(err).WithField("show_id", id).Error("listing sectors failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"show":        show,
		"daily_sales": sales,
		"sectores":    sectors,
	})
}
