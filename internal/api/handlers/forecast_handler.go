package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/demandcast/internal/domain"
	"github.com/andresuchdata/demandcast/internal/refresh"
	"github.com/andresuchdata/demandcast/internal/service"
)

type ForecastHandler struct {
	service   *service.ForecastService
	refresher *refresh.Refresher
}

func NewForecastHandler(svc *service.ForecastService, refresher *refresh.Refresher) *ForecastHandler {
	return &ForecastHandler{service: svc, refresher: refresher}
}

func (h *ForecastHandler) parseFilter(c *gin.Context) domain.ForecastFilter {
	filter := domain.ForecastFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}

	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}

	parseList := func(param string) []string {
		value := strings.TrimSpace(c.Query(param))
		if value == "" {
			return nil
		}
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part != "" {
				result = append(result, part)
			}
		}
		return result
	}

	filter.SKUs = parseList("skus")
	filter.Risks = parseList("risks")

	return filter
}

// GetSKUForecast returns the latest forecast for one SKU, computing it
// on demand when no refresh has run yet.
func (h *ForecastHandler) GetSKUForecast(c *gin.Context) {
	sku := strings.TrimSpace(c.Param("sku"))
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku is required"})
		return
	}

	f, err := h.service.GetForecast(c.Request.Context(), sku)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, f)
}

func (h *ForecastHandler) ListForecasts(c *gin.Context) {
	filter := h.parseFilter(c)
	forecasts, total, err := h.service.ListForecasts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch forecasts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"forecasts": forecasts,
		"total":     total,
	})
}

// GetAtRisk is a convenience listing of SKUs in the critical and high
// tiers, ordered by days until stockout.
func (h *ForecastHandler) GetAtRisk(c *gin.Context) {
	filter := h.parseFilter(c)
	if len(filter.Risks) == 0 {
		filter.Risks = []string{"CRITICAL", "HIGH"}
	}

	forecasts, total, err := h.service.ListForecasts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch at-risk SKUs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"forecasts": forecasts,
		"total":     total,
	})
}

func (h *ForecastHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Refresh triggers a synchronous full refresh. The scheduler normally
// calls the CLI instead; this endpoint exists for manual reruns.
func (h *ForecastHandler) Refresh(c *gin.Context) {
	if h.refresher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh is not configured"})
		return
	}

	result, err := h.refresher.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
