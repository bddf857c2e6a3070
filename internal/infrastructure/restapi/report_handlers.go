package restapi

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"walletscope/internal/app/port"
	"walletscope/internal/domain/entity"
)

// APIReportResponse is the envelope of the report endpoint.
type APIReportResponse struct {
	Data struct {
		Report *entity.Report `json:"report"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// APIValueHistoryResponse is the envelope of the value-history endpoint.
type APIValueHistoryResponse struct {
	Data struct {
		Address string               `json:"address"`
		Samples []entity.ValueSample `json:"samples"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// APIStatsResponse is the envelope of the service-stats endpoint.
type APIStatsResponse struct {
	Data struct {
		UniqueWallets int64 `json:"unique_wallets"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// ReportHandler handles HTTP requests for wallet reports and service stats.
type ReportHandler struct {
	reports port.ReportService
	stats   port.StatsStore
	logger  port.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports port.ReportService, stats port.StatsStore, l port.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, stats: stats, logger: l}
}

// GetReportHandler serves the full wallet report for one address.
func (h *ReportHandler) GetReportHandler(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address"})
		return
	}

	report, err := h.reports.BuildReport(c.Request.Context(), address)
	if err != nil {
		h.logger.Error("Report build failed", "address", address, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build wallet report"})
		return
	}

	response := APIReportResponse{StatusMessage: "Report generated successfully."}
	response.Data.Report = report
	if report.FromCache {
		response.StatusMessage = "Report served from cache."
	}
	c.JSON(http.StatusOK, response)
}

// GetValueHistoryHandler serves the recorded total-value samples for one
// address, oldest first. The optional limit query parameter bounds the
// number of samples.
func (h *ReportHandler) GetValueHistoryHandler(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = parsed
	}

	samples, err := h.stats.ValueHistory(c.Request.Context(), address, limit)
	if err != nil {
		h.logger.Error("Value history read failed", "address", address, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read value history"})
		return
	}

	response := APIValueHistoryResponse{StatusMessage: "Value history retrieved successfully."}
	response.Data.Address = address
	response.Data.Samples = samples
	if len(samples) == 0 {
		response.StatusMessage = "No value history recorded for this address yet."
	}
	c.JSON(http.StatusOK, response)
}

// GetStatsHandler serves aggregate usage statistics.
func (h *ReportHandler) GetStatsHandler(c *gin.Context) {
	unique, err := h.stats.UniqueWallets(c.Request.Context())
	if err != nil {
		h.logger.Error("Stats read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read service stats"})
		return
	}

	response := APIStatsResponse{StatusMessage: "Stats retrieved successfully."}
	response.Data.UniqueWallets = unique
	c.JSON(http.StatusOK, response)
}

// HealthHandler reports process liveness.
func (h *ReportHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
