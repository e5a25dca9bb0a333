package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupDomains(base *echo.Group) {
	v1 := base.Group("/v1/domains")
	{
		v1.GET("", h.GetCatalog)
		v1.GET("/latest", h.GetAllLatest)
		v1.POST("/analyze", h.AnalyzeAll, h.analyzeTimeout())
		v1.POST("/cleanup", h.Cleanup)
		v1.POST("/:code/analyze", h.AnalyzeDomain, h.analyzeTimeout())
		v1.GET("/:code/latest", h.GetLatest)
		v1.GET("/:code/history", h.GetHistory)
	}
}

func (h *HttpAPIHandler) GetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", dto.CatalogResponse{
		Domains: h.catalog.All(),
		Stats:   h.catalog.Stats(),
	}))
}

func (h *HttpAPIHandler) AnalyzeDomain(c echo.Context) error {
	req := new(dto.AnalyzeDomainRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	asOfDate, err := parseOptionalDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if !h.analyzeLimiter.Allow(req.Code) {
		return c.JSON(http.StatusTooManyRequests, dto.NewBaseResponse(http.StatusTooManyRequests,
			fmt.Sprintf("analysis for %s was requested too recently, try again later", req.Code), nil))
	}

	result, err := h.service.DomainAnalysisService.Analyze(c.Request().Context(), req.Code, asOfDate)
	if err != nil {
		return h.errorResponse(c, err)
	}

	message := "analysis stored"
	if !result.Stored {
		message = "analysis completed, storage unavailable"
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(message, result))
}

func (h *HttpAPIHandler) AnalyzeAll(c echo.Context) error {
	req := new(dto.AnalyzeAllRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	asOfDate, err := parseOptionalDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.DomainAnalysisBatchService.RunAll(c.Request().Context(), asOfDate)
	if err != nil {
		return h.errorResponse(c, err)
	}

	message := fmt.Sprintf("%d/%d domains analyzed", result.SuccessCount, result.Total)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(message, result))
}

func (h *HttpAPIHandler) GetLatest(c echo.Context) error {
	req := new(dto.DomainCodeRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	record, err := h.service.DomainAnalysisService.Latest(c.Request().Context(), req.Code)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", record))
}

func (h *HttpAPIHandler) GetAllLatest(c echo.Context) error {
	summaries, err := h.service.DomainAnalysisService.AllLatest(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", summaries))
}

func (h *HttpAPIHandler) GetHistory(c echo.Context) error {
	req := &dto.HistoryRequest{Limit: dto.DefaultHistoryLimit}
	if err := h.bindAndValidate(c, req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	summaries, err := h.service.DomainAnalysisService.History(c.Request().Context(), req.Code, req.Limit)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", summaries))
}

func (h *HttpAPIHandler) Cleanup(c echo.Context) error {
	if !h.service.DomainAnalysisService.StorageAvailable() {
		return h.errorResponse(c, dto.ErrStorageUnavailable)
	}
	result, err := h.service.DomainAnalysisService.Cleanup(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(fmt.Sprintf("%d analyses deleted", result.Deleted), result))
}

// parseOptionalDate returns the zero time for an empty value, which the services read as today.
func parseOptionalDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return utils.ParseDate(value)
}
