package http

import (
	"net/http"

	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/internal/strategy"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupJobs(base *echo.Group) {
	v1 := base.Group("/v1/jobs")
	{
		v1.GET("", h.ListJobs)
		v1.GET("/history", h.GetJobHistory)
		v1.POST("/:type/run", h.RunJob, h.analyzeTimeout())
	}
}

func (h *HttpAPIHandler) ListJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", h.service.SchedulerService.Jobs()))
}

func (h *HttpAPIHandler) RunJob(c echo.Context) error {
	jobType := strategy.JobType(c.Param("type"))
	switch jobType {
	case strategy.JobTypeDomainAnalysisBatch, strategy.JobTypeDataCleanUp:
	default:
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("unknown job type: "+string(jobType)))
	}

	response := dto.NewBaseResponse(http.StatusOK, "job finished", nil)
	result, err := h.service.SchedulerService.RunJobTask(c.Request().Context(), jobType)
	response.Data = result
	if err != nil {
		response.Code = http.StatusInternalServerError
		response.Message = err.Error()
	}
	return c.JSON(response.Code, response)
}

func (h *HttpAPIHandler) GetJobHistory(c echo.Context) error {
	req := &dto.JobHistoryRequest{Limit: dto.DefaultJobHistoryLimit}
	if err := h.bindAndValidate(c, req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	executions, err := h.service.TaskExecutor.ExecutionHistory(c.Request().Context(), req.JobType, req.Limit)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", executions))
}
