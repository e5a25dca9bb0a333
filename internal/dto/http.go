package dto

import (
	"net/http"
	"strings"

	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
)

type BaseResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func NewBaseResponse(code int, message string, data interface{}) *BaseResponse {
	return &BaseResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func NewBadRequestResponse(message string) *BaseResponse {
	return NewBaseResponse(http.StatusBadRequest, message, nil)
}

func NewSuccessResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusOK, message, data)
}

type AnalyzeDomainRequest struct {
	Code string `param:"code" validate:"required,oneof=macro leadership breadth liquidity volatility sentiment"`
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *AnalyzeDomainRequest) Normalize() {
	r.Code = normalizeCode(r.Code)
	r.Date = strings.TrimSpace(r.Date)
}

type AnalyzeAllRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *AnalyzeAllRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
}

type DomainCodeRequest struct {
	Code string `param:"code" validate:"required,oneof=macro leadership breadth liquidity volatility sentiment"`
}

func (r *DomainCodeRequest) Normalize() {
	r.Code = normalizeCode(r.Code)
}

const (
	DefaultHistoryLimit = 5
	MaxHistoryLimit     = 30
)

type HistoryRequest struct {
	Code  string `param:"code" validate:"required,oneof=macro leadership breadth liquidity volatility sentiment"`
	Limit int    `query:"limit" validate:"min=1,max=30"`
}

func (r *HistoryRequest) Normalize() {
	r.Code = normalizeCode(r.Code)
}

// normalizeCode accepts domain codes in any case.
func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

type CatalogResponse struct {
	Domains []catalog.Domain `json:"domains"`
	Stats   catalog.Stats    `json:"stats"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Database  string `json:"database"`
	OpenAI    string `json:"openai"`
}
