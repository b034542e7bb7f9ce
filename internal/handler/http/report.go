package http

import (
	"net/http"
	"strconv"

	"github.com/gajihub/payroll-backend-go/internal/domain/report"
	"github.com/gajihub/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	RunSummary(w http.ResponseWriter, r *http.Request)
	GroupTotals(w http.ResponseWriter, r *http.Request)
	OTSummary(w http.ResponseWriter, r *http.Request)
	EmployeeYTD(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

func periodParams(r *http.Request) (month, year int, ok bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return 0, 0, false
	}
	year, err = strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, false
	}
	return month, year, true
}

func (h *reportHandlerImpl) RunSummary(w http.ResponseWriter, r *http.Request) {
	month, year, ok := periodParams(r)
	if !ok {
		response.BadRequest(w, "month and year query parameters are required", nil)
		return
	}

	result, err := h.reportService.RunSummary(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) GroupTotals(w http.ResponseWriter, r *http.Request) {
	month, year, ok := periodParams(r)
	if !ok {
		response.BadRequest(w, "month and year query parameters are required", nil)
		return
	}
	grouping := r.URL.Query().Get("grouping")

	result, err := h.reportService.GroupTotals(r.Context(), month, year, grouping)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) OTSummary(w http.ResponseWriter, r *http.Request) {
	month, year, ok := periodParams(r)
	if !ok {
		response.BadRequest(w, "month and year query parameters are required", nil)
		return
	}

	result, err := h.reportService.OTSummary(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) EmployeeYTD(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "year query parameter is required", nil)
		return
	}
	beforeMonth := 13
	if v := r.URL.Query().Get("before_month"); v != "" {
		beforeMonth, err = strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid before_month", nil)
			return
		}
	}

	result, err := h.reportService.EmployeeYTD(r.Context(), employeeID, year, beforeMonth)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
