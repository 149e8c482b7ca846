package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inout-manager/realtime-go/internal/domain/report"
	"github.com/inout-manager/realtime-go/internal/handler/http/response"
)

// ReportHandler brokers the report-file collaborator
type ReportHandler interface {
	UserReport(w http.ResponseWriter, r *http.Request)
	GeneralReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	generator report.Generator
}

func NewReportHandler(generator report.Generator) ReportHandler {
	return &reportHandlerImpl{generator: generator}
}

// UserReport handles GET /reports/user/{id}?startDate&endDate
func (h *reportHandlerImpl) UserReport(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	period, err := report.ParseDateRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		handleReportError(w, err)
		return
	}

	file, err := h.generator.UserReport(r.Context(), userID, period)
	if err != nil {
		handleReportError(w, err)
		return
	}

	response.Success(w, file)
}

// GeneralReport handles GET /reports/general?startDate&endDate
func (h *reportHandlerImpl) GeneralReport(w http.ResponseWriter, r *http.Request) {
	period, err := report.ParseDateRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		handleReportError(w, err)
		return
	}

	file, err := h.generator.GeneralReport(r.Context(), period)
	if err != nil {
		handleReportError(w, err)
		return
	}

	response.Success(w, file)
}

func handleReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, report.ErrInvalidDate), errors.Is(err, report.ErrInvalidDateRange):
		response.BadRequest(w, err.Error(), nil)
	default:
		response.InternalServerError(w, report.ErrReportGenerationFailed.Error())
	}
}
