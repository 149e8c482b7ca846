package http

import (
	"encoding/json"
	"net/http"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/handler/http/response"
)

// AttendanceHandler ingests attendance events into the pipeline
type AttendanceHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	service activity.Service
}

func NewAttendanceHandler(service activity.Service) AttendanceHandler {
	return &attendanceHandlerImpl{service: service}
}

// Record handles POST /attendance
func (h *attendanceHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req activity.RecordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.Record(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance event recorded", result)
}
