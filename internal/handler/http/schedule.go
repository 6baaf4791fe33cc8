package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type ScheduleHandler interface {
	AssignShifts(w http.ResponseWriter, r *http.Request)
	GetSchedules(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
	}
}

// AssignShifts implements ScheduleHandler. Per-date failures are part of a 200 response.
func (h *scheduleHandlerImpl) AssignShifts(w http.ResponseWriter, r *http.Request) {
	var req schedule.AssignShiftsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode assign shifts request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scheduleService.AssignShifts(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Shifts assigned successfully"
	if len(result.ErrorDates) > 0 {
		message = "Shifts assigned with errors on some dates"
	}
	response.SuccessWithMessage(w, message, result)
}

// GetSchedules implements ScheduleHandler.
func (h *scheduleHandlerImpl) GetSchedules(w http.ResponseWriter, r *http.Request) {
	filter := schedule.ScheduleFilter{
		EmployeeID: employeeIDOrSelf(r, r.URL.Query().Get("employee_id")),
		Month:      r.URL.Query().Get("month"),
	}

	result, err := h.scheduleService.GetSchedules(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
