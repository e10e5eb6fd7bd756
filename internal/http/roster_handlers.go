package httpapi

import (
	"errors"
	"net/http"

	"wisefido-roster/internal/repository"
	"wisefido-roster/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// RosterHandler 编制维护接口
type RosterHandler struct {
	svc    service.RosterService
	logger *zap.Logger
}

func NewRosterHandler(svc service.RosterService, logger *zap.Logger) *RosterHandler {
	return &RosterHandler{svc: svc, logger: logger}
}

func (h *RosterHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"
	employees, err := h.svc.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(employees))
}

func (h *RosterHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	id, err := h.svc.CreateEmployee(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"employeeId": id}))
}

func (h *RosterHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request, employeeID string) {
	var req service.EmployeeRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if err := h.svc.UpdateEmployee(r.Context(), employeeID, req); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"employeeId": employeeID}))
}

func (h *RosterHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request, employeeID string) {
	if err := h.svc.DeleteEmployee(r.Context(), employeeID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *RosterHandler) ListLeavePeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.svc.ListLeavePeriods(r.Context(), r.URL.Query().Get("employeeId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(periods))
}

func (h *RosterHandler) AddLeavePeriod(w http.ResponseWriter, r *http.Request) {
	var req service.LeaveRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	id, err := h.svc.AddLeavePeriod(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"leaveId": id}))
}

func (h *RosterHandler) DeleteLeavePeriod(w http.ResponseWriter, r *http.Request, leaveID string) {
	if err := h.svc.DeleteLeavePeriod(r.Context(), leaveID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *RosterHandler) ListFixedAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.svc.ListFixedAssignments(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(assignments))
}

func (h *RosterHandler) SetFixedAssignment(w http.ResponseWriter, r *http.Request) {
	var req service.FixedAssignmentRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	id, err := h.svc.SetFixedAssignment(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"assignmentId": id}))
}

func (h *RosterHandler) DeleteFixedAssignment(w http.ResponseWriter, r *http.Request, assignmentID string) {
	if err := h.svc.DeleteFixedAssignment(r.Context(), assignmentID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *RosterHandler) ListClosedDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.svc.ListClosedDates(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(dates))
}

func (h *RosterHandler) SetClosedDate(w http.ResponseWriter, r *http.Request) {
	var req service.ClosedDateRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	id, err := h.svc.SetClosedDate(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"closedId": id}))
}

func (h *RosterHandler) DeleteClosedDate(w http.ResponseWriter, r *http.Request, date string) {
	if err := h.svc.DeleteClosedDate(r.Context(), date); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *RosterHandler) ListRestCycleEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListRestCycleEntries(r.Context(), r.URL.Query().Get("employeeId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(entries))
}

func (h *RosterHandler) ReplaceRestWeek(w http.ResponseWriter, r *http.Request) {
	var req service.RestWeekRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if err := h.svc.ReplaceRestWeek(r.Context(), req); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *RosterHandler) DeleteRestCycle(w http.ResponseWriter, r *http.Request, employeeID string) {
	if err := h.svc.DeleteRestCycle(r.Context(), employeeID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *RosterHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, Fail("not found"))
		return
	}
	h.logger.Warn("roster request failed",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err),
	)
	writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
}
