package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"wisefido-roster/internal/service"

	"go.uber.org/zap"
)

// ScheduleHandler 排班生成/查询/导出接口
type ScheduleHandler struct {
	svc    service.ScheduleService
	logger *zap.Logger
}

func NewScheduleHandler(svc service.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, logger: logger}
}

func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateScheduleRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	resp, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		h.logger.Warn("schedule generation request failed", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *ScheduleHandler) Latest(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Latest(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoSchedule) {
			writeJSON(w, http.StatusNotFound, Fail("no schedule generated yet"))
			return
		}
		h.logger.Error("failed to load latest schedule", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load latest schedule"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *ScheduleHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportLatest(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoSchedule) {
			writeJSON(w, http.StatusNotFound, Fail("no schedule generated yet"))
			return
		}
		h.logger.Error("failed to export schedule", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to export schedule"))
		return
	}

	filename := fmt.Sprintf("work_schedule_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
