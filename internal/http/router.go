package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterRosterRoutes 注册编制维护路由
func (r *Router) RegisterRosterRoutes(h *RosterHandler) {
	r.Handle("/roster/api/v1/employees", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListEmployees(w, req)
		case http.MethodPost:
			h.CreateEmployee(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// employees/{id}
	r.Handle("/roster/api/v1/employees/", func(w http.ResponseWriter, req *http.Request) {
		id := pathSuffix(req, "/roster/api/v1/employees/")
		if id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch req.Method {
		case http.MethodPut:
			h.UpdateEmployee(w, req, id)
		case http.MethodDelete:
			h.DeleteEmployee(w, req, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.Handle("/roster/api/v1/leaves", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListLeavePeriods(w, req)
		case http.MethodPost:
			h.AddLeavePeriod(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// leaves/{id}
	r.Handle("/roster/api/v1/leaves/", func(w http.ResponseWriter, req *http.Request) {
		id := pathSuffix(req, "/roster/api/v1/leaves/")
		if id == "" || req.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.DeleteLeavePeriod(w, req, id)
	})

	r.Handle("/roster/api/v1/fixed-assignments", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListFixedAssignments(w, req)
		case http.MethodPost:
			h.SetFixedAssignment(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// fixed-assignments/{id}
	r.Handle("/roster/api/v1/fixed-assignments/", func(w http.ResponseWriter, req *http.Request) {
		id := pathSuffix(req, "/roster/api/v1/fixed-assignments/")
		if id == "" || req.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.DeleteFixedAssignment(w, req, id)
	})

	r.Handle("/roster/api/v1/closed-dates", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListClosedDates(w, req)
		case http.MethodPost:
			h.SetClosedDate(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// closed-dates/{date}
	r.Handle("/roster/api/v1/closed-dates/", func(w http.ResponseWriter, req *http.Request) {
		date := pathSuffix(req, "/roster/api/v1/closed-dates/")
		if date == "" || req.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.DeleteClosedDate(w, req, date)
	})

	r.Handle("/roster/api/v1/rest-cycles", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListRestCycleEntries(w, req)
		case http.MethodPut:
			h.ReplaceRestWeek(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// rest-cycles/{employeeId}
	r.Handle("/roster/api/v1/rest-cycles/", func(w http.ResponseWriter, req *http.Request) {
		id := pathSuffix(req, "/roster/api/v1/rest-cycles/")
		if id == "" || req.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.DeleteRestCycle(w, req, id)
	})
}

// RegisterScheduleRoutes 注册排班生成/查询/导出路由
func (r *Router) RegisterScheduleRoutes(h *ScheduleHandler) {
	r.Handle("/roster/api/v1/schedule/generate", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Generate(w, req)
	})

	r.Handle("/roster/api/v1/schedule/latest", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Latest(w, req)
	})

	r.Handle("/roster/api/v1/schedule/export", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Export(w, req)
	})
}

// RegisterHealthRoute 健康检查
func (r *Router) RegisterHealthRoute() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok("ok"))
	})
}

// pathSuffix 取前缀之后的单段路径参数，带子路径视为无效
func pathSuffix(req *http.Request, prefix string) string {
	id := strings.TrimPrefix(req.URL.Path, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
