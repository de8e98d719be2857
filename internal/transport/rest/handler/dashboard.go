package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"shespeaks/internal/export"
	"shespeaks/internal/logger"
	"shespeaks/internal/service"
	"shespeaks/internal/table"
	"shespeaks/internal/transport/rest/middleware"
)

// WarningHeader is set whenever a response was built from an empty table
// because the record store could not be read
const WarningHeader = "X-Data-Warning"

const dataUnavailable = "survey data is temporarily unavailable"

// PageResponse wraps a page payload
type PageResponse struct {
	Page    string      `json:"page"`
	Data    interface{} `json:"data"`
	Warning string      `json:"warning,omitempty"`
}

// RefreshResponse reports the outcome of a manual reload
type RefreshResponse struct {
	Rows    int       `json:"rows"`
	BuiltAt time.Time `json:"builtAt"`
}

// DashboardHandler handles page, export and refresh endpoints
type DashboardHandler struct {
	dashboard *service.DashboardService
	log       *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *service.DashboardService, log *logger.Logger) *DashboardHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardHandler{dashboard: dashboard, log: log.WithComponent("dashboard-handler")}
}

// ListPages handles GET /v1/pages
func (h *DashboardHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"pages": service.PageNames})
}

// GetPage handles GET /v1/pages/{page}
func (h *DashboardHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["page"]

	page, err := h.dashboard.Page(r.Context(), name)
	if errors.Is(err, service.ErrUnknownPage) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := PageResponse{Page: name, Data: page}
	if err != nil {
		if !table.IsDataSourceError(err) {
			h.log.WithRequest(r).WithError(err).Error("page failed")
			writeError(w, http.StatusInternalServerError, "could not build page")
			return
		}
		resp.Warning = dataUnavailable
		w.Header().Set(WarningHeader, dataUnavailable)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Export handles GET /v1/export?format=csv|json|xlsx
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.dashboard.Table(r.Context())
	if err != nil {
		h.log.WithRequest(r).WithError(err).Warn("export unavailable")
		writeError(w, http.StatusServiceUnavailable, dataUnavailable)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	if err := export.Write(w, format, t); err != nil {
		// headers are already on the wire
		h.log.WithRequest(r).WithError(err).Error("export write failed")
	}
}

// Refresh handles POST /v1/refresh
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	t, err := h.dashboard.Refresh(r.Context())
	if err != nil {
		h.log.WithRequest(r).WithError(err).Warn("refresh failed")
		writeError(w, http.StatusServiceUnavailable, dataUnavailable)
		return
	}

	h.log.WithRequest(r).WithField("host_id", middleware.GetHostID(r.Context())).WithField("rows", t.Len()).Info("table refreshed")
	writeJSON(w, http.StatusOK, RefreshResponse{Rows: t.Len(), BuiltAt: t.BuiltAt()})
}
