package handlers

import (
	"net/http"
	"time"
)

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, MessageResponse{Message: "sugurico API"}, http.StatusOK)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.TablesService.Ping(r.Context()); err != nil {
		if h.Log != nil {
			h.Log.WithError(err).Warn("health check failed")
		}
		writeSuccess(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

type TablesResponse struct {
	CountTables int `json:"countTables"`
}

func (h *Handlers) TablesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.TablesService.GetCountTablesDB(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, TablesResponse{CountTables: count}, http.StatusOK)
}
