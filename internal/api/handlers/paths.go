package handlers

import (
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/services"
	"net/http"
	"strings"
)

type PathHandler struct {
	Engine *services.ShortestPathEngine
}

// Get answers GET /paths?from=X&to=Y with the shortest path between two nodes.
func (h *PathHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		writeError(w, r, http.StatusBadRequest, "from and to are required")
		return
	}

	res, err := h.Engine.DistanceAndPath(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, "shortest path", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PathResponse{From: from, To: to, Hours: res.Distance, Path: res.Path})
}
