package handlers

import (
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/graph"
	"courier-route-service/internal/ports"
	"fmt"
	"net/http"
)

// DestinationHandler exposes read-only destination retrieval endpoints.
type DestinationHandler struct {
	Repo  ports.DestinationRepository
	Graph *graph.Graph
}

func (h *DestinationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.Repo == nil {
		writeError(w, r, http.StatusNotFound, "no destination source configured")
		return
	}

	names, err := h.Repo.ListDestinations(r.Context())
	if err != nil {
		writeServiceError(w, r, "list destinations", err)
		return
	}

	res := dto.ListDestinationsResponse{
		Destinations: make([]dto.DestinationResponse, 0, len(names)),
	}
	for _, name := range names {
		n, ok := h.Graph.Node(name)
		if !ok {
			writeServiceError(w, r, "list destinations", fmt.Errorf("list destinations: unknown node %q", name))
			return
		}
		coords := domain.Coordinates{Lon: n.Lng, Lat: n.Lat}
		res.Destinations = append(res.Destinations, dto.DestinationResponse{
			Name:        name,
			Lat:         n.Lat,
			Lng:         n.Lng,
			Coordinates: coords.CoordsToList(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
