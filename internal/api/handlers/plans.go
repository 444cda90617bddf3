package handlers

import (
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

const maxZones = 50

type PlanHandler struct {
	Builder      *services.RouteBuilder
	Repo         ports.DestinationRepository
	Partitioner  ports.ZonePartitioner
	Store        ports.RouteStore
	DefaultDepot string
	Concurrency  int
}

// Plan partitions destinations (unless zones are given) and routes every zone.
// Zones that fail are reported in the response next to the successful routes.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	// An empty body plans the stored destinations from the default depot.
	switch err := dec.Decode(&req); {
	case errors.Is(err, io.EOF):
	case err != nil:
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	default:
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
			return
		}
	}

	depot := strings.TrimSpace(req.Depot)
	if depot == "" {
		depot = strings.TrimSpace(h.DefaultDepot)
	}
	if depot == "" {
		writeError(w, r, http.StatusBadRequest, "depot is required")
		return
	}

	if len(req.Zones) > maxZones {
		writeError(w, r, http.StatusBadRequest, "too many zones")
		return
	}
	zones := make([]domain.Zone, 0, len(req.Zones))
	for _, z := range req.Zones {
		name := strings.TrimSpace(z.Name)
		if name == "" {
			writeError(w, r, http.StatusBadRequest, "zone name is required")
			return
		}
		zones = append(zones, domain.Zone{Name: name, Destinations: z.Destinations})
	}

	svcReq := services.PlanRoutesRequest{
		Depot:       depot,
		Zones:       zones,
		Concurrency: h.Concurrency,
	}

	plan, err := services.PlanRoutes(r.Context(), svcReq, h.Builder, h.Repo, h.Partitioner, h.Store)
	if err != nil {
		writeServiceError(w, r, "plan routes", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

// Get answers GET /plans/{id} from the route store.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.Store == nil {
		writeError(w, r, http.StatusNotFound, "plan storage is disabled")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/plans/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusBadRequest, "plan id is required")
		return
	}

	plan, err := h.Store.GetRoutePlan(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

func toPlanResponse(p *domain.RoutePlan) dto.PlanResponse {
	res := dto.PlanResponse{
		ID:        p.ID,
		Depot:     p.Depot,
		CreatedAt: p.CreatedAt,
		Routes:    make([]dto.RouteResponse, 0, len(p.Routes)),
		Failures:  make([]dto.FailureResponse, 0, len(p.Failures)),
	}

	for _, route := range p.Routes {
		legs := make([]dto.LegResponse, 0, len(route.Legs))
		for _, l := range route.Legs {
			legs = append(legs, dto.LegResponse{From: l.From, To: l.To, Hours: l.Hours, Path: l.Path})
		}

		res.Routes = append(res.Routes, dto.RouteResponse{
			Zone:       route.Zone,
			TotalHours: route.TotalHours,
			Stops:      route.Stops,
			Path:       route.Path,
			Legs:       legs,
		})
	}

	for _, f := range p.Failures {
		res.Failures = append(res.Failures, dto.FailureResponse{Zone: f.Zone, Error: f.Error})
	}

	return res
}
